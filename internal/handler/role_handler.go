package handler

import (
	"go-erp-docs/internal/model"

	"github.com/gofiber/fiber/v2"
)

// RoleInfo describes one role code and what it grants
type RoleInfo struct {
	Code       string   `json:"code"`
	Privileges []string `json:"privileges"`
}

type RoleHandler struct{}

func NewRoleHandler() *RoleHandler {
	return &RoleHandler{}
}

// GetRoles returns all available roles
// GET /api/v1/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles := []RoleInfo{
		{Code: model.RoleAdmin, Privileges: model.PrivilegesForRole(model.RoleAdmin)},
		{Code: model.RoleUser, Privileges: model.PrivilegesForRole(model.RoleUser)},
	}
	return c.JSON(roles)
}
