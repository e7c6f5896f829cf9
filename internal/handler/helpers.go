package handler

import (
	"errors"
	"log"

	"go-erp-docs/internal/document"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helper untuk ambil User Info dari JWT Context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return "system"
	}
	return userID
}

// Helper untuk parse UUID dari path param
func parseUUID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(param))
}

// statusFor maps a service error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, document.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, document.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, document.ErrDuplicatePurchaseOrder), errors.Is(err, document.ErrConfirmedQuotation):
		return fiber.StatusConflict
	case errors.Is(err, document.ErrNoEligibleItems):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	body := fiber.Map{"error": err.Error()}
	var dup *document.DuplicatePurchaseOrderError
	if errors.As(err, &dup) {
		body["conflict"] = fiber.Map{
			"id":         dup.ConflictID,
			"type":       dup.ConflictType,
			"doc_number": dup.ConflictDocNumber,
		}
	}
	return c.Status(status).JSON(body)
}
