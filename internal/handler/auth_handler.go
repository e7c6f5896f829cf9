package handler

import (
	"errors"
	"time"

	"go-erp-docs/internal/middleware"
	"go-erp-docs/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService  service.AuthService
	secureCookie bool
}

func NewAuthHandler(authService service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ValidateTokenRequest represents the validate token request body
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Username and password are required"})
	}

	response, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserInactive) {
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}
		return respondError(c, err)
	}

	h.setTokenCookie(c, response.Token, response.ExpiresAt)
	return c.JSON(response)
}

// Me returns the authenticated user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id, err := uuid.Parse(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	user, err := h.authService.Me(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// Logout invalidates the session on every device and clears the cookie
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	id, err := uuid.Parse(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.authService.Logout(id); err != nil {
		return respondError(c, err)
	}

	h.setTokenCookie(c, "", time.Unix(0, 0))
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// ChangePassword handles password change for the current user
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		return c.Status(400).JSON(fiber.Map{"error": "old_password and new_password are required"})
	}

	id, err := uuid.Parse(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.authService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// ValidateToken handles JWT token validation
// POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.Token == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Token is required"})
	}

	response, err := h.authService.ValidateToken(req.Token)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(response)
}
