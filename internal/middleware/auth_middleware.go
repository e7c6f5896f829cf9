package middleware

import (
	"strings"

	"go-erp-docs/internal/repository"
	"go-erp-docs/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// TokenCookie is the cookie the login handler stores the JWT in
const TokenCookie = "token"

// tokenFromRequest reads "Authorization: Bearer <token>" and falls back to
// the session cookie.
func tokenFromRequest(c *fiber.Ctx) (string, bool) {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", false
		}
		return parts[1], true
	}
	token := c.Cookies(TokenCookie)
	return token, token != ""
}

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := tokenFromRequest(c)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Validate token
		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Check strict session against DB
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "User account is inactive"})
		}
		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		// Role & privileges come from the DB so a role change applies immediately
		c.Locals("user_id", claims.UserID.String())
		c.Locals("username", user.Username)
		c.Locals("user_name", user.FullName)
		c.Locals("user_role", user.Role)
		c.Locals("user_privileges", user.GetPrivilegeCodes())

		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// RequireRole allows only the listed role codes
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires role " + strings.Join(roles, " or "),
		})
	}
}
