package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

const (
	LoginMaxAttempts = 5
	LoginWindow      = 15 * time.Minute
)

// RequestLogger logs one line per request in Jakarta time
func RequestLogger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${ip} - ${method} ${path} - ${status} - ${latency}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
	})
}

// LoginRateLimiter allows LoginMaxAttempts login calls per IP per
// LoginWindow. A nil storage keeps counters in process memory.
func LoginRateLimiter(storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        LoginMaxAttempts,
		Expiration: LoginWindow,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "login:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many login attempts, try again in 15 minutes",
			})
		},
	})
}

// GlobalRateLimiter caps every client at perMinute requests
func GlobalRateLimiter(storage fiber.Storage, perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		Storage:    storage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
		},
	})
}
