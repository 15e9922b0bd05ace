package middleware

import (
	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

// RateLimit returns a Fiber middleware enforcing a process-wide token
// bucket on the API surface.
func RateLimit(perSecond float64, burst int) fiber.Handler {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)

	return func(c fiber.Ctx) error {
		if !limiter.Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests",
			})
		}
		return c.Next()
	}
}
