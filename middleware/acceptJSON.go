package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// AcceptJSON only lets through requests whose Accept header allows
// application/json. A missing header is treated as */*.
func AcceptJSON() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Accepts(fiber.MIMEApplicationJSON) == "" {
			return c.Status(fiber.StatusNotAcceptable).JSON(fiber.Map{
				"error": "only application/json responses are available",
			})
		}
		return c.Next()
	}
}
