package middleware

import (
	"strings"

	"github.com/bootcampcrew/admissions_service/internal/helper"
	"github.com/gofiber/fiber/v2"
)

// StaffOnly guards the staff surface. Tokens come from the access_token
// cookie or the Authorization header.
func StaffOnly(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))

		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		staff, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		ctx.Locals("staffEmail", staff.Email)
		ctx.Locals("staff", staff)
		return ctx.Next()
	}
}
