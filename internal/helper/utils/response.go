package utils

import (
	"errors"

	"github.com/bootcampcrew/admissions_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}

// ResponseServiceError maps the services sentinel errors onto HTTP statuses
// so every handler translates them the same way.
func ResponseServiceError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSubmissionRejected):
		return ResponseError(ctx, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAlreadyFinalized),
		errors.Is(err, services.ErrFrozen),
		errors.Is(err, services.ErrAdmissionsStillOpen),
		errors.Is(err, services.ErrOpenSelectionsExist):
		return ResponseError(ctx, fiber.StatusConflict, err.Error())
	default:
		return ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
}
