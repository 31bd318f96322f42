package serverutils

import (
	"errors"

	"shop-assistant-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain errors to HTTP responses. Backend
// instability (store, inference) is absorbed earlier in the service layer;
// what reaches here is either a caller error or a genuine 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		switch {
		case errors.Is(err, apperror.ErrInvalidMessage):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, apperror.ErrSessionClosed):
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, apperror.ErrSessionNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, apperror.ErrStoreUnavailable):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "service temporarily unavailable"})
		case errors.Is(err, apperror.ErrPullFailed):
			return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
}
