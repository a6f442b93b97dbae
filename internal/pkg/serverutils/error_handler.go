package serverutils

import (
	"errors"

	"kdrama-recommender-be/internal/pkg/logger"
	"kdrama-recommender-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler builds the app-wide fiber error handler. Typed
// service errors map to their HTTP status; anything else is a 500
// with the detail kept out of the response body.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := err.Error()

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
		case errors.Is(err, service.ErrDramaNotFound):
			code = fiber.StatusNotFound
		case errors.Is(err, service.ErrUnknownPreferenceType):
			code = fiber.StatusBadRequest
		}

		if code == fiber.StatusInternalServerError {
			log.Error("http", "request failed", map[string]interface{}{
				"path":  ctx.Path(),
				"error": err.Error(),
			})
			message = "internal server error"
		}

		return ctx.Status(code).JSON(ErrorResponse(message))
	}
}
