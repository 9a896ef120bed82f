package httpserver

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/and161185/goph-vault/internal/convert"
	"github.com/and161185/goph-vault/internal/errs"
)

var errInternal = errors.New("internal")

// statusOf maps an error to an HTTP status and a client-safe message.
// Anything unrecognised, integrity failures included, is a 500 with a
// generic body.
func statusOf(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		return fiber.StatusUnauthorized, "unauthorized"
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrInvalidPolicy):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, errs.ErrNotFound):
		return fiber.StatusNotFound, "not found"
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

func writeError(c *fiber.Ctx, log *zap.Logger, err error) error {
	code, msg := statusOf(err)
	if code >= fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.Error(err),
			zap.String("route", c.Route().Path),
			zap.String("request_id", requestID(c)),
		)
	}
	return c.Status(code).JSON(convert.ErrorResponse{Error: msg})
}

// ErrorHandler is the app-level fallback for errors raised outside the
// middleware chain.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, log, err)
	}
}
