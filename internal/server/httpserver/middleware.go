package httpserver

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/goph-vault/internal/observability"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

const requestIDLocal = "request_id"

// RequestID assigns every request an id. A well-formed incoming id is kept.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if _, err := uuid.FromString(id); err != nil {
			id = uuid.Must(uuid.NewV4()).String()
		}
		c.Locals(requestIDLocal, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocal).(string)
	return id
}

// Logging writes one structured line per request and records metrics.
// Bodies and headers are never logged.
func Logging(log *zap.Logger, m *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		dur := time.Since(start)

		status := c.Response().StatusCode()
		route := c.Route().Path

		m.RecordRequest(route, c.Method(), status, dur)
		log.Info("http",
			zap.String("method", c.Method()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("dur", dur),
			zap.String("peer", c.IP()),
			zap.String("request_id", requestID(c)),
		)
		return err
	}
}

// Recover turns a panic in a later handler into a 500 response.
func Recover(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("route", c.Route().Path),
					zap.String("request_id", requestID(c)),
				)
				err = writeError(c, log, errInternal)
			}
		}()
		if err = c.Next(); err != nil {
			return writeError(c, log, err)
		}
		return nil
	}
}

// Timeout bounds the context handed to services.
func Timeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
