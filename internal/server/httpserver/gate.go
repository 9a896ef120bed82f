package httpserver

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/and161185/goph-vault/internal/errs"
	"github.com/and161185/goph-vault/internal/observability"
	"github.com/and161185/goph-vault/internal/service"
)

// RequireSession admits a request only with a valid bearer token. Every
// failure looks the same to the client.
func RequireSession(auth service.AuthService, m *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			m.RecordAuthFailure(observability.AuthFailureToken)
			return errs.ErrUnauthorized
		}
		p, err := auth.Authenticate(c.UserContext(), tok)
		if err != nil {
			m.RecordAuthFailure(observability.AuthFailureToken)
			return errs.ErrUnauthorized
		}
		c.SetUserContext(WithSession(c.UserContext(), p))
		return c.Next()
	}
}

// bearerToken extracts <token> from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if len(v) < 7 || !strings.EqualFold(v[:7], "bearer ") {
		return "", false
	}
	t := strings.TrimSpace(v[7:])
	return t, t != ""
}
