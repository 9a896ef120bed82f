package httpserver

import (
	"context"

	"github.com/and161185/goph-vault/internal/token"
)

type ctxKey string

const sessionKey ctxKey = "gv.session"

// WithSession stores a verified token payload in context.
func WithSession(ctx context.Context, p token.Payload) context.Context {
	return context.WithValue(ctx, sessionKey, p)
}

// SessionFromCtx fetches the verified token payload from context.
func SessionFromCtx(ctx context.Context) (token.Payload, bool) {
	v := ctx.Value(sessionKey)
	if v == nil {
		return token.Payload{}, false
	}
	p, ok := v.(token.Payload)
	return p, ok
}
