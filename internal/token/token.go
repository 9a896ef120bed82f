// Package token issues and verifies stateless HS256 session tokens.
//
// A token is header.payload.signature with every segment in unpadded
// URL-safe base64. The payload carries only {"exp","iat"} in unix seconds;
// nothing about a token is kept server-side, so a token cannot be revoked
// before it expires.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/goph-vault/internal/errs"
)

// Algorithm is the only accepted "alg" header value.
const Algorithm = "HS256"

// Payload is the verified content of a session token.
type Payload struct {
	IssuedAt  int64 `json:"iat"`
	ExpiresAt int64 `json:"exp"`
}

// IssuedTime returns IssuedAt as time.Time.
func (p Payload) IssuedTime() time.Time { return time.Unix(p.IssuedAt, 0) }

// ExpiresTime returns ExpiresAt as time.Time.
func (p Payload) ExpiresTime() time.Time { return time.Unix(p.ExpiresAt, 0) }

// Service signs and verifies tokens with one shared secret.
type Service struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the wall clock (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs a Service. The secret is copied and never exposed.
func New(secret []byte, opts ...Option) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: empty signing secret")
	}
	s := &Service{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
		// Claims are checked below against our own clock and rules.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{Algorithm}),
			jwt.WithStrictDecoding(),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Issue creates a token valid for d, truncated to whole seconds.
func (s *Service) Issue(d time.Duration) (string, Payload, error) {
	secs := int64(d / time.Second)
	if secs <= 0 {
		return "", Payload{}, errors.New("token: duration must be at least one second")
	}
	now := s.now().Unix()
	p := Payload{IssuedAt: now, ExpiresAt: now + secs}

	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Unix(p.IssuedAt, 0)),
		ExpiresAt: jwt.NewNumericDate(time.Unix(p.ExpiresAt, 0)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", Payload{}, err
	}
	return signed, p, nil
}

// Verify checks shape, algorithm, signature (constant time) and expiry, in
// that order. Every failure is reported as errs.ErrUnauthorized.
func (s *Service) Verify(tok string) (Payload, error) {
	if !wellFormed(tok) {
		return Payload{}, errs.ErrUnauthorized
	}

	var claims jwt.RegisteredClaims
	parsed, err := s.parser.ParseWithClaims(tok, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Payload{}, errs.ErrUnauthorized
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return Payload{}, errs.ErrUnauthorized
	}

	p := Payload{IssuedAt: claims.IssuedAt.Unix(), ExpiresAt: claims.ExpiresAt.Unix()}
	if p.ExpiresAt <= s.now().Unix() {
		return Payload{}, errs.ErrUnauthorized
	}
	return p, nil
}

// wellFormed reports whether tok has exactly three non-empty segments.
func wellFormed(tok string) bool {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}
