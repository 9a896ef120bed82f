// Package service contains application services for authentication, records
// and password generation.
package service

import (
	"context"
	"errors"
	"time"

	pkgcrypto "github.com/and161185/goph-vault/internal/crypto"
	"github.com/and161185/goph-vault/internal/errs"
	"github.com/and161185/goph-vault/internal/model"
	"github.com/and161185/goph-vault/internal/token"
)

// AuthService defines master-password login and session checks.
type AuthService interface {
	// Login exchanges the master password for a session token.
	Login(ctx context.Context, password string) (model.Session, error)
	// Authenticate verifies a bearer token.
	Authenticate(ctx context.Context, tok string) (token.Payload, error)
}

type AuthServiceImpl struct {
	master *pkgcrypto.MasterKey
	tokens *token.Service
	ttl    time.Duration
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(master *pkgcrypto.MasterKey, tokens *token.Service, ttl time.Duration) (*AuthServiceImpl, error) {
	if master == nil || tokens == nil {
		return nil, errors.New("auth: nil dependency")
	}
	if ttl < time.Second {
		return nil, errors.New("auth: session duration must be at least one second")
	}
	return &AuthServiceImpl{master: master, tokens: tokens, ttl: ttl}, nil
}

// Login checks the master password in constant time and issues a token.
func (s *AuthServiceImpl) Login(_ context.Context, password string) (model.Session, error) {
	if !s.master.Verify(password) {
		return model.Session{}, errs.ErrUnauthorized
	}
	tok, p, err := s.tokens.Issue(s.ttl)
	if err != nil {
		return model.Session{}, err
	}
	return model.Session{Token: tok, IssuedAt: p.IssuedTime(), ExpiresAt: p.ExpiresTime()}, nil
}

// Authenticate returns the token payload or errs.ErrUnauthorized.
func (s *AuthServiceImpl) Authenticate(_ context.Context, tok string) (token.Payload, error) {
	return s.tokens.Verify(tok)
}
