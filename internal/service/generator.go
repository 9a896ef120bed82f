package service

import "github.com/and161185/goph-vault/internal/passgen"

// GeneratorService produces random passwords.
type GeneratorService interface {
	Generate(p passgen.Policy) (string, error)
}

var _ GeneratorService = (*passgen.Generator)(nil)
