// Package passgen generates random passwords from a character-class policy.
package passgen

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/and161185/goph-vault/internal/errs"
)

// Character classes, concatenated in this order.
const (
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Digits    = "0123456789"
	Symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// Ambiguous glyphs removed when Policy.ExcludeAmbiguous is set.
	Ambiguous = "0OIl"
)

// Length bounds.
const (
	DefaultLength = 16
	MaxLength     = 1024
)

// Policy selects the length and character classes of a password.
type Policy struct {
	Length           int
	Uppercase        bool
	Lowercase        bool
	Digits           bool
	Symbols          bool
	ExcludeAmbiguous bool
}

// DefaultPolicy returns 16 characters from all four classes.
func DefaultPolicy() Policy {
	return Policy{
		Length:    DefaultLength,
		Uppercase: true,
		Lowercase: true,
		Digits:    true,
		Symbols:   true,
	}
}

// Charset returns the de-duplicated character set the policy allows.
func (p Policy) Charset() string {
	var b strings.Builder
	seen := make(map[byte]bool)
	add := func(class string) {
		for i := 0; i < len(class); i++ {
			c := class[i]
			if seen[c] || (p.ExcludeAmbiguous && strings.IndexByte(Ambiguous, c) >= 0) {
				continue
			}
			seen[c] = true
			b.WriteByte(c)
		}
	}
	if p.Uppercase {
		add(Uppercase)
	}
	if p.Lowercase {
		add(Lowercase)
	}
	if p.Digits {
		add(Digits)
	}
	if p.Symbols {
		add(Symbols)
	}
	return b.String()
}

// Generator draws passwords from a CSPRNG.
type Generator struct {
	rand io.Reader
}

// New returns a Generator reading from crypto/rand.
func New() *Generator { return &Generator{rand: rand.Reader} }

// NewWithReader returns a Generator over r; r must be safe for concurrent
// use if the Generator is shared.
func NewWithReader(r io.Reader) *Generator { return &Generator{rand: r} }

// Generate returns a password of exactly p.Length characters, each drawn
// uniformly from p.Charset().
func (g *Generator) Generate(p Policy) (string, error) {
	if p.Length < 1 || p.Length > MaxLength {
		return "", fmt.Errorf("%w: length must be between 1 and %d", errs.ErrInvalidPolicy, MaxLength)
	}
	charset := p.Charset()
	if charset == "" {
		return "", fmt.Errorf("%w: at least one character class must remain after exclusions", errs.ErrInvalidPolicy)
	}

	n := len(charset)
	// Largest multiple of n that fits in a byte; draws at or above it are
	// rejected so every index is equally likely.
	limit := 256 - 256%n

	out := make([]byte, 0, p.Length)
	buf := make([]byte, p.Length+p.Length/4+8)
	for len(out) < p.Length {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", fmt.Errorf("random source: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, charset[int(b)%n])
			if len(out) == p.Length {
				break
			}
		}
	}
	return string(out), nil
}
