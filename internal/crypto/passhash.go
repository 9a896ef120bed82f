// Package crypto implements master-password hashing and constant-time helpers.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (tuned for server-side hashing).
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32

	saltLen = 16
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashPassword returns Argon2id hash of password using the provided salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword verifies password against expected Argon2id hash and salt.
func VerifyPassword(password, salt, expected []byte) bool {
	return ConstantTimeEqual(HashPassword(password, salt), expected)
}

// ConstantTimeEqual reports whether a and b are equal without leaking the
// position of the first mismatch. Inputs are hashed first so that differing
// lengths take the same time as well.
func ConstantTimeEqual(a, b []byte) bool {
	ha := sha256.Sum256(a)
	hb := sha256.Sum256(b)
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}

// MasterKey holds the Argon2id digest of the master password. The plaintext
// is dropped after construction.
type MasterKey struct {
	salt []byte
	hash []byte
}

// NewMasterKey hashes password under a fresh random salt.
func NewMasterKey(password string) (*MasterKey, error) {
	salt, err := RandBytes(saltLen)
	if err != nil {
		return nil, err
	}
	return &MasterKey{salt: salt, hash: HashPassword([]byte(password), salt)}, nil
}

// Verify reports whether candidate is the master password.
func (k *MasterKey) Verify(candidate string) bool {
	return VerifyPassword([]byte(candidate), k.salt, k.hash)
}
