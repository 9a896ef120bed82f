// Package vaultcrypto encrypts stored secrets with an AEAD under the process-wide key.
package vaultcrypto

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/and161185/goph-vault/internal/errs"
)

// Params
const (
	KeyLen   = chacha20poly1305.KeySize
	NonceLen = chacha20poly1305.NonceSizeX
	TagLen   = chacha20poly1305.Overhead

	keyInfo = "goph-vault/record-password/v1"
)

var blobEncoding = base64.RawURLEncoding

// Cipher seals and opens CipherBlobs. It is immutable and safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
	rand io.Reader
}

// New derives the AEAD key from the configured encryption key via HKDF-SHA256.
func New(key string) (*Cipher, error) {
	if key == "" {
		return nil, errors.New("vaultcrypto: empty encryption key")
	}
	k, err := deriveKey([]byte(key))
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(k)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead, rand: rand.Reader}, nil
}

func deriveKey(ikm []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, ikm, nil, []byte(keyInfo))
	key := make([]byte, KeyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt seals plaintext under a fresh random nonce and returns
// base64url(nonce || ciphertext || tag).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, NonceLen, NonceLen+len(plaintext)+TagLen)
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	out := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return blobEncoding.EncodeToString(out), nil
}

// Decrypt opens a blob produced by Encrypt. Any decoding, length or tag
// failure yields errs.ErrIntegrity and no plaintext.
func (c *Cipher) Decrypt(blob string) (string, error) {
	raw, err := blobEncoding.DecodeString(blob)
	if err != nil {
		return "", errs.ErrIntegrity
	}
	if len(raw) < NonceLen+TagLen {
		return "", errs.ErrIntegrity
	}
	nonce, ct := raw[:NonceLen], raw[NonceLen:]
	pt, err := c.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", errs.ErrIntegrity
	}
	return string(pt), nil
}
