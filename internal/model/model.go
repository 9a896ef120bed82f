// Package model defines domain entities used by services and repositories.
package model

import "time"

// Session is the result of a successful master-password login.
type Session struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// EncryptedPassword is an opaque CipherBlob as produced by vaultcrypto.Cipher.
type EncryptedPassword string

// StoredRecord is a vault record as persisted: the password is ciphertext only.
type StoredRecord struct {
	ID                int64
	Title             string
	Username          string
	EncryptedPassword EncryptedPassword
	LoginURL          *string
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Record is a vault record with its password decrypted. It only exists
// between the service layer and the caller and is never persisted.
type Record struct {
	ID        int64
	Title     string
	Username  string
	Password  string
	LoginURL  *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordInput is a client create/update intent with plaintext password.
type RecordInput struct {
	Title    string
	Username string
	Password string
	LoginURL *string
	Notes    *string
}

// StoredInput is a create/update intent after the password was encrypted.
type StoredInput struct {
	Title             string
	Username          string
	EncryptedPassword EncryptedPassword
	LoginURL          *string
	Notes             *string
}
