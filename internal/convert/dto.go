// Package convert maps domain records to and from their JSON wire shape.
package convert

import (
	"time"

	model "github.com/and161185/goph-vault/internal/model"
)

// RecordDTO is a record as served by the HTTP API. Password is plaintext.
type RecordDTO struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	LoginURL  *string   `json:"login_url"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordRequest is the body of create and update calls.
type RecordRequest struct {
	Title    string  `json:"title"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	LoginURL *string `json:"login_url,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries a session token and its expiry in Unix milliseconds.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// PasswordResponse is the body of GET /api/generate-password.
type PasswordResponse struct {
	Password string `json:"password"`
}

// ErrorResponse is the body of every failed call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToRecordDTO converts a decrypted record to its wire shape.
func ToRecordDTO(r model.Record) RecordDTO {
	return RecordDTO{
		ID:        r.ID,
		Title:     r.Title,
		Username:  r.Username,
		Password:  r.Password,
		LoginURL:  r.LoginURL,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// ToRecordDTOs converts a list, never returning nil so that an empty vault
// encodes as [].
func ToRecordDTOs(rs []model.Record) []RecordDTO {
	out := make([]RecordDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, ToRecordDTO(r))
	}
	return out
}

// FromRecordRequest converts a request body to a service input.
func FromRecordRequest(in RecordRequest) model.RecordInput {
	return model.RecordInput{
		Title:    in.Title,
		Username: in.Username,
		Password: in.Password,
		LoginURL: in.LoginURL,
		Notes:    in.Notes,
	}
}

// ToLoginResponse converts a session to the login body.
func ToLoginResponse(s model.Session) LoginResponse {
	return LoginResponse{Token: s.Token, ExpiresAt: s.ExpiresAt.UnixMilli()}
}
