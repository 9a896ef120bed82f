package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/and161185/goph-vault/internal/crypto/vaultcrypto"
	"github.com/and161185/goph-vault/internal/errs"
	"github.com/and161185/goph-vault/internal/model"
	"github.com/and161185/goph-vault/internal/repository"
)

// RecordService defines operations over vault records with plaintext passwords.
type RecordService interface {
	// List returns all records with decrypted passwords, newest first.
	List(ctx context.Context) ([]model.Record, error)
	// Get returns a single record by id.
	Get(ctx context.Context, id int64) (*model.Record, error)
	// Create encrypts the password and stores a new record.
	Create(ctx context.Context, in model.RecordInput) (*model.Record, error)
	// Update encrypts the password and replaces an existing record.
	Update(ctx context.Context, id int64, in model.RecordInput) (*model.Record, error)
	// Delete removes a record.
	Delete(ctx context.Context, id int64) error
}

type RecordServiceImpl struct {
	repo   repository.RecordRepository
	cipher *vaultcrypto.Cipher
}

// NewRecordService constructs RecordService.
func NewRecordService(repo repository.RecordRepository, cipher *vaultcrypto.Cipher) *RecordServiceImpl {
	return &RecordServiceImpl{repo: repo, cipher: cipher}
}

// List decrypts every record; one failed decryption fails the whole call.
func (s *RecordServiceImpl) List(ctx context.Context) ([]model.Record, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, 0, len(stored))
	for i := range stored {
		rec, err := s.open(&stored[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

// Get fetches and decrypts a single record.
func (s *RecordServiceImpl) Get(ctx context.Context, id int64) (*model.Record, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: bad id", errs.ErrValidation)
	}
	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.open(stored)
}

// Create validates input and stores it with the password sealed.
func (s *RecordServiceImpl) Create(ctx context.Context, in model.RecordInput) (*model.Record, error) {
	sealed, err := s.seal(in)
	if err != nil {
		return nil, err
	}
	stored, err := s.repo.Create(ctx, sealed)
	if err != nil {
		return nil, err
	}
	return s.open(stored)
}

// Update validates input and overwrites the record with the password sealed.
func (s *RecordServiceImpl) Update(ctx context.Context, id int64, in model.RecordInput) (*model.Record, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: bad id", errs.ErrValidation)
	}
	sealed, err := s.seal(in)
	if err != nil {
		return nil, err
	}
	stored, err := s.repo.Update(ctx, id, sealed)
	if err != nil {
		return nil, err
	}
	return s.open(stored)
}

// Delete removes a record by id.
func (s *RecordServiceImpl) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: bad id", errs.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

// Validation rules:
// - title and username are non-blank
// - password is non-empty
func validate(in model.RecordInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", errs.ErrValidation)
	case strings.TrimSpace(in.Username) == "":
		return fmt.Errorf("%w: username is required", errs.ErrValidation)
	case in.Password == "":
		return fmt.Errorf("%w: password is required", errs.ErrValidation)
	}
	return nil
}

func (s *RecordServiceImpl) seal(in model.RecordInput) (model.StoredInput, error) {
	if err := validate(in); err != nil {
		return model.StoredInput{}, err
	}
	blob, err := s.cipher.Encrypt(in.Password)
	if err != nil {
		return model.StoredInput{}, err
	}
	return model.StoredInput{
		Title:             in.Title,
		Username:          in.Username,
		EncryptedPassword: model.EncryptedPassword(blob),
		LoginURL:          emptyToNil(in.LoginURL),
		Notes:             emptyToNil(in.Notes),
	}, nil
}

func (s *RecordServiceImpl) open(r *model.StoredRecord) (*model.Record, error) {
	pw, err := s.cipher.Decrypt(string(r.EncryptedPassword))
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", r.ID, err)
	}
	return &model.Record{
		ID:        r.ID,
		Title:     r.Title,
		Username:  r.Username,
		Password:  pw,
		LoginURL:  r.LoginURL,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
