// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/goph-vault/internal/model"
)

// RecordRepository stores vault records. Implementations only ever see
// encrypted passwords.
type RecordRepository interface {
	// List returns all records, newest first.
	List(ctx context.Context) ([]model.StoredRecord, error)

	// Get returns a single record by id or errs.ErrNotFound.
	Get(ctx context.Context, id int64) (*model.StoredRecord, error)

	// Create inserts a record and returns it with id and timestamps set.
	Create(ctx context.Context, in model.StoredInput) (*model.StoredRecord, error)

	// Update replaces the mutable fields of a record and bumps updated_at.
	Update(ctx context.Context, id int64, in model.StoredInput) (*model.StoredRecord, error)

	// Delete removes a record; errs.ErrNotFound if it did not exist.
	Delete(ctx context.Context, id int64) error
}
