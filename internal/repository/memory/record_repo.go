// Package memory is a process-local RecordRepository for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/and161185/goph-vault/internal/errs"
	"github.com/and161185/goph-vault/internal/model"
)

// RecordRepo keeps records in a map guarded by a mutex.
type RecordRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]model.StoredRecord
	now    func() time.Time
}

// NewRecordRepo returns an empty repository.
func NewRecordRepo() *RecordRepo {
	return &RecordRepo{byID: map[int64]model.StoredRecord{}, now: time.Now}
}

// List returns a copy of all records, newest first.
func (r *RecordRepo) List(_ context.Context) ([]model.StoredRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.StoredRecord, 0, len(r.byID))
	for _, rec := range r.byID {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Get returns a record by id.
func (r *RecordRepo) Get(_ context.Context, id int64) (*model.StoredRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &rec, nil
}

// Create stores a new record with the next id.
func (r *RecordRepo) Create(_ context.Context, in model.StoredInput) (*model.StoredRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := r.now().UTC()
	rec := model.StoredRecord{
		ID:                r.nextID,
		Title:             in.Title,
		Username:          in.Username,
		EncryptedPassword: in.EncryptedPassword,
		LoginURL:          in.LoginURL,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	r.byID[rec.ID] = rec
	return &rec, nil
}

// Update replaces the mutable fields of an existing record.
func (r *RecordRepo) Update(_ context.Context, id int64, in model.StoredInput) (*model.StoredRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	rec.Title = in.Title
	rec.Username = in.Username
	rec.EncryptedPassword = in.EncryptedPassword
	rec.LoginURL = in.LoginURL
	rec.Notes = in.Notes
	rec.UpdatedAt = r.now().UTC()
	r.byID[id] = rec
	return &rec, nil
}

// Delete removes a record.
func (r *RecordRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// Put overwrites a stored record as-is (tests use it to plant corrupted ciphertext).
func (r *RecordRepo) Put(rec model.StoredRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID > r.nextID {
		r.nextID = rec.ID
	}
	r.byID[rec.ID] = rec
}
