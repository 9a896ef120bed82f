package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/goph-vault/internal/errs"
	"github.com/and161185/goph-vault/internal/model"
)

const recordCols = `id, title, username, password, login_url, notes, created_at, updated_at`

// RecordRepo implements RecordRepository using PostgreSQL.
type RecordRepo struct{ db *DB }

// NewRecordRepo constructs a record repository.
func NewRecordRepo(db *DB) *RecordRepo { return &RecordRepo{db: db} }

func scanRecord(row pgx.Row) (*model.StoredRecord, error) {
	var (
		r   model.StoredRecord
		enc string
	)
	if err := row.Scan(&r.ID, &r.Title, &r.Username, &enc, &r.LoginURL, &r.Notes, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	r.EncryptedPassword = model.EncryptedPassword(enc)
	return &r, nil
}

// List returns all records ordered by creation time, newest first.
func (r *RecordRepo) List(ctx context.Context) ([]model.StoredRecord, error) {
	const q = `SELECT ` + recordCols + ` FROM items ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.StoredRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Get returns a single record by id.
func (r *RecordRepo) Get(ctx context.Context, id int64) (*model.StoredRecord, error) {
	const q = `SELECT ` + recordCols + ` FROM items WHERE id=$1`
	return scanRecord(r.db.Pool.QueryRow(ctx, q, id))
}

// Create inserts a record.
func (r *RecordRepo) Create(ctx context.Context, in model.StoredInput) (*model.StoredRecord, error) {
	const q = `
INSERT INTO items (title, username, password, login_url, notes)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + recordCols
	return scanRecord(r.db.Pool.QueryRow(ctx, q,
		in.Title, in.Username, string(in.EncryptedPassword), in.LoginURL, in.Notes))
}

// Update overwrites a record and bumps updated_at.
func (r *RecordRepo) Update(ctx context.Context, id int64, in model.StoredInput) (*model.StoredRecord, error) {
	const q = `
UPDATE items
SET title=$2, username=$3, password=$4, login_url=$5, notes=$6, updated_at=now()
WHERE id=$1
RETURNING ` + recordCols
	return scanRecord(r.db.Pool.QueryRow(ctx, q,
		id, in.Title, in.Username, string(in.EncryptedPassword), in.LoginURL, in.Notes))
}

// Delete removes a record by id.
func (r *RecordRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM items WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
