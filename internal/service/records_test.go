package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/goph-vault/internal/crypto/vaultcrypto"
	"github.com/and161185/goph-vault/internal/errs"
	"github.com/and161185/goph-vault/internal/model"
	"github.com/and161185/goph-vault/internal/repository/memory"
)

type failingRepo struct {
	*memory.RecordRepo
	err error
}

func (f failingRepo) List(context.Context) ([]model.StoredRecord, error) { return nil, f.err }

func newRecords(t *testing.T) (*RecordServiceImpl, *memory.RecordRepo) {
	t.Helper()
	c, err := vaultcrypto.New("enc-key")
	require.NoError(t, err)
	repo := memory.NewRecordRepo()
	return NewRecordService(repo, c), repo
}

func strp(s string) *string { return &s }

func TestRecords_CreateStoresOnlyCiphertext(t *testing.T) {
	t.Parallel()
	s, repo := newRecords(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, model.RecordInput{
		Title: "bank", Username: "alice", Password: "s3cr3t!", LoginURL: strp("https://bank.example"), Notes: strp(""),
	})
	require.NoError(t, err)
	require.Equal(t, "s3cr3t!", rec.Password)
	require.Nil(t, rec.Notes, "empty notes stored as NULL")

	stored, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.NotEqual(t, "s3cr3t!", string(stored.EncryptedPassword))
	require.False(t, strings.Contains(string(stored.EncryptedPassword), "s3cr3t"))
}

func TestRecords_ListGetUpdateDelete(t *testing.T) {
	t.Parallel()
	s, _ := newRecords(t)
	ctx := context.Background()

	a, err := s.Create(ctx, model.RecordInput{Title: "a", Username: "u1", Password: "p1"})
	require.NoError(t, err)
	_, err = s.Create(ctx, model.RecordInput{Title: "b", Username: "u2", Password: "p2"})
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	got := map[string]string{}
	for _, r := range list {
		got[r.Title] = r.Password
	}
	require.Equal(t, map[string]string{"a": "p1", "b": "p2"}, got)

	up, err := s.Update(ctx, a.ID, model.RecordInput{Title: "a", Username: "u1", Password: "p1-new"})
	require.NoError(t, err)
	require.Equal(t, "p1-new", up.Password)

	one, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "p1-new", one.Password)

	require.NoError(t, s.Delete(ctx, a.ID))
	_, err = s.Get(ctx, a.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, a.ID), errs.ErrNotFound)
	_, err = s.Update(ctx, a.ID, model.RecordInput{Title: "a", Username: "u", Password: "p"})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRecords_Validation(t *testing.T) {
	t.Parallel()
	s, _ := newRecords(t)
	ctx := context.Background()

	bad := []model.RecordInput{
		{Username: "u", Password: "p"},
		{Title: "  ", Username: "u", Password: "p"},
		{Title: "t", Password: "p"},
		{Title: "t", Username: "u"},
	}
	for _, in := range bad {
		_, err := s.Create(ctx, in)
		require.ErrorIs(t, err, errs.ErrValidation, "%+v", in)
		_, err = s.Update(ctx, 1, in)
		require.ErrorIs(t, err, errs.ErrValidation, "%+v", in)
	}

	_, err := s.Get(ctx, 0)
	require.ErrorIs(t, err, errs.ErrValidation)
	require.ErrorIs(t, s.Delete(ctx, -1), errs.ErrValidation)
}

func TestRecords_TamperedCiphertextFailsClosed(t *testing.T) {
	t.Parallel()
	s, repo := newRecords(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, model.RecordInput{Title: "a", Username: "u", Password: "p"})
	require.NoError(t, err)

	stored, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	enc := []byte(stored.EncryptedPassword)
	if enc[10] == 'A' {
		enc[10] = 'B'
	} else {
		enc[10] = 'A'
	}
	stored.EncryptedPassword = model.EncryptedPassword(enc)
	repo.Put(*stored)

	_, err = s.Get(ctx, rec.ID)
	require.ErrorIs(t, err, errs.ErrIntegrity)

	list, err := s.List(ctx)
	require.ErrorIs(t, err, errs.ErrIntegrity)
	require.Nil(t, list)
}

func TestRecords_RepoErrorPropagates(t *testing.T) {
	t.Parallel()
	c, err := vaultcrypto.New("k")
	require.NoError(t, err)
	boom := errors.New("db down")
	s := NewRecordService(failingRepo{RecordRepo: memory.NewRecordRepo(), err: boom}, c)

	_, err = s.List(context.Background())
	require.ErrorIs(t, err, boom)
}
