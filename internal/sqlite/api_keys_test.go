package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/temporal-xray/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRepository_CreateResolve(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAPIKeyRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "hash-1", "oncall-bot", "pager integration"))

	caller, err := repo.Resolve(ctx, "hash-1")
	require.NoError(t, err)
	require.Equal(t, "oncall-bot", caller)

	var used int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_keys WHERE key_hash = ? AND last_used IS NOT NULL`, "hash-1").Scan(&used)
	require.NoError(t, err)
	require.Equal(t, 1, used)
}

func TestAPIKeyRepository_Errors(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAPIKeyRepository(db)
	ctx := context.Background()

	_, err := repo.Resolve(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Create(ctx, "hash-1", "a", ""))
	require.ErrorIs(t, repo.Create(ctx, "hash-1", "b", ""), repository.ErrConflict)
	require.ErrorIs(t, repo.Create(ctx, "", "b", ""), repository.ErrInvalidInput)
}
