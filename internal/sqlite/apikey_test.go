package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/rpggio/streaks/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRepository_Resolve(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAPIKeyRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "secret", "phone", "test key"))

	clientID, err := repo.ResolveClient(ctx, "secret")
	require.NoError(t, err)
	require.Equal(t, "phone", clientID)

	var lastUsed sql.NullString
	require.NoError(t, db.Get(&lastUsed, `SELECT last_used FROM api_keys WHERE key_hash = ?`, HashToken("secret")))
	require.True(t, lastUsed.Valid)

	_, err = repo.ResolveClient(ctx, "other")
	require.Error(t, err)
}

func TestAPIKeyRepository_AddValidates(t *testing.T) {
	repo := NewAPIKeyRepository(NewTestDB(t))
	err := repo.Add(context.Background(), "", "phone", "")
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestAPIKeyRepository_DuplicateToken(t *testing.T) {
	repo := NewAPIKeyRepository(NewTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Add(ctx, "secret", "a", ""))
	require.ErrorIs(t, repo.Add(ctx, "secret", "b", ""), repository.ErrConflict)
}
