package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/streaks/internal/repository"
)

// APIKeyRepository stores hashed bearer tokens for HTTP clients.
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new API key repository.
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Add stores token for clientID. Only the SHA-256 hash is persisted.
func (r *APIKeyRepository) Add(ctx context.Context, token, clientID, description string) error {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(clientID) == "" {
		return fmt.Errorf("%w: token and client id are required", repository.ErrInvalidInput)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, client_id, created_at, description) VALUES (?, ?, ?, ?)`,
		HashToken(token), clientID, time.Now().UTC(), description,
	)
	if err != nil {
		return mapError("add api key", err)
	}
	return nil
}

// ResolveClient returns the client owning token and stamps last_used.
func (r *APIKeyRepository) ResolveClient(ctx context.Context, token string) (string, error) {
	hash := HashToken(token)
	var clientID string
	err := r.db.GetContext(ctx, &clientID, `SELECT client_id FROM api_keys WHERE key_hash = ?`, hash)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && clientID == "") {
		return "", fmt.Errorf("unauthorized: invalid token")
	}
	if err != nil {
		return "", mapError("resolve api key", err)
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), hash); err != nil {
		return "", mapError("touch api key", err)
	}
	return clientID, nil
}

// HashToken returns the hex SHA-256 of token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
