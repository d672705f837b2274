package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/temporal-xray/internal/repository"
)

// APIKeyRepository implements repository.APIKeyRepository for SQLite
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

var _ repository.APIKeyRepository = (*APIKeyRepository)(nil)

// Create registers a hashed key for a caller
func (r *APIKeyRepository) Create(ctx context.Context, keyHash, callerID, description string) error {
	if keyHash == "" || callerID == "" {
		return fmt.Errorf("%w: key hash and caller id are required", repository.ErrInvalidInput)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, caller_id, description) VALUES (?, ?, ?)`,
		keyHash, callerID, description)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// Resolve returns the caller that owns keyHash and records its use
func (r *APIKeyRepository) Resolve(ctx context.Context, keyHash string) (string, error) {
	var callerID string
	err := r.db.QueryRowContext(ctx,
		`SELECT caller_id FROM api_keys WHERE key_hash = ?`, keyHash).Scan(&callerID)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used = CURRENT_TIMESTAMP WHERE key_hash = ?`, keyHash); err != nil {
		return "", fmt.Errorf("failed to record api key use: %w", err)
	}
	return callerID, nil
}
