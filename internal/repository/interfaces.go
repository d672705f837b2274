package repository

import (
	"context"
	"time"

	"github.com/rpggio/temporal-xray/internal/domain/event"
	"github.com/rpggio/temporal-xray/internal/domain/history"
)

// HistoryCacheRepository manages cached raw histories of closed executions
type HistoryCacheRepository interface {
	Get(ctx context.Context, key history.CacheKey) ([]event.RawEvent, bool, error)
	Put(ctx context.Context, key history.CacheKey, events []event.RawEvent) error
	Purge(ctx context.Context, olderThan time.Time) (int64, error)
}

// APIKeyRepository manages hashed API keys for HTTP callers
type APIKeyRepository interface {
	Create(ctx context.Context, keyHash, callerID, description string) error
	Resolve(ctx context.Context, keyHash string) (string, error)
}
