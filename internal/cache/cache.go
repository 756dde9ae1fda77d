package cache

import (
	"context"
	"time"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
)

// StatementCache caches per-product ledger statements (ordered entries
// plus running balance). Appends invalidate the owning product's key so
// a cached statement never hides a newer entry.
type StatementCache interface {
	Get(ctx context.Context, productID string) (*dto.LedgerStatementResponse, bool, error)
	Set(ctx context.Context, productID string, statement *dto.LedgerStatementResponse, ttl time.Duration) error
	Invalidate(ctx context.Context, productID string) error
}

// NoopStatementCache is wired when Redis is not configured.
type NoopStatementCache struct{}

func (NoopStatementCache) Get(_ context.Context, _ string) (*dto.LedgerStatementResponse, bool, error) {
	return nil, false, nil
}

func (NoopStatementCache) Set(_ context.Context, _ string, _ *dto.LedgerStatementResponse, _ time.Duration) error {
	return nil
}

func (NoopStatementCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
