package repo

import (
	"context"
	"time"

	"github.com/managemeals/manage-meals-api/internal/domain"
)

type SyncRepository interface {
	// GetCursor returns ErrNotFound when no cursor row exists yet; callers
	// fall back to a far-past sentinel to force a full initial scan.
	GetCursor(ctx context.Context, name string) (*domain.SyncCursor, error)
	SetCursor(ctx context.Context, name string, lastSyncedAt time.Time) error
}

type DeleteRepository interface {
	ListSince(ctx context.Context, collection string, since time.Time) ([]domain.DeleteTombstone, error)
}
