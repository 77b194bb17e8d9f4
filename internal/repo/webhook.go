package repo

import (
	"context"
	"time"

	"github.com/managemeals/manage-meals-api/internal/domain"
)

type WebhookRepository interface {
	ListSince(ctx context.Context, since time.Time) ([]domain.WebhookRecord, error)
}
