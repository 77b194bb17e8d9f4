package repo

import (
	"context"
	"time"

	"github.com/managemeals/manage-meals-api/internal/domain"
)

type RecipeRepository interface {
	GetByUUID(ctx context.Context, uuid string) (*domain.Recipe, error)
	UpdateImage(ctx context.Context, uuid string, imageURL string) error
	ListChangedSince(ctx context.Context, since time.Time) ([]domain.ChangedRecipe, error)
}
