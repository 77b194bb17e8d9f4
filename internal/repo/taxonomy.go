package repo

import (
	"context"

	"github.com/managemeals/manage-meals-api/internal/domain"
)

// TaxonomyRepository writes tags and categories. Upserts are keyed on
// (createdByUuid, slug), matching the collection's unique index, so a
// redelivered registration message converges instead of failing on a
// duplicate key.
type TaxonomyRepository interface {
	UpsertCategories(ctx context.Context, categories []domain.Category) error
	UpsertTags(ctx context.Context, tags []domain.Tag) error
}
