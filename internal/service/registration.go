package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/managemeals/manage-meals-api/internal/domain"
	"github.com/managemeals/manage-meals-api/internal/repo"
	"go.uber.org/zap"
)

type RegistrationService struct {
	taxonomyRepo repo.TaxonomyRepository
	logger       *zap.SugaredLogger
}

func NewRegistrationService(taxonomyRepo repo.TaxonomyRepository, logger *zap.SugaredLogger) *RegistrationService {
	return &RegistrationService{
		taxonomyRepo: taxonomyRepo,
		logger:       logger,
	}
}

// SeedDefaults inserts the default categories and tags for a newly
// registered user. Writes are upserts keyed on (owner, slug), so a
// redelivered message after a partial failure re-attempts both sets without
// tripping the unique index.
func (s *RegistrationService) SeedDefaults(ctx context.Context, userUUID string) error {
	now := time.Now()

	categories := make([]domain.Category, 0, len(domain.DefaultCategories))
	for _, name := range domain.DefaultCategories {
		categories = append(categories, domain.Category{
			UUID:          uuid.NewString(),
			Slug:          slug.Make(name),
			Name:          name,
			CreatedByUUID: userUUID,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	tags := make([]domain.Tag, 0, len(domain.DefaultTags))
	for _, name := range domain.DefaultTags {
		tags = append(tags, domain.Tag{
			UUID:          uuid.NewString(),
			Slug:          slug.Make(name),
			Name:          name,
			CreatedByUUID: userUUID,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	if err := s.taxonomyRepo.UpsertCategories(ctx, categories); err != nil {
		return fmt.Errorf("failed to seed default categories: %w", err)
	}

	if err := s.taxonomyRepo.UpsertTags(ctx, tags); err != nil {
		return fmt.Errorf("failed to seed default tags: %w", err)
	}

	s.logger.Infow("seeded defaults for user", "uuid", userUUID, "categories", len(categories), "tags", len(tags))

	return nil
}
