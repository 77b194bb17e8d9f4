package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/managemeals/manage-meals-api/internal/blob"
	"github.com/managemeals/manage-meals-api/internal/domain"
	"github.com/managemeals/manage-meals-api/internal/imagefetch"
	"github.com/managemeals/manage-meals-api/internal/repo"
	"go.uber.org/zap"
)

type RecipeImageService struct {
	recipeRepo      repo.RecipeRepository
	blobStore       blob.Store
	fetcher         imagefetch.Fetcher
	defaultImageURL string
	logger          *zap.SugaredLogger
}

func NewRecipeImageService(
	recipeRepo repo.RecipeRepository,
	blobStore blob.Store,
	fetcher imagefetch.Fetcher,
	defaultImageURL string,
	logger *zap.SugaredLogger,
) *RecipeImageService {
	return &RecipeImageService{
		recipeRepo:      recipeRepo,
		blobStore:       blobStore,
		fetcher:         fetcher,
		defaultImageURL: defaultImageURL,
		logger:          logger,
	}
}

// ProcessRecipeImage fetches the source image, uploads it under a
// deterministic key and points the recipe at the CDN URL. The recipe is
// never left without an image: fetch and upload failures fall back to the
// configured default. A missing recipe is reported as repo.ErrNotFound so
// the consumer can drop the message.
func (s *RecipeImageService) ProcessRecipeImage(ctx context.Context, msg domain.RecipeImageMessage) error {
	if _, err := s.recipeRepo.GetByUUID(ctx, msg.UUID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("recipe %s: %w", msg.UUID, err)
		}
		return fmt.Errorf("failed to look up recipe %s: %w", msg.UUID, err)
	}

	// Recipes imported without a source image carry the default placeholder
	// already; nothing to fetch.
	if msg.Image == s.defaultImageURL {
		s.logger.Infow("recipe image is the default placeholder, skipping fetch", "uuid", msg.UUID)
		return s.updateImage(ctx, msg.UUID, s.defaultImageURL)
	}

	img, err := s.fetcher.Fetch(ctx, msg.Image)
	if err != nil {
		s.logger.Warnw("failed to fetch recipe image, falling back to default", "uuid", msg.UUID, "image", msg.Image, "error", err)
		return s.updateImage(ctx, msg.UUID, s.defaultImageURL)
	}

	// Deterministic key per recipe: redelivery overwrites instead of
	// orphaning a previous upload.
	key := fmt.Sprintf("recipes/images/%s.%s", msg.UUID, img.Extension)

	if err := s.blobStore.Upload(ctx, key, img.Data, img.ContentType); err != nil {
		s.logger.Warnw("failed to upload recipe image, falling back to default", "uuid", msg.UUID, "key", key, "error", err)
		return s.updateImage(ctx, msg.UUID, s.defaultImageURL)
	}

	imageURL := s.blobStore.PublicURL(key)

	if err := s.updateImage(ctx, msg.UUID, imageURL); err != nil {
		return err
	}

	s.logger.Infow("recipe image saved", "uuid", msg.UUID, "image", imageURL)

	return nil
}

func (s *RecipeImageService) updateImage(ctx context.Context, uuid, imageURL string) error {
	if err := s.recipeRepo.UpdateImage(ctx, uuid, imageURL); err != nil {
		return fmt.Errorf("failed to update recipe %s image: %w", uuid, err)
	}

	return nil
}
