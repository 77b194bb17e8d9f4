package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/managemeals/manage-meals-api/internal/domain"
	"github.com/managemeals/manage-meals-api/internal/metrics"
	"github.com/managemeals/manage-meals-api/internal/repo"
	"github.com/managemeals/manage-meals-api/internal/search"
	"go.uber.org/zap"
)

// searchSyncSentinel forces a full initial sync when no cursor exists yet.
var searchSyncSentinel = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

type SearchSyncService struct {
	recipeRepo repo.RecipeRepository
	deleteRepo repo.DeleteRepository
	syncRepo   repo.SyncRepository
	index      search.Index
	logger     *zap.SugaredLogger
}

func NewSearchSyncService(
	recipeRepo repo.RecipeRepository,
	deleteRepo repo.DeleteRepository,
	syncRepo repo.SyncRepository,
	index search.Index,
	logger *zap.SugaredLogger,
) *SearchSyncService {
	return &SearchSyncService{
		recipeRepo: recipeRepo,
		deleteRepo: deleteRepo,
		syncRepo:   syncRepo,
		index:      index,
		logger:     logger,
	}
}

// Run performs one incremental sync: recipes updated since the cursor are
// re-indexed, tombstoned deletions are propagated, and the cursor advances
// to the run's start time. Any failure aborts without moving the cursor so
// the next run re-attempts the same window; upserts are full-document
// replacements keyed by UUID, which keeps re-attempts idempotent.
func (s *SearchSyncService) Run(ctx context.Context) error {
	startedAt := time.Now()

	lastSyncedAt := searchSyncSentinel
	cursor, err := s.syncRepo.GetCursor(ctx, domain.SyncNameSearch)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("failed to read search cursor: %w", err)
	}
	if cursor != nil {
		lastSyncedAt = cursor.LastSyncedAt
	}

	changed, err := s.recipeRepo.ListChangedSince(ctx, lastSyncedAt)
	if err != nil {
		return fmt.Errorf("failed to list changed recipes: %w", err)
	}

	if err := s.index.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure search collection: %w", err)
	}

	docs := make([]search.RecipeDocument, 0, len(changed))
	for i := range changed {
		docs = append(docs, mapRecipeDocument(&changed[i]))
	}

	if len(docs) > 0 {
		if err := s.index.UpsertRecipes(ctx, docs); err != nil {
			return fmt.Errorf("failed to index recipes: %w", err)
		}
		metrics.RecipesIndexed.Add(float64(len(docs)))
		s.logger.Infow("indexed recipes", "count", len(docs))
	}

	tombstones, err := s.deleteRepo.ListSince(ctx, "recipes", lastSyncedAt)
	if err != nil {
		return fmt.Errorf("failed to list recipe tombstones: %w", err)
	}

	if len(tombstones) > 0 {
		uuids := make([]string, 0, len(tombstones))
		for _, t := range tombstones {
			uuids = append(uuids, t.UUID)
		}

		if err := s.index.DeleteRecipes(ctx, uuids); err != nil {
			return fmt.Errorf("failed to delete recipes from index: %w", err)
		}
		metrics.RecipesUnindexed.Add(float64(len(uuids)))
		s.logger.Infow("removed deleted recipes from index", "count", len(uuids))
	}

	// The watermark is the run's start time: records updated while the run
	// was in flight fall into the next window instead of being skipped.
	if err := s.syncRepo.SetCursor(ctx, domain.SyncNameSearch, startedAt); err != nil {
		return fmt.Errorf("failed to advance search cursor: %w", err)
	}

	return nil
}

func mapRecipeDocument(r *domain.ChangedRecipe) search.RecipeDocument {
	categories := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		categories = append(categories, c.Name)
	}

	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, t.Name)
	}

	ingredients := r.Data.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	return search.RecipeDocument{
		ID:            r.UUID,
		Slug:          r.Slug,
		CreatedByUUID: r.CreatedByUUID,
		Rating:        int32(r.Rating),
		Title:         r.Data.Title,
		Ingredients:   ingredients,
		Categories:    categories,
		Tags:          tags,
		ImageURL:      r.Data.Image,
		Description:   r.Data.Description,
	}
}
