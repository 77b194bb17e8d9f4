package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/managemeals/manage-meals-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSearchSyncFixture() (*SearchSyncService, *fakeRecipeRepo, *fakeDeleteRepo, *fakeSyncRepo, *fakeIndex) {
	recipeRepo := newFakeRecipeRepo()
	deleteRepo := &fakeDeleteRepo{}
	syncRepo := newFakeSyncRepo()
	index := newFakeIndex()

	svc := NewSearchSyncService(recipeRepo, deleteRepo, syncRepo, index, zap.NewNop().Sugar())

	return svc, recipeRepo, deleteRepo, syncRepo, index
}

func changedRecipe(uuid string, updatedAt time.Time) domain.ChangedRecipe {
	return domain.ChangedRecipe{
		UUID:          uuid,
		Slug:          "recipe-" + uuid,
		CreatedByUUID: "u1",
		Rating:        4,
		Data: domain.RecipeData{
			Title:       "Recipe " + uuid,
			Description: "desc",
			Image:       "https://cdn.test/recipes/images/" + uuid + ".jpg",
			Ingredients: []string{"salt"},
		},
		Tags:       []domain.Tag{{Name: "Quick"}},
		Categories: []domain.Category{{Name: "Main"}},
		UpdatedAt:  updatedAt,
	}
}

func TestSearchSyncInitialRunIndexesEverything(t *testing.T) {
	svc, recipeRepo, _, syncRepo, index := newSearchSyncFixture()

	now := time.Now()
	recipeRepo.changed = []domain.ChangedRecipe{
		changedRecipe("r1", now.Add(-48*time.Hour)),
		changedRecipe("r2", now.Add(-time.Hour)),
	}

	before := time.Now()
	err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, index.docs, 2)
	assert.Equal(t, 1, index.ensureCalls)

	doc := index.docs["r1"]
	assert.Equal(t, "recipe-r1", doc.Slug)
	assert.Equal(t, "u1", doc.CreatedByUUID)
	assert.Equal(t, int32(4), doc.Rating)
	assert.Equal(t, []string{"Main"}, doc.Categories)
	assert.Equal(t, []string{"Quick"}, doc.Tags)

	cursor, ok := syncRepo.cursors[domain.SyncNameSearch]
	require.True(t, ok)
	assert.False(t, cursor.Before(before))
}

func TestSearchSyncWindowFiltering(t *testing.T) {
	svc, recipeRepo, _, syncRepo, index := newSearchSyncFixture()

	t1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t1.Add(2 * time.Hour)

	recipeRepo.changed = []domain.ChangedRecipe{
		changedRecipe("r1", t1),
		changedRecipe("r2", t2),
		changedRecipe("r3", t3),
	}
	syncRepo.cursors[domain.SyncNameSearch] = t2

	err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, index.docs, 2)
	assert.Contains(t, index.docs, "r2")
	assert.Contains(t, index.docs, "r3")
	assert.NotContains(t, index.docs, "r1")
}

func TestSearchSyncFailedRunLeavesCursor(t *testing.T) {
	svc, recipeRepo, _, syncRepo, index := newSearchSyncFixture()

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	syncRepo.cursors[domain.SyncNameSearch] = old
	recipeRepo.changed = []domain.ChangedRecipe{changedRecipe("r1", time.Now())}
	index.upsertErr = errors.New("import failed")

	err := svc.Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, old, syncRepo.cursors[domain.SyncNameSearch])
}

func TestSearchSyncCursorMonotonic(t *testing.T) {
	svc, _, _, syncRepo, _ := newSearchSyncFixture()

	var last time.Time
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Run(context.Background()))
		cursor := syncRepo.cursors[domain.SyncNameSearch]
		assert.False(t, cursor.Before(last))
		last = cursor
	}
}

func TestSearchSyncTombstonePropagation(t *testing.T) {
	svc, recipeRepo, deleteRepo, syncRepo, index := newSearchSyncFixture()

	now := time.Now()
	recipeRepo.changed = []domain.ChangedRecipe{changedRecipe("r1", now.Add(-time.Hour))}

	require.NoError(t, svc.Run(context.Background()))
	require.Contains(t, index.docs, "r1")

	// The recipe is deleted: the API removes the document and records a
	// tombstone, so it no longer appears as changed.
	recipeRepo.changed = nil
	deleteRepo.tombstones = []domain.DeleteTombstone{
		{Collection: "recipes", UUID: "r1", DeletedAt: time.Now()},
	}

	require.NoError(t, svc.Run(context.Background()))
	assert.NotContains(t, index.docs, "r1")

	// Subsequent runs do not re-add it.
	require.NoError(t, svc.Run(context.Background()))
	assert.NotContains(t, index.docs, "r1")

	_, ok := syncRepo.cursors[domain.SyncNameSearch]
	assert.True(t, ok)
}

func TestSearchSyncIgnoresOtherCollectionTombstones(t *testing.T) {
	svc, recipeRepo, deleteRepo, _, index := newSearchSyncFixture()

	now := time.Now()
	recipeRepo.changed = []domain.ChangedRecipe{changedRecipe("r1", now.Add(-time.Hour))}
	deleteRepo.tombstones = []domain.DeleteTombstone{
		{Collection: "tags", UUID: "r1", DeletedAt: now},
	}

	require.NoError(t, svc.Run(context.Background()))
	assert.Contains(t, index.docs, "r1")
}

func TestSearchSyncCursorReadFailureAborts(t *testing.T) {
	svc, recipeRepo, _, syncRepo, index := newSearchSyncFixture()

	syncRepo.getErr = errors.New("db down")
	recipeRepo.changed = []domain.ChangedRecipe{changedRecipe("r1", time.Now())}

	err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, index.docs)
}
