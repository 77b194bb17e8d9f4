package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/managemeals/manage-meals-api/internal/domain"
	"github.com/managemeals/manage-meals-api/internal/imagefetch"
	"github.com/managemeals/manage-meals-api/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDefaultImage = "https://cdn.test/defaults/recipe.png"

func newImageFixture() (*RecipeImageService, *fakeRecipeRepo, *fakeBlobStore, *fakeFetcher) {
	recipeRepo := newFakeRecipeRepo()
	blobStore := newFakeBlobStore()
	fetcher := &fakeFetcher{
		img: &imagefetch.Image{
			Data:        []byte("image-bytes"),
			ContentType: "image/jpeg",
			Extension:   "jpg",
		},
	}

	svc := NewRecipeImageService(recipeRepo, blobStore, fetcher, testDefaultImage, zap.NewNop().Sugar())

	return svc, recipeRepo, blobStore, fetcher
}

func TestProcessRecipeImageUploadsAndUpdates(t *testing.T) {
	svc, recipeRepo, blobStore, _ := newImageFixture()

	before := time.Now().Add(-time.Hour)
	recipeRepo.recipes["r1"] = &domain.Recipe{UUID: "r1", UpdatedAt: before}

	err := svc.ProcessRecipeImage(context.Background(), domain.RecipeImageMessage{
		UUID:  "r1",
		Image: "https://example.com/a.jpg",
	})
	require.NoError(t, err)

	require.Contains(t, blobStore.objects, "recipes/images/r1.jpg")

	recipe := recipeRepo.recipes["r1"]
	assert.True(t, strings.HasPrefix(recipe.Data.Image, "https://cdn.test/"))
	assert.True(t, strings.HasSuffix(recipe.Data.Image, ".jpg"))
	assert.True(t, recipe.UpdatedAt.After(before))
}

func TestProcessRecipeImageDeterministicKeyOnRedelivery(t *testing.T) {
	svc, recipeRepo, blobStore, _ := newImageFixture()

	recipeRepo.recipes["r1"] = &domain.Recipe{UUID: "r1"}

	msg := domain.RecipeImageMessage{UUID: "r1", Image: "https://example.com/a.jpg"}
	require.NoError(t, svc.ProcessRecipeImage(context.Background(), msg))
	require.NoError(t, svc.ProcessRecipeImage(context.Background(), msg))

	// Same key both times: no orphaned blobs.
	assert.Len(t, blobStore.objects, 1)
}

func TestProcessRecipeImageDefaultShortCircuit(t *testing.T) {
	svc, recipeRepo, blobStore, fetcher := newImageFixture()

	recipeRepo.recipes["r1"] = &domain.Recipe{UUID: "r1"}

	err := svc.ProcessRecipeImage(context.Background(), domain.RecipeImageMessage{
		UUID:  "r1",
		Image: testDefaultImage,
	})
	require.NoError(t, err)

	assert.Zero(t, fetcher.calls)
	assert.Empty(t, blobStore.objects)
	assert.Equal(t, testDefaultImage, recipeRepo.recipes["r1"].Data.Image)
}

func TestProcessRecipeImageFetchFailureFallsBack(t *testing.T) {
	svc, recipeRepo, blobStore, fetcher := newImageFixture()

	recipeRepo.recipes["r1"] = &domain.Recipe{UUID: "r1"}
	fetcher.err = errors.New("connection refused")

	err := svc.ProcessRecipeImage(context.Background(), domain.RecipeImageMessage{
		UUID:  "r1",
		Image: "https://example.com/broken.jpg",
	})
	require.NoError(t, err)

	assert.Empty(t, blobStore.objects)
	assert.Equal(t, testDefaultImage, recipeRepo.recipes["r1"].Data.Image)
}

func TestProcessRecipeImageUploadFailureFallsBack(t *testing.T) {
	svc, recipeRepo, blobStore, _ := newImageFixture()

	recipeRepo.recipes["r1"] = &domain.Recipe{UUID: "r1"}
	blobStore.uploadErr = errors.New("bucket unavailable")

	err := svc.ProcessRecipeImage(context.Background(), domain.RecipeImageMessage{
		UUID:  "r1",
		Image: "https://example.com/a.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, testDefaultImage, recipeRepo.recipes["r1"].Data.Image)
}

func TestProcessRecipeImageMissingRecipe(t *testing.T) {
	svc, _, _, fetcher := newImageFixture()

	err := svc.ProcessRecipeImage(context.Background(), domain.RecipeImageMessage{
		UUID:  "nope",
		Image: "https://example.com/a.jpg",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.Zero(t, fetcher.calls)
}

func TestProcessRecipeImageUpdateFailureIsRetryable(t *testing.T) {
	svc, recipeRepo, _, _ := newImageFixture()

	recipeRepo.recipes["r1"] = &domain.Recipe{UUID: "r1"}
	recipeRepo.updateErr = errors.New("write timeout")

	err := svc.ProcessRecipeImage(context.Background(), domain.RecipeImageMessage{
		UUID:  "r1",
		Image: "https://example.com/a.jpg",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, repo.ErrNotFound)
}
