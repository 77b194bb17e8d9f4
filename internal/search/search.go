package search

import "context"

// RecipeDocument is the denormalized projection indexed per recipe, keyed by
// the recipe UUID. Upserts fully replace the previous version.
type RecipeDocument struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	CreatedByUUID string   `json:"createdByUuid"`
	Rating        int32    `json:"rating"`
	Title         string   `json:"title"`
	Ingredients   []string `json:"ingredients"`
	Categories    []string `json:"categories"`
	Tags          []string `json:"tags"`
	ImageURL      string   `json:"imageUrl"`
	Description   string   `json:"description"`
}

type Index interface {
	// EnsureCollection creates the recipes collection schema if it does not
	// exist yet. Safe to call on every sync run.
	EnsureCollection(ctx context.Context) error
	UpsertRecipes(ctx context.Context, docs []RecipeDocument) error
	DeleteRecipes(ctx context.Context, uuids []string) error
}
