package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

const recipesCollection = "recipes"

// importChunkSize bounds a single import payload; runs with more changed
// recipes are split across several requests.
const importChunkSize = 200

type TypesenseIndex struct {
	client *typesense.Client
}

type TypesenseConfig struct {
	URL    string
	APIKey string
}

func NewTypesenseIndex(cfg TypesenseConfig) *TypesenseIndex {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(30*time.Second),
	)

	return &TypesenseIndex{client: client}
}

func (t *TypesenseIndex) EnsureCollection(ctx context.Context) error {
	_, err := t.client.Collection(recipesCollection).Retrieve(ctx)
	if err == nil {
		return nil
	}

	var httpErr *typesense.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusNotFound {
		return fmt.Errorf("failed to retrieve recipes collection: %w", err)
	}

	schema := &api.CollectionSchema{
		Name: recipesCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "slug", Type: "string"},
			{Name: "createdByUuid", Type: "string"},
			{Name: "rating", Type: "int32"},
			{Name: "title", Type: "string"},
			{Name: "categories", Type: "string[]", Facet: pointer.True()},
			{Name: "tags", Type: "string[]", Facet: pointer.True()},
		},
		DefaultSortingField: pointer.String("rating"),
	}

	if _, err := t.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create recipes collection: %w", err)
	}

	return nil
}

func (t *TypesenseIndex) UpsertRecipes(ctx context.Context, docs []RecipeDocument) error {
	if len(docs) == 0 {
		return nil
	}

	action := string(api.Upsert)
	params := &api.ImportDocumentsParams{
		Action: &action,
	}

	for start := 0; start < len(docs); start += importChunkSize {
		end := start + importChunkSize
		if end > len(docs) {
			end = len(docs)
		}

		chunk := make([]interface{}, 0, end-start)
		for _, doc := range docs[start:end] {
			chunk = append(chunk, doc)
		}

		if _, err := t.client.Collection(recipesCollection).Documents().Import(ctx, chunk, params); err != nil {
			return fmt.Errorf("failed to import recipes: %w", err)
		}
	}

	return nil
}

func (t *TypesenseIndex) DeleteRecipes(ctx context.Context, uuids []string) error {
	if len(uuids) == 0 {
		return nil
	}

	filterBy := fmt.Sprintf("id:[%s]", strings.Join(uuids, ","))
	params := &api.DeleteDocumentsParams{
		FilterBy: pointer.String(filterBy),
	}

	if _, err := t.client.Collection(recipesCollection).Documents().Delete(ctx, params); err != nil {
		return fmt.Errorf("failed to delete recipes from index: %w", err)
	}

	return nil
}
