package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/managemeals/manage-meals-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaxonomyRepository struct {
	tags       *mongo.Collection
	categories *mongo.Collection
}

func NewTaxonomyRepository(db *mongo.Database) *TaxonomyRepository {
	return &TaxonomyRepository{
		tags:       db.Collection("tags"),
		categories: db.Collection("categories"),
	}
}

func (r *TaxonomyRepository) UpsertCategories(ctx context.Context, categories []domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for i := range categories {
		if err := upsertBySlug(ctx, r.categories, categories[i].CreatedByUUID, categories[i].Slug, categories[i]); err != nil {
			return fmt.Errorf("failed to upsert category %s: %w", categories[i].Slug, err)
		}
	}

	return nil
}

func (r *TaxonomyRepository) UpsertTags(ctx context.Context, tags []domain.Tag) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for i := range tags {
		if err := upsertBySlug(ctx, r.tags, tags[i].CreatedByUUID, tags[i].Slug, tags[i]); err != nil {
			return fmt.Errorf("failed to upsert tag %s: %w", tags[i].Slug, err)
		}
	}

	return nil
}

// upsertBySlug keys on the (createdByUuid, slug) unique index and only
// writes fields on insert, so a redelivered message leaves existing
// documents untouched.
func upsertBySlug(ctx context.Context, coll *mongo.Collection, ownerUUID, slug string, doc any) error {
	filter := bson.M{
		"createdByUuid": ownerUUID,
		"slug":          slug,
	}
	update := bson.M{
		"$setOnInsert": doc,
	}

	_, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
