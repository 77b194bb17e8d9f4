package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/managemeals/manage-meals-api/internal/domain"
	"github.com/managemeals/manage-meals-api/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type RecipeRepository struct {
	collection *mongo.Collection
}

func NewRecipeRepository(db *mongo.Database) *RecipeRepository {
	return &RecipeRepository{
		collection: db.Collection("recipes"),
	}
}

func (r *RecipeRepository) GetByUUID(ctx context.Context, uuid string) (*domain.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var recipe domain.Recipe
	err := r.collection.FindOne(ctx, bson.M{"uuid": uuid}).Decode(&recipe)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	return &recipe, nil
}

func (r *RecipeRepository) UpdateImage(ctx context.Context, uuid string, imageURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"uuid": uuid}
	update := bson.M{
		"$set": bson.M{
			"data.image": imageURL,
			"updatedAt":  time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update recipe image: %w", err)
	}

	if result.MatchedCount == 0 {
		return repo.ErrNotFound
	}

	return nil
}

// ListChangedSince joins each changed recipe with its tag and category
// documents, the projection the search index consumes.
func (r *RecipeRepository) ListChangedSince(ctx context.Context, since time.Time) ([]domain.ChangedRecipe, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"updatedAt": bson.M{"$gte": since},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "tags",
			"localField":   "tagUuids",
			"foreignField": "uuid",
			"as":           "tags",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "categories",
			"localField":   "categoryUuids",
			"foreignField": "uuid",
			"as":           "categories",
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate changed recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var recipes []domain.ChangedRecipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("failed to decode changed recipes: %w", err)
	}

	return recipes, nil
}
