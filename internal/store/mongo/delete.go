package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/managemeals/manage-meals-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type DeleteRepository struct {
	collection *mongo.Collection
}

func NewDeleteRepository(db *mongo.Database) *DeleteRepository {
	return &DeleteRepository{
		collection: db.Collection("deletes"),
	}
}

func (r *DeleteRepository) ListSince(ctx context.Context, collection string, since time.Time) ([]domain.DeleteTombstone, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{
		"collection": collection,
		"deletedAt":  bson.M{"$gte": since},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list delete tombstones: %w", err)
	}
	defer cursor.Close(ctx)

	var tombstones []domain.DeleteTombstone
	if err := cursor.All(ctx, &tombstones); err != nil {
		return nil, fmt.Errorf("failed to decode delete tombstones: %w", err)
	}

	return tombstones, nil
}
