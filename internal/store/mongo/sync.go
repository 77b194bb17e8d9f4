package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/managemeals/manage-meals-api/internal/domain"
	"github.com/managemeals/manage-meals-api/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SyncRepository struct {
	collection *mongo.Collection
}

func NewSyncRepository(db *mongo.Database) *SyncRepository {
	return &SyncRepository{
		collection: db.Collection("syncs"),
	}
}

func (r *SyncRepository) GetCursor(ctx context.Context, name string) (*domain.SyncCursor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cursor domain.SyncCursor
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&cursor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sync cursor: %w", err)
	}

	return &cursor, nil
}

func (r *SyncRepository) SetCursor(ctx context.Context, name string, lastSyncedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"name": name}
	update := bson.M{
		"$set": bson.M{
			"lastSyncedAt": lastSyncedAt,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set sync cursor: %w", err)
	}

	return nil
}
