package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/managemeals/manage-meals-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type WebhookRepository struct {
	collection *mongo.Collection
}

func NewWebhookRepository(db *mongo.Database) *WebhookRepository {
	return &WebhookRepository{
		collection: db.Collection("webhooks"),
	}
}

func (r *WebhookRepository) ListSince(ctx context.Context, since time.Time) ([]domain.WebhookRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{
		"createdAt": bson.M{"$gte": since},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	defer cursor.Close(ctx)

	var webhooks []domain.WebhookRecord
	if err := cursor.All(ctx, &webhooks); err != nil {
		return nil, fmt.Errorf("failed to decode webhooks: %w", err)
	}

	return webhooks, nil
}
