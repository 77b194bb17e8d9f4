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

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

func (r *UserRepository) GetByMandateID(ctx context.Context, mandateID string) (*domain.User, error) {
	return r.getOne(ctx, bson.M{"gcDdMandateId": mandateID})
}

func (r *UserRepository) GetByPPSubscriptionID(ctx context.Context, subscriptionID string) (*domain.User, error) {
	return r.getOne(ctx, bson.M{"ppSubscriptionId": subscriptionID})
}

func (r *UserRepository) getOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user domain.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) ClearMandate(ctx context.Context, mandateID string) error {
	update := bson.M{
		"$set": bson.M{
			"subscriptionType": domain.SubscriptionFree,
			"updatedAt":        time.Now(),
		},
		"$unset": bson.M{
			"gcDdMandateId":    "",
			"gcSubscriptionId": "",
		},
	}

	return r.updateOne(ctx, bson.M{"gcDdMandateId": mandateID}, update)
}

func (r *UserRepository) ClearPPSubscription(ctx context.Context, subscriptionID string) error {
	update := bson.M{
		"$set": bson.M{
			"subscriptionType": domain.SubscriptionFree,
			"updatedAt":        time.Now(),
		},
		"$unset": bson.M{
			"ppSubscriptionId": "",
		},
	}

	return r.updateOne(ctx, bson.M{"ppSubscriptionId": subscriptionID}, update)
}

func (r *UserRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.MatchedCount == 0 {
		return repo.ErrNotFound
	}

	return nil
}
