package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Storage struct {
	client   *mongo.Client
	database *mongo.Database
	config   Config
}

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func New(cfg Config) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	database := client.Database(cfg.Database)

	return &Storage{
		client:   client,
		database: database,
		config:   cfg,
	}, nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Database() *mongo.Database {
	return s.database
}

func (s *Storage) Client() *mongo.Client {
	return s.client
}

// CreateIndexes covers the collections this process reads and writes. The
// unique indexes mirror the ones the API's init script creates, so running
// both against the same database is harmless.
func (s *Storage) CreateIndexes(ctx context.Context) error {
	recipesIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uuid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "updatedAt", Value: 1}},
		},
	}
	if _, err := s.database.Collection("recipes").Indexes().CreateMany(ctx, recipesIndexes); err != nil {
		return fmt.Errorf("failed to create recipes indexes: %w", err)
	}

	usersIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uuid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "gcDdMandateId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "ppSubscriptionId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	if _, err := s.database.Collection("users").Indexes().CreateMany(ctx, usersIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}

	taxonomyIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uuid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "createdByUuid", Value: 1}, {Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	for _, coll := range []string{"tags", "categories"} {
		if _, err := s.database.Collection(coll).Indexes().CreateMany(ctx, taxonomyIndexes); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll, err)
		}
	}

	deletesIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "collection", Value: 1}, {Key: "deletedAt", Value: 1}},
		},
	}
	if _, err := s.database.Collection("deletes").Indexes().CreateMany(ctx, deletesIndexes); err != nil {
		return fmt.Errorf("failed to create deletes indexes: %w", err)
	}

	syncsIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := s.database.Collection("syncs").Indexes().CreateMany(ctx, syncsIndexes); err != nil {
		return fmt.Errorf("failed to create syncs indexes: %w", err)
	}

	webhooksIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "createdAt", Value: 1}},
		},
	}
	if _, err := s.database.Collection("webhooks").Indexes().CreateMany(ctx, webhooksIndexes); err != nil {
		return fmt.Errorf("failed to create webhooks indexes: %w", err)
	}

	return nil
}
