package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Tag struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UUID          string             `bson:"uuid" json:"uuid"`
	Slug          string             `bson:"slug" json:"slug"`
	Name          string             `bson:"name" json:"name"`
	CreatedByUUID string             `bson:"createdByUuid" json:"createdByUuid"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Category struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UUID          string             `bson:"uuid" json:"uuid"`
	Slug          string             `bson:"slug" json:"slug"`
	Name          string             `bson:"name" json:"name"`
	CreatedByUUID string             `bson:"createdByUuid" json:"createdByUuid"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Seed sets inserted for every newly registered user.
var (
	DefaultCategories = []string{"Starter", "Main", "Dessert"}
	DefaultTags       = []string{"Meat", "Vegan", "Pasta", "Fish", "Quick"}
)
