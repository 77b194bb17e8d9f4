package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe mirrors the documents the CRUD API writes into the "recipes"
// collection. Field names are camelCase on the wire because the collection
// is shared with the API process.
type Recipe struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UUID          string             `bson:"uuid" json:"uuid"`
	Slug          string             `bson:"slug" json:"slug"`
	CreatedByUUID string             `bson:"createdByUuid" json:"createdByUuid"`
	Rating        int                `bson:"rating" json:"rating"`
	TagUUIDs      []string           `bson:"tagUuids" json:"tagUuids"`
	CategoryUUIDs []string           `bson:"categoryUuids" json:"categoryUuids"`
	Data          RecipeData         `bson:"data" json:"data"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type RecipeData struct {
	Title        string   `bson:"title" json:"title"`
	Description  string   `bson:"description" json:"description"`
	Image        string   `bson:"image" json:"image"`
	Ingredients  []string `bson:"ingredients" json:"ingredients"`
	Instructions []string `bson:"instructions" json:"instructions"`
	Yield        string   `bson:"yield,omitempty" json:"yield,omitempty"`
	TotalTime    string   `bson:"totalTime,omitempty" json:"totalTime,omitempty"`
}

// ChangedRecipe is the join-and-denormalize projection the search sync reads:
// a recipe with its tag and category documents looked up in place of the
// UUID references.
type ChangedRecipe struct {
	UUID          string     `bson:"uuid"`
	Slug          string     `bson:"slug"`
	CreatedByUUID string     `bson:"createdByUuid"`
	Rating        int        `bson:"rating"`
	Data          RecipeData `bson:"data"`
	Tags          []Tag      `bson:"tags"`
	Categories    []Category `bson:"categories"`
	UpdatedAt     time.Time  `bson:"updatedAt"`
}
