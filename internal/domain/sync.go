package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cursor names in the "syncs" collection, one per periodic job.
const (
	SyncNameSearch  = "Search"
	SyncNameWebhook = "Webhook"
)

type SyncCursor struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name         string             `bson:"name" json:"name"`
	LastSyncedAt time.Time          `bson:"lastSyncedAt" json:"lastSyncedAt"`
}

// DeleteTombstone is written by the API on every delete so asynchronous
// readers can propagate deletions without scanning for absence.
type DeleteTombstone struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Collection string             `bson:"collection" json:"collection"`
	UUID       string             `bson:"uuid" json:"uuid"`
	DeletedAt  time.Time          `bson:"deletedAt" json:"deletedAt"`
}
