package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionType string

const (
	SubscriptionFree    SubscriptionType = "FREE"
	SubscriptionPremium SubscriptionType = "PREMIUM"
)

// User carries only the fields the reconciliation job reads and writes; the
// rest of the document (password hash, profile, flags) belongs to the API.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UUID             string             `bson:"uuid" json:"uuid"`
	Email            string             `bson:"email" json:"email"`
	SubscriptionType SubscriptionType   `bson:"subscriptionType" json:"subscriptionType"`
	GCDdMandateID    string             `bson:"gcDdMandateId,omitempty" json:"gcDdMandateId,omitempty"`
	GCSubscriptionID string             `bson:"gcSubscriptionId,omitempty" json:"gcSubscriptionId,omitempty"`
	PPSubscriptionID string             `bson:"ppSubscriptionId,omitempty" json:"ppSubscriptionId,omitempty"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
