package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PayPalSubscriptionCancelled = "BILLING.SUBSCRIPTION.CANCELLED"

// WebhookRecord is a raw billing-provider payload persisted by the webhook
// receiver. The providers share no envelope, so the record decodes both
// shapes and BillingEvents turns whatever matched into typed events.
type WebhookRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`

	// GoCardless payloads carry an events array.
	Events []GoCardlessEvent `bson:"events,omitempty" json:"events,omitempty"`

	// PayPal payloads carry a top-level event_type and resource.
	EventType string          `bson:"event_type,omitempty" json:"event_type,omitempty"`
	Resource  *PayPalResource `bson:"resource,omitempty" json:"resource,omitempty"`
}

type GoCardlessEvent struct {
	ResourceType string          `bson:"resource_type" json:"resource_type"`
	Action       string          `bson:"action" json:"action"`
	Links        GoCardlessLinks `bson:"links" json:"links"`
}

type GoCardlessLinks struct {
	Mandate      string `bson:"mandate,omitempty" json:"mandate,omitempty"`
	Subscription string `bson:"subscription,omitempty" json:"subscription,omitempty"`
}

type PayPalResource struct {
	ID string `bson:"id" json:"id"`
}

// BillingEvent is the classified form of a webhook record. Records that match
// neither provider shape produce no events and are skipped.
type BillingEvent interface {
	billingEvent()
}

type MandateCancelled struct {
	MandateID string
}

type SubscriptionCancelled struct {
	SubscriptionID string
}

func (MandateCancelled) billingEvent()      {}
func (SubscriptionCancelled) billingEvent() {}

// BillingEvents classifies the record structurally: a GoCardless events array
// is scanned for cancelled mandates, a PayPal record matches on event_type.
// A single record can in principle yield several events.
func (w *WebhookRecord) BillingEvents() []BillingEvent {
	var events []BillingEvent

	for _, ev := range w.Events {
		if ev.ResourceType == "mandates" && ev.Action == "cancelled" && ev.Links.Mandate != "" {
			events = append(events, MandateCancelled{MandateID: ev.Links.Mandate})
		}
	}

	if w.EventType == PayPalSubscriptionCancelled && w.Resource != nil && w.Resource.ID != "" {
		events = append(events, SubscriptionCancelled{SubscriptionID: w.Resource.ID})
	}

	return events
}
