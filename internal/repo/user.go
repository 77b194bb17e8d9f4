package repo

import (
	"context"

	"github.com/managemeals/manage-meals-api/internal/domain"
)

type UserRepository interface {
	GetByMandateID(ctx context.Context, mandateID string) (*domain.User, error)
	GetByPPSubscriptionID(ctx context.Context, subscriptionID string) (*domain.User, error)
	// ClearMandate removes the GoCardless mandate and subscription references
	// and downgrades the user to the free tier.
	ClearMandate(ctx context.Context, mandateID string) error
	// ClearPPSubscription removes the PayPal subscription reference and
	// downgrades the user to the free tier.
	ClearPPSubscription(ctx context.Context, subscriptionID string) error
}
