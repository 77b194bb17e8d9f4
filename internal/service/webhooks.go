package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/managemeals/manage-meals-api/internal/domain"
	"github.com/managemeals/manage-meals-api/internal/metrics"
	"github.com/managemeals/manage-meals-api/internal/repo"
	"go.uber.org/zap"
)

var webhookSyncSentinel = time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)

type WebhookReconcileService struct {
	webhookRepo repo.WebhookRepository
	userRepo    repo.UserRepository
	syncRepo    repo.SyncRepository
	logger      *zap.SugaredLogger
}

func NewWebhookReconcileService(
	webhookRepo repo.WebhookRepository,
	userRepo repo.UserRepository,
	syncRepo repo.SyncRepository,
	logger *zap.SugaredLogger,
) *WebhookReconcileService {
	return &WebhookReconcileService{
		webhookRepo: webhookRepo,
		userRepo:    userRepo,
		syncRepo:    syncRepo,
		logger:      logger,
	}
}

// Run scans webhook payloads recorded since the cursor and reconciles
// cancellation events into user subscription state. Records are processed
// best-effort: a failure on one record is logged and does not stop the
// batch, and the cursor still advances at the end. Re-running over the same
// window is safe because a previously reconciled user no longer matches the
// mandate or subscription lookup.
func (s *WebhookReconcileService) Run(ctx context.Context) error {
	startedAt := time.Now()

	lastSyncedAt := webhookSyncSentinel
	cursor, err := s.syncRepo.GetCursor(ctx, domain.SyncNameWebhook)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("failed to read webhook cursor: %w", err)
	}
	if cursor != nil {
		lastSyncedAt = cursor.LastSyncedAt
	}

	webhooks, err := s.webhookRepo.ListSince(ctx, lastSyncedAt)
	if err != nil {
		return fmt.Errorf("failed to list webhooks: %w", err)
	}

	s.logger.Infow("scanning webhooks", "count", len(webhooks))

	for i := range webhooks {
		for _, event := range webhooks[i].BillingEvents() {
			switch ev := event.(type) {
			case domain.MandateCancelled:
				s.reconcileMandate(ctx, ev.MandateID)
			case domain.SubscriptionCancelled:
				s.reconcileSubscription(ctx, ev.SubscriptionID)
			}
		}
	}

	if err := s.syncRepo.SetCursor(ctx, domain.SyncNameWebhook, startedAt); err != nil {
		return fmt.Errorf("failed to advance webhook cursor: %w", err)
	}

	return nil
}

func (s *WebhookReconcileService) reconcileMandate(ctx context.Context, mandateID string) {
	_, err := s.userRepo.GetByMandateID(ctx, mandateID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// No current holder: the mandate was already reconciled or never
			// belonged to a user.
			s.logger.Infow("no user holds cancelled mandate", "mandateId", mandateID)
		} else {
			s.logger.Errorw("failed to look up user by mandate", "mandateId", mandateID, "error", err)
		}
		return
	}

	if err := s.userRepo.ClearMandate(ctx, mandateID); err != nil {
		s.logger.Errorw("failed to downgrade user for cancelled mandate", "mandateId", mandateID, "error", err)
		return
	}

	metrics.SubscriptionsDowngraded.WithLabelValues("gocardless").Inc()
	s.logger.Infow("downgraded user for cancelled mandate", "mandateId", mandateID)
}

func (s *WebhookReconcileService) reconcileSubscription(ctx context.Context, subscriptionID string) {
	_, err := s.userRepo.GetByPPSubscriptionID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.logger.Infow("no user holds cancelled subscription", "subscriptionId", subscriptionID)
		} else {
			s.logger.Errorw("failed to look up user by subscription", "subscriptionId", subscriptionID, "error", err)
		}
		return
	}

	if err := s.userRepo.ClearPPSubscription(ctx, subscriptionID); err != nil {
		s.logger.Errorw("failed to downgrade user for cancelled subscription", "subscriptionId", subscriptionID, "error", err)
		return
	}

	metrics.SubscriptionsDowngraded.WithLabelValues("paypal").Inc()
	s.logger.Infow("downgraded user for cancelled subscription", "subscriptionId", subscriptionID)
}
