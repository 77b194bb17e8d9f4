package job

import (
	"time"

	"github.com/managemeals/manage-meals-api/internal/service"
	"go.uber.org/zap"
)

// NewSearchSync re-indexes changed recipes every minute.
func NewSearchSync(svc *service.SearchSyncService, interval time.Duration, logger *zap.SugaredLogger) *Job {
	return New("search_sync", interval, interval*5, svc.Run, logger)
}

// NewWebhookReconcile reconciles billing webhooks every five minutes.
func NewWebhookReconcile(svc *service.WebhookReconcileService, interval time.Duration, logger *zap.SugaredLogger) *Job {
	return New("webhook_reconcile", interval, interval*2, svc.Run, logger)
}
