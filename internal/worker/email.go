package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/managemeals/manage-meals-api/internal/domain"
	"github.com/managemeals/manage-meals-api/internal/metrics"
	"github.com/managemeals/manage-meals-api/internal/queue"
	"github.com/managemeals/manage-meals-api/internal/service"
	"go.uber.org/zap"
)

type EmailWorker struct {
	emailService *service.EmailService
	broker       queue.Broker
	logger       *zap.SugaredLogger
	ctx          context.Context
	cancel       context.CancelFunc
}

func NewEmailWorker(
	emailService *service.EmailService,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *EmailWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &EmailWorker{
		emailService: emailService,
		broker:       broker,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (w *EmailWorker) Start() error {
	w.logger.Info("starting email worker")

	return w.broker.Subscribe(w.ctx, queue.QueueEmail, w.handleMessage)
}

func (w *EmailWorker) Stop() {
	w.logger.Info("stopping email worker")
	w.cancel()
}

func (w *EmailWorker) handleMessage(ctx context.Context, message []byte) error {
	var msg domain.EmailMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		w.logger.Errorw("failed to unmarshal email message", "error", err)
		metrics.MessagesProcessed.WithLabelValues(queue.QueueEmail, "dropped").Inc()
		return queue.Permanent(fmt.Errorf("failed to unmarshal email message: %w", err))
	}

	// The message is acknowledged only after the send returns without error.
	if err := w.emailService.Send(msg); err != nil {
		metrics.MessagesProcessed.WithLabelValues(queue.QueueEmail, "error").Inc()
		return err
	}

	metrics.MessagesProcessed.WithLabelValues(queue.QueueEmail, "ok").Inc()

	return nil
}
