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

type UserRegisterWorker struct {
	registrationService *service.RegistrationService
	broker              queue.Broker
	logger              *zap.SugaredLogger
	ctx                 context.Context
	cancel              context.CancelFunc
}

func NewUserRegisterWorker(
	registrationService *service.RegistrationService,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *UserRegisterWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &UserRegisterWorker{
		registrationService: registrationService,
		broker:              broker,
		logger:              logger,
		ctx:                 ctx,
		cancel:              cancel,
	}
}

func (w *UserRegisterWorker) Start() error {
	w.logger.Info("starting user register worker")

	return w.broker.Subscribe(w.ctx, queue.QueueUserRegister, w.handleMessage)
}

func (w *UserRegisterWorker) Stop() {
	w.logger.Info("stopping user register worker")
	w.cancel()
}

func (w *UserRegisterWorker) handleMessage(ctx context.Context, message []byte) error {
	var msg domain.UserRegisterMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		w.logger.Errorw("failed to unmarshal user register message", "error", err)
		metrics.MessagesProcessed.WithLabelValues(queue.QueueUserRegister, "dropped").Inc()
		return queue.Permanent(fmt.Errorf("failed to unmarshal user register message: %w", err))
	}

	if msg.UUID == "" {
		w.logger.Errorw("user register message missing uuid")
		metrics.MessagesProcessed.WithLabelValues(queue.QueueUserRegister, "dropped").Inc()
		return queue.Permanent(fmt.Errorf("user register message missing uuid"))
	}

	w.logger.Infow("processing user registration", "uuid", msg.UUID)

	// Partial failure (categories written, tags not) is retryable: the
	// upsert-based seeding converges on redelivery.
	if err := w.registrationService.SeedDefaults(ctx, msg.UUID); err != nil {
		w.logger.Errorw("failed to seed user defaults", "uuid", msg.UUID, "error", err)
		metrics.MessagesProcessed.WithLabelValues(queue.QueueUserRegister, "error").Inc()
		return err
	}

	metrics.MessagesProcessed.WithLabelValues(queue.QueueUserRegister, "ok").Inc()

	return nil
}
