package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/managemeals/manage-meals-api/internal/domain"
	"github.com/managemeals/manage-meals-api/internal/metrics"
	"github.com/managemeals/manage-meals-api/internal/queue"
	"github.com/managemeals/manage-meals-api/internal/repo"
	"github.com/managemeals/manage-meals-api/internal/service"
	"go.uber.org/zap"
)

type RecipeImageWorker struct {
	imageService *service.RecipeImageService
	broker       queue.Broker
	logger       *zap.SugaredLogger
	ctx          context.Context
	cancel       context.CancelFunc
}

func NewRecipeImageWorker(
	imageService *service.RecipeImageService,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *RecipeImageWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &RecipeImageWorker{
		imageService: imageService,
		broker:       broker,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (w *RecipeImageWorker) Start() error {
	w.logger.Info("starting recipe image worker")

	return w.broker.Subscribe(w.ctx, queue.QueueRecipeImage, w.handleMessage)
}

func (w *RecipeImageWorker) Stop() {
	w.logger.Info("stopping recipe image worker")
	w.cancel()
}

func (w *RecipeImageWorker) handleMessage(ctx context.Context, message []byte) error {
	var msg domain.RecipeImageMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		w.logger.Errorw("failed to unmarshal recipe image message", "error", err)
		metrics.MessagesProcessed.WithLabelValues(queue.QueueRecipeImage, "dropped").Inc()
		return queue.Permanent(fmt.Errorf("failed to unmarshal recipe image message: %w", err))
	}

	w.logger.Infow("processing recipe image", "uuid", msg.UUID, "image", msg.Image)

	if err := w.imageService.ProcessRecipeImage(ctx, msg); err != nil {
		// A recipe that no longer exists will never exist on redelivery.
		if errors.Is(err, repo.ErrNotFound) {
			w.logger.Warnw("recipe gone, dropping image message", "uuid", msg.UUID)
			metrics.MessagesProcessed.WithLabelValues(queue.QueueRecipeImage, "dropped").Inc()
			return queue.Permanent(err)
		}

		w.logger.Errorw("failed to process recipe image", "uuid", msg.UUID, "error", err)
		metrics.MessagesProcessed.WithLabelValues(queue.QueueRecipeImage, "error").Inc()
		return err
	}

	metrics.MessagesProcessed.WithLabelValues(queue.QueueRecipeImage, "ok").Inc()

	return nil
}
