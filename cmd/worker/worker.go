package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/managemeals/manage-meals-api/internal/job"
	"github.com/managemeals/manage-meals-api/internal/queue"
	"github.com/managemeals/manage-meals-api/internal/store/mongo"
	"github.com/managemeals/manage-meals-api/internal/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type application struct {
	config         config
	logger         *zap.SugaredLogger
	storage        *mongo.Storage
	broker         queue.Broker
	emailWorker    *worker.EmailWorker
	imageWorker    *worker.RecipeImageWorker
	registerWorker *worker.UserRegisterWorker
	searchSyncJob  *job.Job
	webhookJob     *job.Job
}

type config struct {
	addr                string
	env                 string
	mongo               mongoConfig
	rabbitMQ            rabbitMQConfig
	smtp                smtpConfig
	s3                  s3Config
	typesense           typesenseConfig
	defaultImageURL     string
	imageFetchTimeout   time.Duration
	searchSyncInterval  time.Duration
	webhookSyncInterval time.Duration
}

type mongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type rabbitMQConfig struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

type smtpConfig struct {
	Host        string
	Port        int
	User        string
	Pass        string
	DefaultFrom string
}

type s3Config struct {
	Endpoint   string
	Region     string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	Bucket     string
	CDNBaseURL string
}

type typesenseConfig struct {
	URL    string
	APIKey string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/v1/infra", func(r chi.Router) {
		r.Get("/healthz", app.healthCheckHandler)
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// queue workers
	if err := app.emailWorker.Start(); err != nil {
		return fmt.Errorf("failed to start email worker: %w", err)
	}
	if err := app.imageWorker.Start(); err != nil {
		return fmt.Errorf("failed to start recipe image worker: %w", err)
	}
	if err := app.registerWorker.Start(); err != nil {
		return fmt.Errorf("failed to start user register worker: %w", err)
	}

	// periodic jobs
	app.searchSyncJob.Start()
	app.webhookJob.Start()

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		app.searchSyncJob.Stop()
		app.webhookJob.Stop()

		app.emailWorker.Stop()
		app.imageWorker.Stop()
		app.registerWorker.Stop()

		if app.storage != nil {
			if err := app.storage.Close(ctx); err != nil {
				app.logger.Errorw("error closing MongoDB", "error", err)
			} else {
				app.logger.Info("MongoDB connection closed gracefully")
			}
		}

		if app.broker != nil {
			if err := app.broker.Close(); err != nil {
				app.logger.Errorw("error closing RabbitMQ", "error", err)
			} else {
				app.logger.Info("RabbitMQ connection closed gracefully")
			}
		}

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("worker has started", "addr", app.config.addr, "env", app.config.env, "version", version)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("worker has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}
