package main

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	// check db
	dbStatus := "ok"
	if app.storage == nil || app.storage.Ping(r.Context()) != nil {
		dbStatus = "error"
	}

	// check broker connection liveness
	queueStatus := "ok"
	if app.broker == nil || app.broker.IsClosed() {
		queueStatus = "error"
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services: map[string]string{
			"database": dbStatus,
			"queue":    queueStatus,
		},
	}

	if dbStatus != "ok" || queueStatus != "ok" {
		response.Status = "unhealthy"
		if err := writeJSON(w, http.StatusServiceUnavailable, response); err != nil {
			app.logger.Errorw("failed to write health response", "error", err)
		}
		return
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		app.logger.Errorw("failed to write health response", "error", err)
	}
}
