package handler

import (
	"net/http"
	"time"

	"evote-api/internal/repository"
	"evote-api/pkg/logger"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	store  repository.SnapshotStore
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store repository.SnapshotStore, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Health(r.Context()); err != nil {
		h.logger.WithError(err).Error("Snapshot store unreachable")
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "unhealthy",
			Timestamp: time.Now().UTC(),
			Service:   "evote-api",
		})
		return
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "evote-api",
	})
}
