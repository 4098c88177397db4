package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"evote-api/internal/domain"
	"evote-api/internal/middleware"
	"evote-api/internal/service"
	"evote-api/pkg/logger"
)

// CandidateHandler serves the public ballot listing, the admin candidate
// registry and the live results view.
type CandidateHandler struct {
	engine *service.ElectionService
	logger *logger.Logger
}

// NewCandidateHandler creates a new candidate handler.
func NewCandidateHandler(engine *service.ElectionService, logger *logger.Logger) *CandidateHandler {
	return &CandidateHandler{engine: engine, logger: logger}
}

// List handles GET /api/v1/candidates
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"candidates":  h.engine.Candidates(),
		"departments": domain.Departments(),
	})
}

// Create handles POST /api/v1/candidates (admin only).
func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var form domain.CandidateForm
	if !decodeJSON(w, r, &form) {
		return
	}
	if form.Name == "" {
		respondValidationError(w, "Candidate name is required")
		return
	}
	if !form.Department.IsValid() {
		respondValidationError(w, "Unknown department")
		return
	}

	candidate, err := h.engine.AddCandidate(r.Context(), user, form)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, candidate)
}

// Update handles PUT /api/v1/candidates/{id} (admin only). The record is
// replaced wholesale; an unknown id changes nothing.
func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var candidate domain.Candidate
	if !decodeJSON(w, r, &candidate) {
		return
	}
	candidate.ID = id
	if candidate.Name == "" {
		respondValidationError(w, "Candidate name is required")
		return
	}
	if !candidate.Department.IsValid() {
		respondValidationError(w, "Unknown department")
		return
	}

	if err := h.engine.UpdateCandidate(r.Context(), user, candidate); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, candidate)
}

// Delete handles DELETE /api/v1/candidates/{id} (admin only).
func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.engine.RemoveCandidate(r.Context(), user, id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Results handles GET /api/v1/results (admin only).
func (h *CandidateHandler) Results(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Results())
}
