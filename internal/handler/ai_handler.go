package handler

import (
	"net/http"

	"evote-api/internal/domain"
	"evote-api/internal/service"
	"evote-api/pkg/logger"
)

// AIHandler serves the optional text generation endpoints. The collaborator
// degrades to fixed fallback strings, so these never fail the admin workflow.
type AIHandler struct {
	engine  *service.ElectionService
	textGen service.TextGenerator
	logger  *logger.Logger
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(engine *service.ElectionService, textGen service.TextGenerator, logger *logger.Logger) *AIHandler {
	return &AIHandler{engine: engine, textGen: textGen, logger: logger}
}

type bioRequest struct {
	Name       string            `json:"name"`
	Department domain.Department `json:"department"`
}

// GenerateBio handles POST /api/v1/ai/bio (admin only).
func (h *AIHandler) GenerateBio(w http.ResponseWriter, r *http.Request) {
	var req bioRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondValidationError(w, "Candidate name is required")
		return
	}
	if !req.Department.IsValid() {
		respondValidationError(w, "Unknown department")
		return
	}

	bio := h.textGen.GenerateBio(r.Context(), req.Name, req.Department)
	respondJSON(w, http.StatusOK, map[string]string{"bio": bio})
}

// AnalyzeResults handles GET /api/v1/ai/analysis (admin only).
func (h *AIHandler) AnalyzeResults(w http.ResponseWriter, r *http.Request) {
	analysis := h.textGen.AnalyzeResults(r.Context(), h.engine.Candidates())
	respondJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}
