package handler

import (
	"net/http"

	"evote-api/internal/domain"
	"evote-api/internal/middleware"
	"evote-api/internal/service"
	"evote-api/internal/session"
	"evote-api/pkg/logger"
)

// VoteHandler serves ballot submission.
type VoteHandler struct {
	engine *service.ElectionService
	logger *logger.Logger
}

// NewVoteHandler creates a new vote handler.
func NewVoteHandler(engine *service.ElectionService, logger *logger.Logger) *VoteHandler {
	return &VoteHandler{engine: engine, logger: logger}
}

type castVoteRequest struct {
	Selections domain.VoteSelection `json:"selections"`
}

// Cast handles POST /api/v1/votes (voter only). Ballot completeness is the
// client's concern; the engine accepts partial selections safely.
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req castVoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Selections) == 0 {
		respondValidationError(w, "At least one selection is required")
		return
	}
	for dept := range req.Selections {
		if !dept.IsValid() {
			respondValidationError(w, "Unknown department in selection")
			return
		}
	}

	if err := h.engine.CastVote(r.Context(), user, req.Selections); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Vote cast successfully!",
		"screen":  session.Next(user, session.EventVoteCast),
	})
}
