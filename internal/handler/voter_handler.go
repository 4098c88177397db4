package handler

import (
	"fmt"
	"net/http"
	"strings"

	"evote-api/internal/middleware"
	"evote-api/internal/service"
	"evote-api/internal/session"
	"evote-api/pkg/logger"
)

// VoterHandler serves voter registration, code verification and the admin
// view of the registry.
type VoterHandler struct {
	engine *service.ElectionService
	auth   service.AuthService
	logger *logger.Logger
}

// NewVoterHandler creates a new voter handler.
func NewVoterHandler(engine *service.ElectionService, auth service.AuthService, logger *logger.Logger) *VoterHandler {
	return &VoterHandler{engine: engine, auth: auth, logger: logger}
}

type registerRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func validateEmail(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("valid email is required")
	}
	return nil
}

// Register handles POST /api/v1/voters/register. The code is handed to the
// out-of-band delivery channel, so the response only acknowledges issuance.
func (h *VoterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateEmail(req.Email); err != nil {
		respondValidationError(w, err.Error())
		return
	}

	if err := h.engine.RegisterVoter(r.Context(), req.Email); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": fmt.Sprintf("Verification code sent to %s", req.Email),
	})
}

// Verify handles POST /api/v1/voters/verify
func (h *VoterHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateEmail(req.Email); err != nil {
		respondValidationError(w, err.Error())
		return
	}
	if req.Code == "" {
		respondValidationError(w, "Verification code is required")
		return
	}

	user, err := h.engine.VerifyOTP(r.Context(), req.Email, req.Code)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":  token,
		"user":   user,
		"screen": session.Next(user, session.EventOTPVerified),
	})
}

// List handles GET /api/v1/voters (admin only).
func (h *VoterHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	voters, err := h.engine.Voters(user)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"voters": voters,
	})
}
