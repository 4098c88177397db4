package handler

import (
	"net/http"

	"evote-api/internal/middleware"
	"evote-api/internal/service"
	"evote-api/internal/session"
	"evote-api/pkg/logger"
)

// AuthHandler serves admin login and logout for both roles.
type AuthHandler struct {
	engine *service.ElectionService
	auth   service.AuthService
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(engine *service.ElectionService, auth service.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{engine: engine, auth: auth, logger: logger}
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin handles POST /api/v1/auth/admin/login
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondValidationError(w, "Email and password are required")
		return
	}

	user, status, err := h.engine.LoginAdmin(r.Context(), req.Email, req.Password)
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
		"token":         token,
		"user":          user,
		"admin_session": status,
		"screen":        session.Next(user, session.EventAdminLogin),
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	if err := h.engine.Logout(r.Context(), user); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"screen": session.Next(nil, session.EventLogout),
	})
}
