package identity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/we4us/platform/pkg/common/logger"
	"github.com/we4us/platform/pkg/common/models"
	"github.com/we4us/platform/pkg/gateway/auth"
	"github.com/we4us/platform/pkg/gateway/middleware"
)

type Handler struct {
	service *Service
	oidc    *auth.OIDCAuthenticator
}

func NewHandler(service *Service, oidc *auth.OIDCAuthenticator) *Handler {
	return &Handler{service: service, oidc: oidc}
}

// Register wires the unauthenticated auth endpoints.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/signup", h.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/magic-link", h.handleMagicLink).Methods(http.MethodPost)
	r.HandleFunc("/magic-link/verify", h.handleVerifyMagicLink).Methods(http.MethodPost)
	r.HandleFunc("/sso/login", h.handleSSOLogin).Methods(http.MethodGet)
}

// RegisterProtected wires the endpoints that require a valid token.
func (h *Handler) RegisterProtected(r *mux.Router) {
	r.HandleFunc("/me", h.handleMe).Methods(http.MethodGet)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		logger.Log.WithError(err).Warn("signup rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, ErrInvalidCredentials.Error(), http.StatusUnauthorized)
			return
		}
		logger.Log.WithError(err).Error("login failed")
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMagicLink(w http.ResponseWriter, r *http.Request) {
	var req models.MagicLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	message := h.service.RequestMagicLink(r.Context(), req.Email)
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": message})
}

func (h *Handler) handleVerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.service.VerifyMagicLink(r.Context(), payload.Token); err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if h.oidc == nil {
		http.Error(w, "SSO not configured", http.StatusNotFound)
		return
	}
	state := uuid.NewString()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"url":   h.oidc.AuthCodeURL(state),
		"state": state,
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.CurrentUser(r.Context(), middleware.UserIDFrom(r))
	if err != nil {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
