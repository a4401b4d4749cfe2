package onboarding

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/we4us/platform/pkg/common/logger"
	"github.com/we4us/platform/pkg/common/models"
	"github.com/we4us/platform/pkg/gateway/middleware"
	"github.com/we4us/platform/pkg/users"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/status", h.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/step/{step}", h.handleSaveStep).Methods(http.MethodPost)
	r.HandleFunc("/complete", h.handleComplete).Methods(http.MethodPost)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context(), middleware.UserIDFrom(r))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			writeJSON(w, http.StatusOK, models.OnboardingStatus{})
			return
		}
		logger.Log.WithError(err).Error("failed to load onboarding status")
		http.Error(w, "failed to load status", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) handleSaveStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(mux.Vars(r)["step"])
	if err != nil || step < 0 {
		http.Error(w, "invalid step", http.StatusBadRequest)
		return
	}

	var response map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&response); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.service.SaveStepResponse(r.Context(), middleware.UserIDFrom(r), step, response); err != nil {
		logger.Log.WithError(err).Error("failed to save onboarding step")
		http.Error(w, "failed to save step", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"step": step, "saved": true})
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req models.CompleteOnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.FirstName == "" || len(req.Username) < 3 || req.Archetype == "" {
		http.Error(w, "firstName, username, and archetype are required", http.StatusBadRequest)
		return
	}

	summary, err := h.service.Complete(r.Context(), middleware.UserIDFrom(r), req)
	if err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			http.Error(w, "username is already taken", http.StatusConflict)
			return
		}
		logger.Log.WithError(err).Error("failed to complete onboarding")
		http.Error(w, "failed to complete onboarding", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"completed": true, "user": summary})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
