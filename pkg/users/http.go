package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/we4us/platform/pkg/common/logger"
	"github.com/we4us/platform/pkg/common/models"
	"github.com/we4us/platform/pkg/gateway/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/profile", h.handleGetProfile).Methods(http.MethodGet)
	r.HandleFunc("/profile", h.handleUpdateProfile).Methods(http.MethodPatch)
	r.HandleFunc("/profile/patient", h.handleUpdatePatientProfile).Methods(http.MethodPatch)
	r.HandleFunc("/username/check", h.handleCheckUsername).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.handleGetUser).Methods(http.MethodGet)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r)
	user, err := h.service.FindByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to load profile")
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	payload := map[string]interface{}{
		"user":               h.service.Sanitize(user),
		"diagnosisTimeline":  user.DiagnosisTimeline,
		"shareWithCommunity": user.ShareWithCommunity,
		"shareForResearch":   user.ShareForResearch,
		"avatarUrl":          user.AvatarURL,
	}
	if user.UserType == "patient" {
		if profile, err := h.service.GetPatientProfile(r.Context(), userID); err == nil {
			payload["patientProfile"] = profile
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Username != nil && len(*req.Username) < 3 {
		http.Error(w, "username must be at least 3 characters", http.StatusBadRequest)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), middleware.UserIDFrom(r), req)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			http.Error(w, "username is already taken", http.StatusConflict)
			return
		}
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to update profile")
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": h.service.Sanitize(user)})
}

func (h *Handler) handleUpdatePatientProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePatientProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	profile, err := h.service.UpdatePatientProfile(r.Context(), middleware.UserIDFrom(r), req)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to update patient profile")
		http.Error(w, "failed to update patient profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"patientProfile": profile})
}

func (h *Handler) handleCheckUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) < 3 {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"available": false,
			"message":   "Username must be at least 3 characters",
		})
		return
	}

	excludeID := uuid.Nil
	if raw := r.URL.Query().Get("excludeUserId"); raw != "" {
		if parsed, err := uuid.Parse(raw); err == nil {
			excludeID = parsed
		}
	}

	available, err := h.service.IsUsernameAvailable(r.Context(), username, excludeID)
	if err != nil {
		logger.Log.WithError(err).Error("failed to check username")
		http.Error(w, "failed to check username", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"available": available})
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to load user")
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.service.PublicProfile(user))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
