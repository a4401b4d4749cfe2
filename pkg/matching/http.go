package matching

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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
	r.HandleFunc("/matches", h.handleGetMatches).Methods(http.MethodGet)
}

func (h *Handler) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	userID := middleware.UserIDFrom(r)
	matches, err := h.service.GetMatches(r.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "complete your profile to see matches", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).WithField("user_id", userID).Error("failed to compute matches")
		http.Error(w, "failed to compute matches", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.MatchListResponse{Matches: matches})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
