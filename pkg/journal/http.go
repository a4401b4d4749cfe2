package journal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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
	r.HandleFunc("/entries", h.handleListEntries).Methods(http.MethodGet)
	r.HandleFunc("/entries", h.handleCreateEntry).Methods(http.MethodPost)
	r.HandleFunc("/entries/{id}", h.handleGetEntry).Methods(http.MethodGet)
	r.HandleFunc("/entries/{id}", h.handleUpdateEntry).Methods(http.MethodPut)
	r.HandleFunc("/entries/{id}", h.handleDeleteEntry).Methods(http.MethodDelete)
	r.HandleFunc("/checkin/today", h.handleTodayCheckin).Methods(http.MethodGet)
	r.HandleFunc("/checkin/history", h.handleCheckinHistory).Methods(http.MethodGet)
	r.HandleFunc("/checkin", h.handleSaveCheckin).Methods(http.MethodPost)
	r.HandleFunc("/symptoms/trends", h.handleSymptomTrends).Methods(http.MethodGet)
}

func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 20)
	offset := parseQueryInt(r, "offset", 0)

	entries, total, err := h.service.ListEntries(r.Context(), middleware.UserIDFrom(r), limit, offset)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list journal entries")
		http.Error(w, "failed to list entries", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
	})
}

func (h *Handler) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req models.CreateJournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	entry, err := h.service.CreateEntry(r.Context(), middleware.UserIDFrom(r), req)
	if err != nil {
		if errors.Is(err, ErrEmptyContent) || errors.Is(err, ErrInvalidMood) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("failed to create journal entry")
		http.Error(w, "failed to create entry", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return
	}

	entry, err := h.service.GetEntry(r.Context(), middleware.UserIDFrom(r), entryID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to load journal entry")
		http.Error(w, "failed to load entry", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return
	}

	var req models.UpdateJournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	entry, err := h.service.UpdateEntry(r.Context(), middleware.UserIDFrom(r), entryID, req)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrEmptyContent) || errors.Is(err, ErrInvalidMood) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("failed to update journal entry")
		http.Error(w, "failed to update entry", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteEntry(r.Context(), middleware.UserIDFrom(r), entryID); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete journal entry")
		http.Error(w, "failed to delete entry", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

func (h *Handler) handleTodayCheckin(w http.ResponseWriter, r *http.Request) {
	checkin, err := h.service.TodayCheckin(r.Context(), middleware.UserIDFrom(r))
	if err != nil {
		logger.Log.WithError(err).Error("failed to load today's checkin")
		http.Error(w, "failed to load checkin", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"checkin": checkin})
}

func (h *Handler) handleSaveCheckin(w http.ResponseWriter, r *http.Request) {
	var req models.SaveCheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	checkin, err := h.service.SaveCheckin(r.Context(), middleware.UserIDFrom(r), req)
	if err != nil {
		if errors.Is(err, ErrInvalidLevel) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("failed to save checkin")
		http.Error(w, "failed to save checkin", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"checkin": checkin})
}

func (h *Handler) handleCheckinHistory(w http.ResponseWriter, r *http.Request) {
	days := parseQueryInt(r, "days", 30)
	checkins, err := h.service.CheckinHistory(r.Context(), middleware.UserIDFrom(r), days)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load checkin history")
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"checkins": checkins})
}

func (h *Handler) handleSymptomTrends(w http.ResponseWriter, r *http.Request) {
	days := parseQueryInt(r, "days", 30)
	trends, err := h.service.SymptomTrends(r.Context(), middleware.UserIDFrom(r), days)
	if err != nil {
		logger.Log.WithError(err).Error("failed to compute symptom trends")
		http.Error(w, "failed to compute trends", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
