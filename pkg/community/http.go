package community

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
	r.HandleFunc("/feed", h.handleFeed).Methods(http.MethodGet)
	r.HandleFunc("/posts", h.handleCreatePost).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id}", h.handleGetPost).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id}", h.handleDeletePost).Methods(http.MethodDelete)
	r.HandleFunc("/posts/{id}/like", h.handleToggleLike).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id}/comments", h.handleListComments).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id}/comments", h.handleAddComment).Methods(http.MethodPost)
	r.HandleFunc("/conversations", h.handleConversations).Methods(http.MethodGet)
	r.HandleFunc("/messages/unread", h.handleUnreadTotal).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{userId}/messages", h.handleMessages).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{userId}/messages", h.handleSendMessage).Methods(http.MethodPost)
	r.HandleFunc("/forums", h.handleForums).Methods(http.MethodGet)
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	feed, err := h.service.Feed(r.Context(), middleware.UserIDFrom(r), page, limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load feed")
		http.Error(w, "failed to load feed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (h *Handler) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	post, err := h.service.CreatePost(r.Context(), middleware.UserIDFrom(r), req)
	if err != nil {
		if errors.Is(err, ErrEmptyContent) || errors.Is(err, ErrContentTooLong) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("failed to create post")
		http.Error(w, "failed to create post", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *Handler) handleGetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	post, err := h.service.GetPost(r.Context(), middleware.UserIDFrom(r), postID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to load post")
		http.Error(w, "failed to load post", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *Handler) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeletePost(r.Context(), middleware.UserIDFrom(r), postID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrNotPostOwner) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		logger.Log.WithError(err).Error("failed to delete post")
		http.Error(w, "failed to delete post", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

func (h *Handler) handleUnreadTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.UnreadTotal(r.Context(), middleware.UserIDFrom(r))
	if err != nil {
		logger.Log.WithError(err).Error("failed to count unread messages")
		http.Error(w, "failed to count unread messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"unread": total})
}

func (h *Handler) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	result, err := h.service.ToggleLike(r.Context(), middleware.UserIDFrom(r), postID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to toggle like")
		http.Error(w, "failed to toggle like", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	comments, err := h.service.Comments(r.Context(), postID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to load comments")
		http.Error(w, "failed to load comments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

func (h *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	comment, err := h.service.AddComment(r.Context(), middleware.UserIDFrom(r), postID, req)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrEmptyContent) || errors.Is(err, ErrContentTooLong) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("failed to add comment")
		http.Error(w, "failed to add comment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handler) handleConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.service.Conversations(r.Context(), middleware.UserIDFrom(r))
	if err != nil {
		logger.Log.WithError(err).Error("failed to load conversations")
		http.Error(w, "failed to load conversations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"conversations": conversations})
}

func (h *Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	otherID, err := uuid.Parse(mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	messages, err := h.service.Messages(r.Context(), middleware.UserIDFrom(r), otherID)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load messages")
		http.Error(w, "failed to load messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	recipientID, err := uuid.Parse(mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	message, err := h.service.SendMessage(r.Context(), middleware.UserIDFrom(r), recipientID, req)
	if err != nil {
		if errors.Is(err, ErrEmptyContent) || errors.Is(err, ErrContentTooLong) || errors.Is(err, ErrSelfMessage) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("failed to send message")
		http.Error(w, "failed to send message", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (h *Handler) handleForums(w http.ResponseWriter, r *http.Request) {
	forums, err := h.service.Forums(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to load forums")
		http.Error(w, "failed to load forums", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"forums": forums})
}

func queryInt(r *http.Request, key string, fallback int) int {
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
