package handler

import (
	"net/http"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EngagementHandler handles likes, views and comments on products.
type EngagementHandler struct {
	service service.EngagementService
	logger  zerolog.Logger
}

// NewEngagementHandler creates a new engagement handler.
func NewEngagementHandler(service service.EngagementService, logger zerolog.Logger) *EngagementHandler {
	return &EngagementHandler{
		service: service,
		logger:  logger.With().Str("handler", "engagement").Logger(),
	}
}

type commentsResponse struct {
	Comments []model.Comment `json:"comments"`
}

// ToggleLike handles POST /api/products/{id}/like requests.
func (h *EngagementHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	status, err := h.service.ToggleLike(r.Context(), id, p.UserID)
	if err != nil {
		writeServiceError(w, r, err, "failed to toggle like", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// LikeStatus handles GET /api/products/{id}/like requests. Anonymous
// callers get liked=false.
func (h *EngagementHandler) LikeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var userID *uuid.UUID
	if p, ok := auth.FromContext(r.Context()); ok {
		userID = &p.UserID
	}

	status, err := h.service.LikeStatus(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve likes", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// AddView handles POST /api/products/{id}/view requests.
func (h *EngagementHandler) AddView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	views, err := h.service.AddView(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to record view", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// Comments handles GET /api/products/{id}/comment requests.
func (h *EngagementHandler) Comments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	comments, err := h.service.Comments(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve comments", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, commentsResponse{Comments: comments})
}

// AddComment handles POST /api/products/{id}/comment requests.
func (h *EngagementHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req model.CommentRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	comments, err := h.service.AddComment(r.Context(), id, p.UserID, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to add comment", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, commentsResponse{Comments: comments})
}
