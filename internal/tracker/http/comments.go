package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
	"github.com/harborcrew/taskdeck/internal/tracker/service"
	"github.com/harborcrew/taskdeck/internal/tracker/store"
	"github.com/harborcrew/taskdeck/pkg/httpx"
	"github.com/harborcrew/taskdeck/pkg/slogx"
)

type CommentsHandler struct {
	CommentService *service.CommentService
}

type createCommentRequest struct {
	TaskID string `json:"task_id"`
	Body   string `json:"body"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentResponse(c domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		TaskID:    c.TaskID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

func (h *CommentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	authorID := httpx.UserIDFromContext(ctx)
	if authorID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	comment, err := h.CommentService.Create(ctx, req.TaskID, authorID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyComment):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Comment body must not be empty")
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Task not found")
		default:
			log.Error("failed to create comment", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create comment")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toCommentResponse(comment))
}

func (h *CommentsHandler) HandleListForTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	taskID := r.PathValue("id")

	comments, err := h.CommentService.ListForTask(ctx, taskID)
	if err != nil {
		log.Error("failed to list comments", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list comments")
		return
	}

	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
