package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
	"github.com/harborcrew/taskdeck/internal/tracker/service"
	"github.com/harborcrew/taskdeck/internal/tracker/store"
	"github.com/harborcrew/taskdeck/pkg/httpx"
	"github.com/harborcrew/taskdeck/pkg/slogx"
)

type NotificationsHandler struct {
	NotificationService *service.NotificationService
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	ActorID   string    `json:"actor_id,omitempty"`
	TaskID    string    `json:"task_id,omitempty"`
	JobID     string    `json:"job_id,omitempty"`
	CommentID string    `json:"comment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type notificationListResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}

func toNotificationResponse(n domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		ActorID:   n.ActorID,
		TaskID:    n.TaskID,
		JobID:     n.JobID,
		CommentID: n.CommentID,
		CreatedAt: n.CreatedAt,
	}
}

func (h *NotificationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.NotificationService.ListForUser(ctx, userID, unreadOnly)
	if err != nil {
		log.Error("failed to list notifications", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list notifications")
		return
	}

	unread, err := h.NotificationService.CountUnread(ctx, userID)
	if err != nil {
		log.Error("failed to count unread notifications", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list notifications")
		return
	}

	out := notificationListResponse{
		Notifications: make([]notificationResponse, 0, len(notifications)),
		UnreadCount:   unread,
	}
	for _, n := range notifications {
		out.Notifications = append(out.Notifications, toNotificationResponse(n))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *NotificationsHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	err := h.NotificationService.MarkRead(ctx, r.PathValue("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Notification not found")
		case errors.Is(err, service.ErrNotNotificationOwner):
			// 404 rather than 403: don't leak other users' notification ids.
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Notification not found")
		default:
			log.Error("failed to mark notification read", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to update notification")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
