package http

import (
	"errors"
	"net/http"

	"github.com/harborcrew/taskdeck/internal/tracker/service"
	"github.com/harborcrew/taskdeck/internal/tracker/store"
	"github.com/harborcrew/taskdeck/pkg/httpx"
	"github.com/harborcrew/taskdeck/pkg/slogx"
)

type MembersHandler struct {
	MembershipService *service.MembershipService
}

func (h *MembersHandler) HandleRemoveAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actorID := httpx.UserIDFromContext(ctx)
	if actorID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	userID := r.PathValue("id")

	result, err := h.MembershipService.RemoveUserFromAllAccess(ctx, actorID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfRemoval):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "You cannot remove your own access")
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "User not found")
		default:
			log.Error("failed to remove user access", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to remove user access")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, result)
}
