package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
	"github.com/harborcrew/taskdeck/internal/tracker/service"
	"github.com/harborcrew/taskdeck/pkg/httpx"
	"github.com/harborcrew/taskdeck/pkg/slogx"
)

type InvitationsHandler struct {
	InvitationService *service.InvitationService
}

type mintInvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type mintInvitationResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token"` // plaintext, shown exactly once
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *InvitationsHandler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req mintInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}
	if req.Role == "" {
		req.Role = string(domain.RoleUser)
	}

	invitedByID := httpx.UserIDFromContext(ctx)
	if invitedByID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	inv, token, err := h.InvitationService.Mint(ctx, invitedByID, req.Email, domain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Unknown role")
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, "conflict", "Email address is already registered")
		default:
			log.Error("failed to mint invitation", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create invitation")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, mintInvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      string(inv.Role),
		Token:     token,
		ExpiresAt: inv.ExpiresAt,
	})
}

type acceptInvitationRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type acceptInvitationResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (h *InvitationsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req acceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	user, err := h.InvitationService.Accept(ctx, req.Token, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordTooShort):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Password is too short")
		case errors.Is(err, service.ErrInvitationNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Invitation not found")
		case errors.Is(err, service.ErrInvitationExpired):
			httpx.WriteError(w, http.StatusGone, "expired", "Invitation has expired")
		case errors.Is(err, service.ErrInvitationAlreadyUsed):
			httpx.WriteError(w, http.StatusConflict, "conflict", "Invitation has already been accepted")
		case errors.Is(err, service.ErrInvitationCancelled):
			httpx.WriteError(w, http.StatusGone, "cancelled", "Invitation has been cancelled")
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, "conflict", "Email address is already registered")
		default:
			log.Error("failed to accept invitation", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to accept invitation")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, acceptInvitationResponse{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
}

func (h *InvitationsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	err := h.InvitationService.Cancel(ctx, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvitationNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Invitation not found")
		default:
			log.Error("failed to cancel invitation", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to cancel invitation")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
