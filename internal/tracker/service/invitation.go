package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
	"github.com/harborcrew/taskdeck/internal/tracker/store"
	"github.com/harborcrew/taskdeck/pkg/cryptox"
	"github.com/harborcrew/taskdeck/pkg/idx"
	"github.com/harborcrew/taskdeck/pkg/slogx"
)

const (
	// MinPasswordLength is intentionally permissive; strength policy
	// lives with the operator, not the engine.
	MinPasswordLength = 6

	// DefaultInvitationTTL is how long a freshly minted invitation
	// stays redeemable.
	DefaultInvitationTTL = 7 * 24 * time.Hour
)

var (
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationExpired     = errors.New("invitation has expired")
	ErrInvitationAlreadyUsed = errors.New("invitation has already been accepted")
	ErrInvitationCancelled   = errors.New("invitation has been cancelled")
	ErrEmailTaken            = errors.New("email address is already registered")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrInvalidRole           = errors.New("invalid role")
)

type InvitationService struct {
	Store store.Store

	// TTL overrides DefaultInvitationTTL when positive.
	TTL time.Duration
}

func (s *InvitationService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultInvitationTTL
}

// Mint creates a PENDING invitation for an email address and returns it
// together with the one-time token. Only the token's SHA-256
// fingerprint is stored, so the plaintext cannot be recovered later —
// hand it to the invitee now or never.
func (s *InvitationService) Mint(
	ctx context.Context,
	invitedByID, email string,
	role domain.Role,
) (domain.Invitation, string, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if !role.Valid() {
		return domain.Invitation{}, "", ErrInvalidRole
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.Invitation{}, "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Invitation{}, "", err
	}

	token, err := cryptox.GenerateToken(32)
	if err != nil {
		return domain.Invitation{}, "", err
	}

	now := time.Now().UTC()
	inv := domain.Invitation{
		ID:          idx.New().String(),
		Email:       email,
		Role:        role,
		TokenHash:   cryptox.FingerprintToken(token),
		Status:      domain.InvitationPending,
		InvitedByID: invitedByID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl()),
	}

	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		return domain.Invitation{}, "", err
	}

	log.Info("invitation minted",
		slog.String("invitation_id", inv.ID),
		slog.String("email", inv.Email),
		slog.String("role", string(inv.Role)),
	)

	return inv, token, nil
}

// Accept redeems an invitation token: it validates status and expiry,
// then atomically creates the user account and flips the invitation to
// ACCEPTED. The status flip is guarded in the store, so when two
// requests race on the same token only one account is created and the
// loser sees ErrInvitationAlreadyUsed.
func (s *InvitationService) Accept(
	ctx context.Context,
	token, name, password string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if len(password) < MinPasswordLength {
		return domain.User{}, ErrPasswordTooShort
	}

	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvitationNotFound
		}
		return domain.User{}, err
	}

	switch inv.Status {
	case domain.InvitationAccepted:
		return domain.User{}, ErrInvitationAlreadyUsed
	case domain.InvitationCancelled:
		return domain.User{}, ErrInvitationCancelled
	}

	now := time.Now().UTC()
	if now.After(inv.ExpiresAt) {
		return domain.User{}, ErrInvitationExpired
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        inv.Email,
		Name:         strings.TrimSpace(name),
		Role:         inv.Role,
		PasswordHash: hash,
		CreatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.Invitations().MarkAccepted(ctx, inv.ID, now)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost the race: another request flipped the status first.
			return domain.User{}, ErrInvitationAlreadyUsed
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	log.Info("invitation accepted",
		slog.String("invitation_id", inv.ID),
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// Cancel revokes a PENDING invitation. Cancelling one that is already
// accepted or cancelled reports ErrInvitationNotFound.
func (s *InvitationService) Cancel(ctx context.Context, invitationID string) error {
	err := s.Store.Invitations().MarkCancelled(ctx, invitationID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvitationNotFound
	}
	return err
}

// PurgeExpired removes PENDING invitations whose expiry has passed.
// Called from housekeeping.
func (s *InvitationService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.Store.Invitations().DeleteExpiredPending(ctx, time.Now().UTC())
}
