package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
	"github.com/harborcrew/taskdeck/internal/tracker/store"
	"github.com/harborcrew/taskdeck/pkg/idx"
	"github.com/harborcrew/taskdeck/pkg/slogx"
)

// RetentionAge is how long a read notification is kept before the sweep
// may remove it.
const RetentionAge = 30 * 24 * time.Hour

var ErrNotNotificationOwner = errors.New("notification belongs to another user")

type NotificationService struct {
	Store store.Store
}

// ChannelsFor resolves the (in-app, email) delivery flags for one
// recipient and one notification kind. A user without a preference row
// gets both channels enabled: the default is fail-open so incomplete
// setup never silently drops notifications.
func (s *NotificationService) ChannelsFor(
	ctx context.Context,
	userID string,
	kind domain.NotificationKind,
) (inApp, email bool, err error) {
	prefs, err := s.Store.Preferences().GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return true, true, nil
		}
		return false, false, err
	}

	inApp, email = prefs.Channels(kind)
	return inApp, email, nil
}

// Notify writes exactly one notification row. It never deduplicates
// against prior calls; invoking it at most once per (recipient, event)
// pair is the fanout driver's job.
func (s *NotificationService) Notify(
	ctx context.Context,
	n domain.Notification,
) (domain.Notification, error) {
	log := slogx.FromContext(ctx)

	if n.ID == "" {
		n.ID = idx.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if err := s.Store.Notifications().CreateNotification(ctx, n); err != nil {
		log.Error("failed to create notification",
			slog.String("user_id", n.UserID),
			slog.String("kind", string(n.Kind)),
			slog.Any("error", err),
		)
		return domain.Notification{}, err
	}

	log.Debug("notification created",
		slog.String("notification_id", n.ID),
		slog.String("user_id", n.UserID),
		slog.String("kind", string(n.Kind)),
	)

	return n, nil
}

// ListForUser returns a user's inbox, newest first.
func (s *NotificationService) ListForUser(
	ctx context.Context,
	userID string,
	unreadOnly bool,
) ([]domain.Notification, error) {
	return s.Store.Notifications().ListForUser(ctx, userID, unreadOnly)
}

// CountUnread returns the unread badge count for a user.
func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.Store.Notifications().CountUnread(ctx, userID)
}

// MarkRead flips a notification to read on behalf of its owner.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	n, err := s.Store.Notifications().GetNotificationByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return ErrNotNotificationOwner
	}
	return s.Store.Notifications().MarkRead(ctx, notificationID)
}

// SweepRead deletes read notifications older than RetentionAge, computed
// at invocation time, and returns the count removed. Unread rows are
// never deleted regardless of age, and running the sweep twice (or
// concurrently) just deletes zero rows the second time.
func (s *NotificationService) SweepRead(ctx context.Context) (int64, error) {
	log := slogx.FromContext(ctx)

	cutoff := time.Now().UTC().Add(-RetentionAge)
	deleted, err := s.Store.Notifications().DeleteReadBefore(ctx, cutoff)
	if err != nil {
		log.Error("retention sweep failed", slog.Any("error", err))
		return 0, err
	}

	log.Info("retention sweep completed",
		slog.Int64("deleted", deleted),
		slog.Time("cutoff", cutoff),
	)

	return deleted, nil
}
