package store

import (
	"context"
	"errors"
	"time"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and individually
// testable, and make it obvious when a call site is inside a transaction.
type Store interface {
	Users() Users
	Notifications() Notifications
	Preferences() Preferences
	Comments() Comments
	Memberships() Memberships
	Invitations() Invitations
	Jobs() Jobs
	Tasks() Tasks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-row mutations that must be atomic
	// (membership cascade, invitation acceptance).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches the email case-insensitively and exactly.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// SearchByEmailContains returns users whose email contains term,
	// case-insensitively.
	SearchByEmailContains(ctx context.Context, term string) ([]domain.User, error)

	// SearchByNameOrEmail returns users whose name or email contains term,
	// case-insensitively.
	SearchByNameOrEmail(ctx context.Context, term string) ([]domain.User, error)
}

type Notifications interface {
	// CreateNotification inserts one inbox row. Never deduplicates; the
	// fanout driver owns at-most-once semantics per triggering event.
	CreateNotification(ctx context.Context, n domain.Notification) error

	// GetNotificationByID returns a notification by id.
	GetNotificationByID(ctx context.Context, id string) (domain.Notification, error)

	// ListForUser returns a user's notifications, newest first.
	ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error)

	// CountUnread returns the number of unread notifications for a user.
	CountUnread(ctx context.Context, userID string) (int, error)

	// MarkRead flips read=1 on a single notification.
	MarkRead(ctx context.Context, id string) error

	// DeleteReadBefore removes read notifications created before cutoff
	// and reports how many rows went. Unread rows are never touched.
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Preferences interface {
	// GetPreferences returns the at-most-one preference row for a user,
	// or ErrNotFound when the user never saved preferences.
	GetPreferences(ctx context.Context, userID string) (domain.NotificationPreferences, error)

	// UpsertPreferences inserts or replaces the user's preference row.
	UpsertPreferences(ctx context.Context, p domain.NotificationPreferences) error
}

type Comments interface {
	CreateComment(ctx context.Context, c domain.Comment) error
	GetCommentByID(ctx context.Context, id string) (domain.Comment, error)

	// ListForTask returns a task's comments, oldest first.
	ListForTask(ctx context.Context, taskID string) ([]domain.Comment, error)
}

type Memberships interface {
	// AddJobCollaborator grants job visibility; adding an existing pair
	// is a no-op.
	AddJobCollaborator(ctx context.Context, jobID, userID string) error

	// AddTaskAssignee grants task responsibility; adding an existing pair
	// is a no-op.
	AddTaskAssignee(ctx context.Context, taskID, userID string) error

	// ListJobIDsForUser returns the ids of every job the user currently
	// collaborates on.
	ListJobIDsForUser(ctx context.Context, userID string) ([]string, error)

	// ListTaskIDsForUser returns the ids of every task assigned to the user.
	ListTaskIDsForUser(ctx context.Context, userID string) ([]string, error)

	// ListJobIDsForUserTasks returns the distinct ids of jobs owning a
	// task the user is assigned to.
	ListJobIDsForUserTasks(ctx context.Context, userID string) ([]string, error)

	// DeleteTaskAssigneesForUser removes every assignment row for a user
	// and reports the row count. Zero rows is not an error.
	DeleteTaskAssigneesForUser(ctx context.Context, userID string) (int64, error)

	// DeleteJobCollaboratorsForUser removes every collaboration row for a
	// user and reports the row count. Zero rows is not an error.
	DeleteJobCollaboratorsForUser(ctx context.Context, userID string) (int64, error)
}

type Invitations interface {
	CreateInvitation(ctx context.Context, inv domain.Invitation) error
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetInvitationByTokenHash looks an invitation up by the fingerprint
	// of its opaque token, regardless of status.
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// MarkAccepted flips PENDING to ACCEPTED and stamps accepted_at. The
	// update is guarded on the current status: if the invitation is no
	// longer PENDING it returns ErrNotFound, which is how a concurrent
	// double-accept loses the race.
	MarkAccepted(ctx context.Context, id string, acceptedAt time.Time) error

	// MarkCancelled flips PENDING to CANCELLED with the same guard.
	MarkCancelled(ctx context.Context, id string) error

	// DeleteExpiredPending is housekeeping: removes PENDING invitations
	// whose expiry passed before cutoff.
	DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error)
}

type Jobs interface {
	CreateJob(ctx context.Context, j domain.Job) error
	GetJobByID(ctx context.Context, id string) (domain.Job, error)
}

type Tasks interface {
	CreateTask(ctx context.Context, t domain.Task) error
	GetTaskByID(ctx context.Context, id string) (domain.Task, error)
}
