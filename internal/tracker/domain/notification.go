package domain

import "time"

// NotificationKind identifies the triggering event class of a notification.
type NotificationKind string

const (
	KindTaskAssigned   NotificationKind = "TASK_ASSIGNED"
	KindJobAssigned    NotificationKind = "JOB_ASSIGNED"
	KindTaskCompleted  NotificationKind = "TASK_COMPLETED"
	KindCommentMention NotificationKind = "COMMENT_MENTION"
)

// Notification is one in-app inbox item for a single recipient.
//
// ActorID, TaskID, JobID and CommentID are weak references: they are
// lookup-only and the referenced row may have been deleted since the
// notification was written. Empty string means no reference.
type Notification struct {
	ID        string           `db:"id"`
	UserID    string           `db:"user_id"` // recipient
	Kind      NotificationKind `db:"kind"`
	Title     string           `db:"title"`
	Message   string           `db:"message"`
	Read      bool             `db:"read"`
	ActorID   string           `db:"actor_id"`
	TaskID    string           `db:"task_id"`
	JobID     string           `db:"job_id"`
	CommentID string           `db:"comment_id"`
	CreatedAt time.Time        `db:"created_at"`
}
