package domain

import "time"

// NotificationPreferences stores per-user channel flags, one nullable flag
// per (kind, channel) pair. A nil flag means the channel is enabled: the
// policy is fail-open so a user who never saved preferences, or saved only
// some of them, keeps every unset channel on. At most one row per user.
type NotificationPreferences struct {
	UserID string `db:"user_id"`

	TaskAssignedInApp   *bool `db:"task_assigned_in_app"`
	TaskAssignedEmail   *bool `db:"task_assigned_email"`
	JobAssignedInApp    *bool `db:"job_assigned_in_app"`
	JobAssignedEmail    *bool `db:"job_assigned_email"`
	TaskCompletedInApp  *bool `db:"task_completed_in_app"`
	TaskCompletedEmail  *bool `db:"task_completed_email"`
	CommentMentionInApp *bool `db:"comment_mention_in_app"`
	CommentMentionEmail *bool `db:"comment_mention_email"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Channels resolves the (in-app, email) flags for a notification kind.
// Only an explicit false disables a channel; unknown kinds default to
// fully enabled so new kinds never go silent before a preference field
// exists for them.
func (p NotificationPreferences) Channels(kind NotificationKind) (inApp, email bool) {
	switch kind {
	case KindTaskAssigned:
		return enabled(p.TaskAssignedInApp), enabled(p.TaskAssignedEmail)
	case KindJobAssigned:
		return enabled(p.JobAssignedInApp), enabled(p.JobAssignedEmail)
	case KindTaskCompleted:
		return enabled(p.TaskCompletedInApp), enabled(p.TaskCompletedEmail)
	case KindCommentMention:
		return enabled(p.CommentMentionInApp), enabled(p.CommentMentionEmail)
	default:
		return true, true
	}
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}
