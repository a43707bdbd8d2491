package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
)

type preferencesRepo struct {
	ext sqlx.ExtContext
}

const preferenceColumns = `user_id,
	task_assigned_in_app, task_assigned_email,
	job_assigned_in_app, job_assigned_email,
	task_completed_in_app, task_completed_email,
	comment_mention_in_app, comment_mention_email,
	created_at, updated_at`

func (r *preferencesRepo) GetPreferences(ctx context.Context, userID string) (domain.NotificationPreferences, error) {
	var p domain.NotificationPreferences
	err := sqlx.GetContext(ctx, r.ext, &p,
		`SELECT `+preferenceColumns+` FROM notification_preferences WHERE user_id = ?`, userID)
	if err != nil {
		return domain.NotificationPreferences{}, mapNotFound(err)
	}
	return p, nil
}

func (r *preferencesRepo) UpsertPreferences(ctx context.Context, p domain.NotificationPreferences) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO notification_preferences (`+preferenceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
			task_assigned_in_app   = excluded.task_assigned_in_app,
			task_assigned_email    = excluded.task_assigned_email,
			job_assigned_in_app    = excluded.job_assigned_in_app,
			job_assigned_email     = excluded.job_assigned_email,
			task_completed_in_app  = excluded.task_completed_in_app,
			task_completed_email   = excluded.task_completed_email,
			comment_mention_in_app = excluded.comment_mention_in_app,
			comment_mention_email  = excluded.comment_mention_email,
			updated_at             = excluded.updated_at`,
		p.UserID,
		p.TaskAssignedInApp, p.TaskAssignedEmail,
		p.JobAssignedInApp, p.JobAssignedEmail,
		p.TaskCompletedInApp, p.TaskCompletedEmail,
		p.CommentMentionInApp, p.CommentMentionEmail,
		p.CreatedAt, p.UpdatedAt)
	return err
}
