package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type membershipsRepo struct {
	ext sqlx.ExtContext
}

func (r *membershipsRepo) AddJobCollaborator(ctx context.Context, jobID, userID string) error {
	// Re-adding an existing pair is a no-op, not an error.
	_, err := r.ext.ExecContext(ctx,
		`INSERT OR IGNORE INTO job_collaborators (job_id, user_id, created_at)
		 VALUES (?, ?, ?)`,
		jobID, userID, time.Now().UTC())
	return err
}

func (r *membershipsRepo) AddTaskAssignee(ctx context.Context, taskID, userID string) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_assignees (task_id, user_id, created_at)
		 VALUES (?, ?, ?)`,
		taskID, userID, time.Now().UTC())
	return err
}

func (r *membershipsRepo) ListJobIDsForUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := sqlx.SelectContext(ctx, r.ext, &ids,
		`SELECT job_id FROM job_collaborators WHERE user_id = ? ORDER BY job_id`, userID)
	return ids, err
}

func (r *membershipsRepo) ListTaskIDsForUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := sqlx.SelectContext(ctx, r.ext, &ids,
		`SELECT task_id FROM task_assignees WHERE user_id = ? ORDER BY task_id`, userID)
	return ids, err
}

func (r *membershipsRepo) ListJobIDsForUserTasks(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := sqlx.SelectContext(ctx, r.ext, &ids,
		`SELECT DISTINCT t.job_id
		 FROM task_assignees ta
		 JOIN tasks t ON t.id = ta.task_id
		 WHERE ta.user_id = ?
		 ORDER BY t.job_id`, userID)
	return ids, err
}

func (r *membershipsRepo) DeleteTaskAssigneesForUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.ext.ExecContext(ctx,
		`DELETE FROM task_assignees WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *membershipsRepo) DeleteJobCollaboratorsForUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.ext.ExecContext(ctx,
		`DELETE FROM job_collaborators WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
