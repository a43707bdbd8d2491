package domain

import "time"

// JobCollaborator grants a user visibility of a job. Unique per
// (job, user); the row's existence is the access grant, nothing else is.
type JobCollaborator struct {
	JobID     string    `db:"job_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// TaskAssignee grants a user responsibility for a task. Unique per
// (task, user).
type TaskAssignee struct {
	TaskID    string    `db:"task_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}
