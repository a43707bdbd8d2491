package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
)

type jobsRepo struct {
	ext sqlx.ExtContext
}

func (r *jobsRepo) CreateJob(ctx context.Context, j domain.Job) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO jobs (id, name, created_at) VALUES (?, ?, ?)`,
		j.ID, j.Name, j.CreatedAt)
	return mapConstraint(err)
}

func (r *jobsRepo) GetJobByID(ctx context.Context, id string) (domain.Job, error) {
	var j domain.Job
	err := sqlx.GetContext(ctx, r.ext, &j,
		`SELECT id, name, created_at FROM jobs WHERE id = ?`, id)
	if err != nil {
		return domain.Job{}, mapNotFound(err)
	}
	return j, nil
}

type tasksRepo struct {
	ext sqlx.ExtContext
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO tasks (id, job_id, title, created_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.JobID, t.Title, t.CreatedAt)
	return mapConstraint(err)
}

func (r *tasksRepo) GetTaskByID(ctx context.Context, id string) (domain.Task, error) {
	var t domain.Task
	err := sqlx.GetContext(ctx, r.ext, &t,
		`SELECT id, job_id, title, created_at FROM tasks WHERE id = ?`, id)
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}
	return t, nil
}
