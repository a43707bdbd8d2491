package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
)

type commentsRepo struct {
	ext sqlx.ExtContext
}

type commentRow struct {
	ID        string         `db:"id"`
	Body      string         `db:"body"`
	AuthorID  string         `db:"author_id"`
	TaskID    sql.NullString `db:"task_id"`
	CreatedAt time.Time      `db:"created_at"`
}

func (row commentRow) toDomain() domain.Comment {
	return domain.Comment{
		ID:        row.ID,
		Body:      row.Body,
		AuthorID:  row.AuthorID,
		TaskID:    row.TaskID.String,
		CreatedAt: row.CreatedAt,
	}
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO comments (id, body, author_id, task_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Body, c.AuthorID, nullable(c.TaskID), c.CreatedAt)
	return mapConstraint(err)
}

func (r *commentsRepo) GetCommentByID(ctx context.Context, id string) (domain.Comment, error) {
	var row commentRow
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT id, body, author_id, task_id, created_at FROM comments WHERE id = ?`, id)
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *commentsRepo) ListForTask(ctx context.Context, taskID string) ([]domain.Comment, error) {
	var rows []commentRow
	err := sqlx.SelectContext(ctx, r.ext, &rows,
		`SELECT id, body, author_id, task_id, created_at FROM comments
		 WHERE task_id = ? ORDER BY created_at ASC, id ASC`, taskID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
