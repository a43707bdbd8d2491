package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
)

type notificationsRepo struct {
	ext sqlx.ExtContext
}

// notificationRow keeps the weak-reference columns nullable in SQL while
// the domain type uses empty strings for "no reference".
type notificationRow struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Kind      string         `db:"kind"`
	Title     string         `db:"title"`
	Message   string         `db:"message"`
	Read      bool           `db:"read"`
	ActorID   sql.NullString `db:"actor_id"`
	TaskID    sql.NullString `db:"task_id"`
	JobID     sql.NullString `db:"job_id"`
	CommentID sql.NullString `db:"comment_id"`
	CreatedAt time.Time      `db:"created_at"`
}

func (row notificationRow) toDomain() domain.Notification {
	return domain.Notification{
		ID:        row.ID,
		UserID:    row.UserID,
		Kind:      domain.NotificationKind(row.Kind),
		Title:     row.Title,
		Message:   row.Message,
		Read:      row.Read,
		ActorID:   row.ActorID.String,
		TaskID:    row.TaskID.String,
		JobID:     row.JobID.String,
		CommentID: row.CommentID.String,
		CreatedAt: row.CreatedAt,
	}
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

const notificationColumns = `id, user_id, kind, title, message, read, actor_id, task_id, job_id, comment_id, created_at`

func (r *notificationsRepo) CreateNotification(ctx context.Context, n domain.Notification) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO notifications (`+notificationColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Kind, n.Title, n.Message, n.Read,
		nullable(n.ActorID), nullable(n.TaskID), nullable(n.JobID), nullable(n.CommentID),
		n.CreatedAt)
	return mapConstraint(err)
}

func (r *notificationsRepo) GetNotificationByID(ctx context.Context, id string) (domain.Notification, error) {
	var row notificationRow
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id)
	if err != nil {
		return domain.Notification{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *notificationsRepo) ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND read = 0`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var rows []notificationRow
	if err := sqlx.SelectContext(ctx, r.ext, &rows, query, userID); err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *notificationsRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.ext, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0`, userID)
	return count, err
}

func (r *notificationsRepo) MarkRead(ctx context.Context, id string) error {
	res, err := r.ext.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *notificationsRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.ext.ExecContext(ctx,
		`DELETE FROM notifications WHERE read = 1 AND created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
