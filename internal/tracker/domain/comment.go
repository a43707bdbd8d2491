package domain

import "time"

// Comment is a free-text comment, optionally attached to a task. Mentions
// are parsed from Body exactly once, at creation time; the body is treated
// as immutable afterwards.
type Comment struct {
	ID        string    `db:"id"`
	Body      string    `db:"body"`
	AuthorID  string    `db:"author_id"`
	TaskID    string    `db:"task_id"` // empty when the comment is not on a task
	CreatedAt time.Time `db:"created_at"`
}
