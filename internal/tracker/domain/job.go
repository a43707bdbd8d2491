package domain

import "time"

// Job is a unit of client work that tasks hang off. Only the fields the
// collaboration core needs are modelled here.
type Job struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// Task belongs to a job and can be assigned and commented on.
type Task struct {
	ID        string    `db:"id"`
	JobID     string    `db:"job_id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
}
