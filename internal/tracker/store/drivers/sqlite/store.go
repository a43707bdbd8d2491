package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/harborcrew/taskdeck/internal/tracker/store"
)

type Store struct {
	db *sqlx.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A pooled :memory: DSN would hand every connection its own empty
	// database, and file DSNs serialize writes anyway.
	db.SetMaxOpenConns(1)

	// Enforce FKs; modernc sqlite leaves them off by default.
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling
// commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rollback if fn errors or panics; safe to call after commit.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users                 { return &usersRepo{ext: s.db} }
func (s *Store) Notifications() store.Notifications { return &notificationsRepo{ext: s.db} }
func (s *Store) Preferences() store.Preferences     { return &preferencesRepo{ext: s.db} }
func (s *Store) Comments() store.Comments           { return &commentsRepo{ext: s.db} }
func (s *Store) Memberships() store.Memberships     { return &membershipsRepo{ext: s.db} }
func (s *Store) Invitations() store.Invitations     { return &invitationsRepo{ext: s.db} }
func (s *Store) Jobs() store.Jobs                   { return &jobsRepo{ext: s.db} }
func (s *Store) Tasks() store.Tasks                 { return &tasksRepo{ext: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	// modernc sqlite surfaces constraint violations as plain error text.
	if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

// likePattern escapes LIKE metacharacters in a user-supplied search term
// so it matches literally, then wraps it for containment.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
