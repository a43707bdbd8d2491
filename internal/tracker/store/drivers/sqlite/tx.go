package sqlite

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/harborcrew/taskdeck/internal/tracker/store"
)

type txStore struct {
	tx *sqlx.Tx
}

func newTx(tx *sqlx.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open; caller commits or rolls back

// Ping is a no-op inside a transaction; the connection already exists.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx starts

func (t *txStore) Users() store.Users                 { return &usersRepo{ext: t.tx} }
func (t *txStore) Notifications() store.Notifications { return &notificationsRepo{ext: t.tx} }
func (t *txStore) Preferences() store.Preferences     { return &preferencesRepo{ext: t.tx} }
func (t *txStore) Comments() store.Comments           { return &commentsRepo{ext: t.tx} }
func (t *txStore) Memberships() store.Memberships     { return &membershipsRepo{ext: t.tx} }
func (t *txStore) Invitations() store.Invitations     { return &invitationsRepo{ext: t.tx} }
func (t *txStore) Jobs() store.Jobs                   { return &jobsRepo{ext: t.tx} }
func (t *txStore) Tasks() store.Tasks                 { return &tasksRepo{ext: t.tx} }
