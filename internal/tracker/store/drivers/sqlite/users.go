package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
)

type usersRepo struct {
	ext sqlx.ExtContext
}

const userColumns = `id, email, name, password_hash, role, is_paused, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.ext, &u,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	// email is COLLATE NOCASE, so equality is already case-insensitive.
	var u domain.User
	err := sqlx.GetContext(ctx, r.ext, &u,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, role, is_paused, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.IsPaused, u.CreatedAt, u.UpdatedAt)
	return mapConstraint(err)
}

func (r *usersRepo) SearchByEmailContains(ctx context.Context, term string) ([]domain.User, error) {
	var users []domain.User
	err := sqlx.SelectContext(ctx, r.ext, &users,
		`SELECT `+userColumns+` FROM users WHERE email LIKE ? ESCAPE '\'`,
		likePattern(term))
	return users, err
}

func (r *usersRepo) SearchByNameOrEmail(ctx context.Context, term string) ([]domain.User, error) {
	var users []domain.User
	pattern := likePattern(term)
	err := sqlx.SelectContext(ctx, r.ext, &users,
		`SELECT `+userColumns+` FROM users
		 WHERE name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\'`,
		pattern, pattern)
	return users, err
}
