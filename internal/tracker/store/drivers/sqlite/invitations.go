package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
)

type invitationsRepo struct {
	ext sqlx.ExtContext
}

const invitationColumns = `id, email, token_hash, role, status, expires_at, invited_by, accepted_at, created_at, updated_at`

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO invitations (`+invitationColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Email, inv.TokenHash, inv.Role, inv.Status,
		inv.ExpiresAt, inv.InvitedByID, inv.AcceptedAt, inv.CreatedAt, inv.UpdatedAt)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	var inv domain.Invitation
	err := sqlx.GetContext(ctx, r.ext, &inv,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	var inv domain.Invitation
	err := sqlx.GetContext(ctx, r.ext, &inv,
		`SELECT `+invitationColumns+` FROM invitations WHERE token_hash = ?`, hash)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

// MarkAccepted is guarded on status so only one of two concurrent accepts
// can win; the loser sees ErrNotFound.
func (r *invitationsRepo) MarkAccepted(ctx context.Context, id string, acceptedAt time.Time) error {
	res, err := r.ext.ExecContext(ctx,
		`UPDATE invitations
		 SET status = ?, accepted_at = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		domain.InvitationAccepted, acceptedAt, acceptedAt, id, domain.InvitationPending)
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

func (r *invitationsRepo) MarkCancelled(ctx context.Context, id string) error {
	res, err := r.ext.ExecContext(ctx,
		`UPDATE invitations
		 SET status = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		domain.InvitationCancelled, time.Now().UTC(), id, domain.InvitationPending)
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

func (r *invitationsRepo) DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.ext.ExecContext(ctx,
		`DELETE FROM invitations WHERE status = ? AND expires_at < ?`,
		domain.InvitationPending, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
