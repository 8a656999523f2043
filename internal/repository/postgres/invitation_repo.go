package postgres

import (
	"context"
	"fmt"
	"time"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/database"

	"github.com/google/uuid"
)

const invitationColumns = `id, email, token, role, status, created_by, expires_at, created_at`

type invitationRepo struct {
	db database.DB
}

func NewInvitationRepository(db database.DB) domain.InvitationRepository {
	return &invitationRepo{db: db}
}

func scanInvitation(row scanner) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := row.Scan(&inv.ID, &inv.Email, &inv.Token, &inv.Role, &inv.Status, &inv.CreatedBy, &inv.ExpiresAt, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `INSERT INTO invitations (email, token, role, status, created_by, expires_at)
		VALUES ($1, $2, $3, 'pending', $4, $5)
		RETURNING id, status, created_at`
	err := r.db.QueryRow(ctx, query, inv.Email, inv.Token, inv.Role, inv.CreatedBy, inv.ExpiresAt).
		Scan(&inv.ID, &inv.Status, &inv.CreatedAt)
	return mapError(err)
}

func (r *invitationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	inv, err := scanInvitation(r.db.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return inv, nil
}

func (r *invitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	inv, err := scanInvitation(r.db.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE token = $1`, token))
	if err != nil {
		return nil, mapError(err)
	}
	return inv, nil
}

func (r *invitationRepo) HasLivePending(ctx context.Context, email string, now time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invitations WHERE lower(email) = lower($1) AND status = 'pending' AND expires_at > $2)`,
		email, now).Scan(&exists)
	return exists, mapError(err)
}

func (r *invitationRepo) List(ctx context.Context, f domain.InvitationFilter) ([]domain.Invitation, int64, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add(`status = ?`, f.Status)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM invitations`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	limit, args := w.page(f.Pagination)
	rows, err := r.db.Query(ctx, `SELECT `+invitationColumns+` FROM invitations`+w.String()+
		` ORDER BY created_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invitation: %w", err)
		}
		out = append(out, *inv)
	}
	return out, total, rows.Err()
}

func (r *invitationRepo) Consume(ctx context.Context, token string, now time.Time) (*domain.Invitation, error) {
	query := `UPDATE invitations SET status = 'accepted'
		WHERE token = $1 AND status = 'pending' AND expires_at > $2
		RETURNING ` + invitationColumns
	inv, err := scanInvitation(r.db.QueryRow(ctx, query, token, now))
	if err != nil {
		return nil, mapTransition(err)
	}
	return inv, nil
}

func (r *invitationRepo) Release(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE invitations SET status = 'pending' WHERE id = $1 AND status = 'accepted'`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotPending
	}
	return nil
}

func (r *invitationRepo) MarkExpired(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE invitations SET status = 'expired' WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotPending
	}
	return nil
}

func (r *invitationRepo) ExpireDue(ctx context.Context, email string, now time.Time) (int64, error) {
	query := `UPDATE invitations SET status = 'expired'
		WHERE status = 'pending' AND expires_at <= $1 AND ($2::text = '' OR lower(email) = lower($2::text))`
	tag, err := r.db.Exec(ctx, query, now, email)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}
