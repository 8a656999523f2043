package postgres

import (
	"context"
	"time"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/database"

	"github.com/google/uuid"
)

type passwordResetRepo struct {
	db database.DB
}

func NewPasswordResetRepository(db database.DB) domain.PasswordResetRepository {
	return &passwordResetRepo{db: db}
}

func (r *passwordResetRepo) HasLive(ctx context.Context, email string, now time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM password_resets WHERE lower(email) = lower($1) AND used_at IS NULL AND expires_at > $2)`,
		email, now).Scan(&exists)
	return exists, mapError(err)
}

func (r *passwordResetRepo) DeleteUnused(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM password_resets WHERE lower(email) = lower($1) AND used_at IS NULL`, email)
	return mapError(err)
}

func (r *passwordResetRepo) Create(ctx context.Context, p *domain.PasswordReset) error {
	query := `INSERT INTO password_resets (email, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, p.Email, p.Token, p.ExpiresAt).Scan(&p.ID, &p.CreatedAt)
	return mapError(err)
}

func (r *passwordResetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM password_resets WHERE id = $1`, id)
	return mapError(err)
}

func (r *passwordResetRepo) GetByToken(ctx context.Context, token string) (*domain.PasswordReset, error) {
	var p domain.PasswordReset
	err := r.db.QueryRow(ctx,
		`SELECT id, email, token, expires_at, used_at, created_at FROM password_resets WHERE token = $1`, token,
	).Scan(&p.ID, &p.Email, &p.Token, &p.ExpiresAt, &p.UsedAt, &p.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *passwordResetRepo) MarkUsed(ctx context.Context, token string, now time.Time) (string, error) {
	var email string
	err := r.db.QueryRow(ctx,
		`UPDATE password_resets SET used_at = $2 WHERE token = $1 AND used_at IS NULL AND expires_at > $2 RETURNING email`,
		token, now).Scan(&email)
	if err != nil {
		return "", mapTransition(err)
	}
	return email, nil
}
