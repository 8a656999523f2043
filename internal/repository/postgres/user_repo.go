package postgres

import (
	"context"
	"fmt"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/database"
)

const userColumns = `id, email, full_name, role, created_at, updated_at`

type userRepo struct {
	db database.DB
}

func NewUserRepository(db database.DB) domain.UserRepository {
	return &userRepo{db: db}
}

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query, user.ID, user.Email, user.FullName, user.Role).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	return mapError(err)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	var w whereBuilder
	if f.Role != "" {
		w.add(`role = ?`, f.Role)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	limit, args := w.page(f.Pagination)
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users`+w.String()+` ORDER BY created_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	return out, total, rows.Err()
}

func (r *userRepo) UpdateRole(ctx context.Context, id, role string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 RETURNING `+userColumns, id, role))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
