package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/database"

	"github.com/google/uuid"
)

const candidateColumns = `id, sheet_row_number, nr, first_name, last_name, role, seniority, rate,
	skills, languages, availability, guardian, guardian_email, cv, last_synced_at, created_at, updated_at`

type candidateRepo struct {
	db database.DB
}

func NewCandidateRepository(db database.DB) domain.CandidateRepository {
	return &candidateRepo{db: db}
}

func scanCandidate(row scanner) (*domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(
		&c.ID, &c.SheetRowNumber, &c.Nr, &c.FirstName, &c.LastName, &c.Role, &c.Seniority, &c.Rate,
		&c.Skills, &c.Languages, &c.Availability, &c.Guardian, &c.GuardianEmail, &c.CV,
		&c.LastSyncedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *candidateRepo) Upsert(ctx context.Context, c *domain.Candidate) error {
	query := `INSERT INTO candidates (sheet_row_number, nr, first_name, last_name, role, seniority, rate,
			skills, languages, availability, guardian, guardian_email, cv, last_synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (sheet_row_number) DO UPDATE SET
			nr = EXCLUDED.nr,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			role = EXCLUDED.role,
			seniority = EXCLUDED.seniority,
			rate = EXCLUDED.rate,
			skills = EXCLUDED.skills,
			languages = EXCLUDED.languages,
			availability = EXCLUDED.availability,
			guardian = EXCLUDED.guardian,
			guardian_email = EXCLUDED.guardian_email,
			cv = EXCLUDED.cv,
			last_synced_at = EXCLUDED.last_synced_at,
			updated_at = NOW()`
	_, err := r.db.Exec(ctx, query,
		c.SheetRowNumber, c.Nr, c.FirstName, c.LastName, c.Role, c.Seniority, c.Rate,
		c.Skills, c.Languages, c.Availability, c.Guardian, c.GuardianEmail, c.CV, c.LastSyncedAt,
	)
	return mapError(err)
}

func (r *candidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	query := `INSERT INTO candidates (sheet_row_number, nr, first_name, last_name, role, seniority, rate,
			skills, languages, availability, guardian, guardian_email, cv, last_synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		c.SheetRowNumber, c.Nr, c.FirstName, c.LastName, c.Role, c.Seniority, c.Rate,
		c.Skills, c.Languages, c.Availability, c.Guardian, c.GuardianEmail, c.CV, c.LastSyncedAt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapError(err)
}

func (r *candidateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	c, err := scanCandidate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *candidateRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Candidate, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = ANY($1::uuid[])
		ORDER BY sheet_row_number NULLS LAST, created_at`
	return r.queryCandidates(ctx, query, raw)
}

func (r *candidateRepo) List(ctx context.Context, f domain.CandidateFilter) ([]domain.Candidate, int64, error) {
	var w whereBuilder
	if s := strings.TrimSpace(f.Search); s != "" {
		w.add(`((first_name || ' ' || COALESCE(last_name, '')) ILIKE ? OR role ILIKE ? OR skills ILIKE ?)`, likePattern(s))
	}
	if s := strings.TrimSpace(f.Seniority); s != "" {
		w.add(`seniority ILIKE ?`, s)
	}
	if s := strings.TrimSpace(f.Availability); s != "" {
		w.add(`availability ILIKE ?`, likePattern(s))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM candidates`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	limit, args := w.page(f.Pagination)
	query := `SELECT ` + candidateColumns + ` FROM candidates` + w.String() +
		` ORDER BY sheet_row_number NULLS LAST, created_at` + limit
	items, err := r.queryCandidates(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *candidateRepo) ListAll(ctx context.Context) ([]domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates ORDER BY sheet_row_number NULLS LAST, created_at`
	return r.queryCandidates(ctx, query)
}

func (r *candidateRepo) queryCandidates(ctx context.Context, query string, args ...any) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *candidateRepo) Update(ctx context.Context, id uuid.UUID, p domain.CandidatePatch) (*domain.Candidate, error) {
	query := `UPDATE candidates SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			role = COALESCE($4, role),
			seniority = COALESCE($5, seniority),
			rate = COALESCE($6, rate),
			skills = COALESCE($7, skills),
			languages = COALESCE($8, languages),
			availability = COALESCE($9, availability),
			guardian = COALESCE($10, guardian),
			guardian_email = COALESCE($11, guardian_email),
			cv = COALESCE($12, cv),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + candidateColumns
	c, err := scanCandidate(r.db.QueryRow(ctx, query, id,
		p.FirstName, p.LastName, p.Role, p.Seniority, p.Rate, p.Skills, p.Languages,
		p.Availability, p.Guardian, p.GuardianEmail, p.CV,
	))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *candidateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *candidateRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&n)
	return n, mapError(err)
}

// LastSyncedAt returns the newest sync stamp, or nil when nothing was imported.
func (r *candidateRepo) LastSyncedAt(ctx context.Context) (*time.Time, error) {
	var ts *time.Time
	if err := r.db.QueryRow(ctx, `SELECT MAX(last_synced_at) FROM candidates`).Scan(&ts); err != nil {
		return nil, mapError(err)
	}
	return ts, nil
}
