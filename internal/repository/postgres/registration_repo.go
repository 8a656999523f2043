package postgres

import (
	"context"
	"fmt"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/database"

	"github.com/google/uuid"
)

const candidateRegistrationColumns = `id, full_name, email, specialization, experience, linkedin_url, source,
	message, cv_file_path, status, reviewed_by, reviewed_at, rejection_reason, created_at`

type candidateRegistrationRepo struct {
	db database.DB
}

func NewCandidateRegistrationRepository(db database.DB) domain.CandidateRegistrationRepository {
	return &candidateRegistrationRepo{db: db}
}

func scanCandidateRegistration(row scanner) (*domain.CandidateRegistration, error) {
	var r domain.CandidateRegistration
	err := row.Scan(&r.ID, &r.FullName, &r.Email, &r.Specialization, &r.Experience, &r.LinkedInURL,
		&r.Source, &r.Message, &r.CVFilePath, &r.Status, &r.ReviewedBy, &r.ReviewedAt,
		&r.RejectionReason, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *candidateRegistrationRepo) Create(ctx context.Context, reg *domain.CandidateRegistration) error {
	query := `INSERT INTO candidate_registrations
			(full_name, email, specialization, experience, linkedin_url, source, message, cv_file_path, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
		RETURNING id, status, created_at`
	err := r.db.QueryRow(ctx, query, reg.FullName, reg.Email, reg.Specialization, reg.Experience,
		reg.LinkedInURL, reg.Source, reg.Message, reg.CVFilePath,
	).Scan(&reg.ID, &reg.Status, &reg.CreatedAt)
	return mapError(err)
}

func (r *candidateRegistrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CandidateRegistration, error) {
	query := `SELECT ` + candidateRegistrationColumns + ` FROM candidate_registrations WHERE id = $1`
	reg, err := scanCandidateRegistration(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return reg, nil
}

func (r *candidateRegistrationRepo) HasPending(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM candidate_registrations WHERE lower(email) = lower($1) AND status = 'pending')`,
		email).Scan(&exists)
	return exists, mapError(err)
}

func (r *candidateRegistrationRepo) List(ctx context.Context, f domain.RegistrationFilter) ([]domain.CandidateRegistration, int64, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add(`status = ?`, f.Status)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM candidate_registrations`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	limit, args := w.page(f.Pagination)
	rows, err := r.db.Query(ctx, `SELECT `+candidateRegistrationColumns+` FROM candidate_registrations`+
		w.String()+` ORDER BY created_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var out []domain.CandidateRegistration
	for rows.Next() {
		reg, err := scanCandidateRegistration(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan candidate registration: %w", err)
		}
		out = append(out, *reg)
	}
	return out, total, rows.Err()
}

func (r *candidateRegistrationRepo) Review(ctx context.Context, id uuid.UUID, rv domain.Review) (*domain.CandidateRegistration, error) {
	query := `UPDATE candidate_registrations
		SET status = $2, reviewed_by = $3, reviewed_at = $4, rejection_reason = $5
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + candidateRegistrationColumns
	reg, err := scanCandidateRegistration(r.db.QueryRow(ctx, query, id, rv.Status, rv.ReviewedBy, rv.ReviewedAt, rv.Reason))
	if err != nil {
		return nil, mapTransition(err)
	}
	return reg, nil
}

const recruiterRegistrationColumns = `id, full_name, email, company, company_url, message, status,
	reviewed_by, reviewed_at, rejection_reason, created_at`

type recruiterRegistrationRepo struct {
	db database.DB
}

func NewRecruiterRegistrationRepository(db database.DB) domain.RecruiterRegistrationRepository {
	return &recruiterRegistrationRepo{db: db}
}

func scanRecruiterRegistration(row scanner) (*domain.RecruiterRegistration, error) {
	var r domain.RecruiterRegistration
	err := row.Scan(&r.ID, &r.FullName, &r.Email, &r.Company, &r.CompanyURL, &r.Message, &r.Status,
		&r.ReviewedBy, &r.ReviewedAt, &r.RejectionReason, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *recruiterRegistrationRepo) Create(ctx context.Context, reg *domain.RecruiterRegistration) error {
	query := `INSERT INTO recruiter_registrations (full_name, email, company, company_url, message, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING id, status, created_at`
	err := r.db.QueryRow(ctx, query, reg.FullName, reg.Email, reg.Company, reg.CompanyURL, reg.Message).
		Scan(&reg.ID, &reg.Status, &reg.CreatedAt)
	return mapError(err)
}

func (r *recruiterRegistrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecruiterRegistration, error) {
	query := `SELECT ` + recruiterRegistrationColumns + ` FROM recruiter_registrations WHERE id = $1`
	reg, err := scanRecruiterRegistration(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return reg, nil
}

func (r *recruiterRegistrationRepo) HasPending(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM recruiter_registrations WHERE lower(email) = lower($1) AND status = 'pending')`,
		email).Scan(&exists)
	return exists, mapError(err)
}

func (r *recruiterRegistrationRepo) List(ctx context.Context, f domain.RegistrationFilter) ([]domain.RecruiterRegistration, int64, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add(`status = ?`, f.Status)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM recruiter_registrations`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	limit, args := w.page(f.Pagination)
	rows, err := r.db.Query(ctx, `SELECT `+recruiterRegistrationColumns+` FROM recruiter_registrations`+
		w.String()+` ORDER BY created_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var out []domain.RecruiterRegistration
	for rows.Next() {
		reg, err := scanRecruiterRegistration(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan recruiter registration: %w", err)
		}
		out = append(out, *reg)
	}
	return out, total, rows.Err()
}

func (r *recruiterRegistrationRepo) Review(ctx context.Context, id uuid.UUID, rv domain.Review) (*domain.RecruiterRegistration, error) {
	query := `UPDATE recruiter_registrations
		SET status = $2, reviewed_by = $3, reviewed_at = $4, rejection_reason = $5
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + recruiterRegistrationColumns
	reg, err := scanRecruiterRegistration(r.db.QueryRow(ctx, query, id, rv.Status, rv.ReviewedBy, rv.ReviewedAt, rv.Reason))
	if err != nil {
		return nil, mapTransition(err)
	}
	return reg, nil
}
