package postgres

import (
	"context"
	"fmt"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/database"

	"github.com/google/uuid"
)

type contactRequestRepo struct {
	db database.DB
}

func NewContactRequestRepository(db database.DB) domain.ContactRequestRepository {
	return &contactRequestRepo{db: db}
}

func (r *contactRequestRepo) Create(ctx context.Context, cr *domain.ContactRequest) error {
	ids := make([]string, len(cr.CandidateIDs))
	for i, id := range cr.CandidateIDs {
		ids[i] = id.String()
	}
	query := `INSERT INTO contact_requests (recruiter_id, recruiter_email, candidate_ids, message)
		VALUES ($1, $2, $3::uuid[], $4)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, cr.RecruiterID, cr.RecruiterEmail, ids, cr.Message).
		Scan(&cr.ID, &cr.CreatedAt)
	return mapError(err)
}

func (r *contactRequestRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]domain.ContactRequest, error) {
	query := `SELECT id, recruiter_id, recruiter_email, candidate_ids::text[], message, created_at
		FROM contact_requests WHERE recruiter_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, recruiterID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := []domain.ContactRequest{}
	for rows.Next() {
		var cr domain.ContactRequest
		var ids []string
		if err := rows.Scan(&cr.ID, &cr.RecruiterID, &cr.RecruiterEmail, &ids, &cr.Message, &cr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact request: %w", err)
		}
		for _, raw := range ids {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("contact request %s: %w", cr.ID, err)
			}
			cr.CandidateIDs = append(cr.CandidateIDs, id)
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}
