package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ContactRequest struct {
	ID             uuid.UUID   `json:"id"`
	RecruiterID    string      `json:"recruiter_id"`
	RecruiterEmail string      `json:"recruiter_email"`
	CandidateIDs   []uuid.UUID `json:"candidate_ids"`
	Message        *string     `json:"message"`
	CreatedAt      time.Time   `json:"created_at"`
}

type ContactRequestInput struct {
	CandidateIDs []uuid.UUID `json:"candidate_ids" binding:"required,min=1,max=20"`
	Message      string      `json:"message" binding:"max=2000"`
}

type ContactRequestRepository interface {
	Create(ctx context.Context, r *ContactRequest) error
	ListByRecruiter(ctx context.Context, recruiterID string) ([]ContactRequest, error)
}
