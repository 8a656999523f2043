package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Candidate struct {
	ID uuid.UUID `json:"id"`
	// SheetRowNumber is nil for candidates created from an approved registration.
	SheetRowNumber *int       `json:"sheet_row_number"`
	Nr             *string    `json:"nr"`
	FirstName      string     `json:"first_name"`
	LastName       *string    `json:"last_name"`
	Role           *string    `json:"role"`
	Seniority      *string    `json:"seniority"`
	Rate           *string    `json:"rate"`
	Skills         *string    `json:"skills"`
	Languages      *string    `json:"languages"`
	Availability   *string    `json:"availability"`
	Guardian       *string    `json:"guardian"`
	GuardianEmail  *string    `json:"guardian_email,omitempty"`
	CV             *string    `json:"cv"`
	LastSyncedAt   *time.Time `json:"last_synced_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (c *Candidate) FullName() string {
	if c.LastName == nil {
		return c.FirstName
	}
	return c.FirstName + " " + *c.LastName
}

type CandidateFilter struct {
	Search       string `form:"search" binding:"max=100"`
	Seniority    string `form:"seniority" binding:"max=50"`
	Availability string `form:"availability" binding:"max=50"`
	Pagination
}

// CandidatePatch carries admin edits; nil fields are left unchanged.
type CandidatePatch struct {
	FirstName     *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName      *string `json:"last_name" binding:"omitempty,max=100"`
	Role          *string `json:"role" binding:"omitempty,max=200"`
	Seniority     *string `json:"seniority" binding:"omitempty,max=50"`
	Rate          *string `json:"rate" binding:"omitempty,max=100"`
	Skills        *string `json:"skills" binding:"omitempty,max=2000"`
	Languages     *string `json:"languages" binding:"omitempty,max=500"`
	Availability  *string `json:"availability" binding:"omitempty,max=100"`
	Guardian      *string `json:"guardian" binding:"omitempty,max=200"`
	GuardianEmail *string `json:"guardian_email" binding:"omitempty,email"`
	CV            *string `json:"cv" binding:"omitempty,max=5000"`
}

func (p CandidatePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Role == nil && p.Seniority == nil &&
		p.Rate == nil && p.Skills == nil && p.Languages == nil && p.Availability == nil &&
		p.Guardian == nil && p.GuardianEmail == nil && p.CV == nil
}

type CandidateRepository interface {
	// Upsert inserts or overwrites the candidate keyed by SheetRowNumber.
	Upsert(ctx context.Context, c *Candidate) error
	Create(ctx context.Context, c *Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*Candidate, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Candidate, error)
	List(ctx context.Context, filter CandidateFilter) ([]Candidate, int64, error)
	ListAll(ctx context.Context) ([]Candidate, error)
	Update(ctx context.Context, id uuid.UUID, patch CandidatePatch) (*Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	LastSyncedAt(ctx context.Context) (*time.Time, error)
}

// Export is a generated file.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type CandidateUsecase interface {
	ListCandidates(ctx context.Context, filter CandidateFilter) (Page[Candidate], error)
	GetCandidate(ctx context.Context, id uuid.UUID) (*Candidate, error)
	RequestContact(ctx context.Context, input ContactRequestInput) (*ContactRequest, error)
	ListMyContactRequests(ctx context.Context) ([]ContactRequest, error)
	UpdateCandidate(ctx context.Context, id uuid.UUID, patch CandidatePatch) (*Candidate, error)
	ExportCandidates(ctx context.Context) (*Export, error)
}
