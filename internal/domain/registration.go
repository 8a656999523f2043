package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CandidateRegistration struct {
	ID              uuid.UUID  `json:"id"`
	FullName        string     `json:"full_name"`
	Email           string     `json:"email"`
	Specialization  string     `json:"specialization"`
	Experience      string     `json:"experience"`
	LinkedInURL     *string    `json:"linkedin_url"`
	Source          *string    `json:"source"`
	Message         *string    `json:"message"`
	CVFilePath      string     `json:"cv_file_path"`
	Status          Status     `json:"status"`
	ReviewedBy      *string    `json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	RejectionReason *string    `json:"rejection_reason"`
	CreatedAt       time.Time  `json:"created_at"`
}

type RecruiterRegistration struct {
	ID              uuid.UUID  `json:"id"`
	FullName        string     `json:"full_name"`
	Email           string     `json:"email"`
	Company         string     `json:"company"`
	CompanyURL      *string    `json:"company_url"`
	Message         *string    `json:"message"`
	Status          Status     `json:"status"`
	ReviewedBy      *string    `json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	RejectionReason *string    `json:"rejection_reason"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CandidateRegistrationForm is the public candidate form. The CV arrives as a
// separate multipart file.
type CandidateRegistrationForm struct {
	FullName       string `form:"full_name" binding:"required,min=3,max=200,valid_name"`
	Email          string `form:"email" binding:"required,email,max=254"`
	Specialization string `form:"specialization" binding:"required,max=200"`
	Experience     string `form:"experience" binding:"required,max=100"`
	LinkedInURL    string `form:"linkedin_url" binding:"omitempty,max=500,linkedin_url"`
	Source         string `form:"source" binding:"omitempty,max=200"`
	Message        string `form:"message" binding:"omitempty,max=2000,no_emoji"`
}

type RecruiterRegistrationForm struct {
	FullName   string `json:"full_name" binding:"required,min=3,max=200,valid_name"`
	Email      string `json:"email" binding:"required,email,max=254"`
	Company    string `json:"company" binding:"required,max=200"`
	CompanyURL string `json:"company_url" binding:"omitempty,url,max=500"`
	Message    string `json:"message" binding:"omitempty,max=2000,no_emoji"`
}

// CVUpload is an uploaded CV file.
type CVUpload struct {
	Filename string
	Data     []byte
}

// Review records who decided a registration.
type Review struct {
	Status     Status
	ReviewedBy string
	ReviewedAt time.Time
	Reason     *string
}

type RejectInput struct {
	Reason string `json:"reason" binding:"omitempty,max=1000"`
}

type RegistrationFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=pending accepted rejected"`
	Pagination
}

type CandidateRegistrationRepository interface {
	Create(ctx context.Context, r *CandidateRegistration) error
	GetByID(ctx context.Context, id uuid.UUID) (*CandidateRegistration, error)
	HasPending(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter RegistrationFilter) ([]CandidateRegistration, int64, error)
	// Review moves a pending registration to a terminal status and returns
	// the updated row, or ErrNotPending if it was already reviewed.
	Review(ctx context.Context, id uuid.UUID, review Review) (*CandidateRegistration, error)
}

type RecruiterRegistrationRepository interface {
	Create(ctx context.Context, r *RecruiterRegistration) error
	GetByID(ctx context.Context, id uuid.UUID) (*RecruiterRegistration, error)
	HasPending(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter RegistrationFilter) ([]RecruiterRegistration, int64, error)
	Review(ctx context.Context, id uuid.UUID, review Review) (*RecruiterRegistration, error)
}

type RegistrationUsecase interface {
	SubmitCandidateRegistration(ctx context.Context, form CandidateRegistrationForm, cv CVUpload) (*CandidateRegistration, error)
	SubmitRecruiterRegistration(ctx context.Context, form RecruiterRegistrationForm) (*RecruiterRegistration, error)
	ListCandidateRegistrations(ctx context.Context, filter RegistrationFilter) (Page[CandidateRegistration], error)
	ListRecruiterRegistrations(ctx context.Context, filter RegistrationFilter) (Page[RecruiterRegistration], error)
	GetCandidateRegistrationCV(ctx context.Context, id uuid.UUID) (string, error)
	ApproveCandidateRegistration(ctx context.Context, id uuid.UUID) (*Candidate, error)
	RejectCandidateRegistration(ctx context.Context, id uuid.UUID, reason string) error
	ApproveRecruiterRegistration(ctx context.Context, id uuid.UUID) (*Invitation, error)
	RejectRecruiterRegistration(ctx context.Context, id uuid.UUID, reason string) error
}
