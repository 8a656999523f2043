package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Invitation struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"-"`
	Role      string    `json:"role"`
	Status    Status    `json:"status"`
	CreatedBy *string   `json:"created_by"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Usable reports whether the invitation can still create an account.
func (i *Invitation) Usable(now time.Time) bool {
	return i.Status == StatusPending && now.Before(i.ExpiresAt)
}

type CreateInvitationInput struct {
	Email string `json:"email" binding:"required,email,max=254"`
	Role  string `json:"role" binding:"omitempty,oneof=user admin"`
}

type AcceptInvitationInput struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"omitempty,max=200,valid_name"`
}

// InvitationInfo is what an invitee sees before registering.
type InvitationInfo struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type InvitationFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=pending accepted expired"`
	Pagination
}

type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invitation, error)
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	// HasLivePending reports a pending invitation for email that has not expired.
	HasLivePending(ctx context.Context, email string, now time.Time) (bool, error)
	List(ctx context.Context, filter InvitationFilter) ([]Invitation, int64, error)
	// Consume atomically moves a usable invitation to accepted.
	Consume(ctx context.Context, token string, now time.Time) (*Invitation, error)
	// Release puts a consumed invitation back to pending.
	Release(ctx context.Context, id uuid.UUID) error
	MarkExpired(ctx context.Context, id uuid.UUID) error
	// ExpireDue expires pending invitations past their deadline. An empty
	// email expires all of them.
	ExpireDue(ctx context.Context, email string, now time.Time) (int64, error)
}

type InvitationUsecase interface {
	CreateInvitation(ctx context.Context, input CreateInvitationInput) (*Invitation, error)
	ListInvitations(ctx context.Context, filter InvitationFilter) (Page[Invitation], error)
	CancelInvitation(ctx context.Context, id uuid.UUID) error
	ResendInvitation(ctx context.Context, id uuid.UUID) error
	ValidateInvitation(ctx context.Context, token string) (*InvitationInfo, error)
	RegisterWithInvitation(ctx context.Context, token string, input AcceptInvitationInput) (*User, error)
	ExpireInvitations(ctx context.Context) (int64, error)
}
