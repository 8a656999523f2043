package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AdminStats contains dashboard statistics
type AdminStats struct {
	Candidates                    int64      `json:"candidates"`
	PendingCandidateRegistrations int64      `json:"pending_candidate_registrations"`
	PendingRecruiterRegistrations int64      `json:"pending_recruiter_registrations"`
	PendingInvitations            int64      `json:"pending_invitations"`
	Users                         int64      `json:"users"`
	ContactRequests               int64      `json:"contact_requests"`
	LastSyncAt                    *time.Time `json:"last_sync_at"`
}

type AdminRepository interface {
	GetStats(ctx context.Context) (*AdminStats, error)
}

type AdminUsecase interface {
	GetStats(ctx context.Context) (*AdminStats, error)
	ListUsers(ctx context.Context, filter UserFilter) (Page[User], error)
	UpdateUserRole(ctx context.Context, id, role string) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ParseID parses a path id, returning ErrNotFound for malformed values.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrNotFound
	}
	return id, nil
}
