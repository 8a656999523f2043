package postgres

import (
	"context"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/database"
)

type adminRepo struct {
	db database.DB
}

func NewAdminRepository(db database.DB) domain.AdminRepository {
	return &adminRepo{db: db}
}

// GetStats fetches dashboard statistics
func (r *adminRepo) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	query := `SELECT
		(SELECT COUNT(*) FROM candidates),
		(SELECT COUNT(*) FROM candidate_registrations WHERE status = 'pending'),
		(SELECT COUNT(*) FROM recruiter_registrations WHERE status = 'pending'),
		(SELECT COUNT(*) FROM invitations WHERE status = 'pending' AND expires_at > NOW()),
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM contact_requests),
		(SELECT MAX(last_synced_at) FROM candidates)`
	var s domain.AdminStats
	err := r.db.QueryRow(ctx, query).Scan(
		&s.Candidates,
		&s.PendingCandidateRegistrations,
		&s.PendingRecruiterRegistrations,
		&s.PendingInvitations,
		&s.Users,
		&s.ContactRequests,
		&s.LastSyncAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}
