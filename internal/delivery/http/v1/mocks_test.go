package v1_test

import (
	"context"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type stubAuthUC struct {
	users map[string]domain.User
}

func (s stubAuthUC) LoadActor(_ context.Context, userID, _ string) (domain.Actor, error) {
	u, ok := s.users[userID]
	if !ok {
		return domain.Actor{}, apperror.Unauthorized("User not found")
	}
	return domain.Actor{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (s stubAuthUC) GetCurrentUser(context.Context) (*domain.User, error) { return nil, nil }
func (s stubAuthUC) CheckEmail(context.Context, string) error             { return nil }

type stubHealth struct {
	status  map[string]string
	healthy bool
}

func (s *stubHealth) Check(context.Context) (map[string]string, bool) {
	return s.status, s.healthy
}

type MockSyncUC struct{ mock.Mock }

func (m *MockSyncUC) Run(ctx context.Context) (*domain.SyncResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncResult), args.Error(1)
}

func (m *MockSyncUC) ShouldSync(ctx context.Context, intervalMinutes int) bool {
	return m.Called(ctx, intervalMinutes).Bool(0)
}

func (m *MockSyncUC) SyncIfDue(ctx context.Context) (*domain.SyncResult, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.SyncResult), args.Bool(1), args.Error(2)
}

func (m *MockSyncUC) Status(ctx context.Context) (*domain.SyncStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncStatus), args.Error(1)
}

type MockCandidateUC struct{ mock.Mock }

func (m *MockCandidateUC) ListCandidates(ctx context.Context, filter domain.CandidateFilter) (domain.Page[domain.Candidate], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.Page[domain.Candidate]), args.Error(1)
}

func (m *MockCandidateUC) GetCandidate(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateUC) RequestContact(ctx context.Context, input domain.ContactRequestInput) (*domain.ContactRequest, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactRequest), args.Error(1)
}

func (m *MockCandidateUC) ListMyContactRequests(ctx context.Context) ([]domain.ContactRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ContactRequest), args.Error(1)
}

func (m *MockCandidateUC) UpdateCandidate(ctx context.Context, id uuid.UUID, patch domain.CandidatePatch) (*domain.Candidate, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateUC) ExportCandidates(ctx context.Context) (*domain.Export, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Export), args.Error(1)
}

type MockRegistrationUC struct{ mock.Mock }

func (m *MockRegistrationUC) SubmitCandidateRegistration(ctx context.Context, form domain.CandidateRegistrationForm, cv domain.CVUpload) (*domain.CandidateRegistration, error) {
	args := m.Called(ctx, form, cv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateRegistration), args.Error(1)
}

func (m *MockRegistrationUC) SubmitRecruiterRegistration(ctx context.Context, form domain.RecruiterRegistrationForm) (*domain.RecruiterRegistration, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecruiterRegistration), args.Error(1)
}

func (m *MockRegistrationUC) ListCandidateRegistrations(ctx context.Context, filter domain.RegistrationFilter) (domain.Page[domain.CandidateRegistration], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.Page[domain.CandidateRegistration]), args.Error(1)
}

func (m *MockRegistrationUC) ListRecruiterRegistrations(ctx context.Context, filter domain.RegistrationFilter) (domain.Page[domain.RecruiterRegistration], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.Page[domain.RecruiterRegistration]), args.Error(1)
}

func (m *MockRegistrationUC) GetCandidateRegistrationCV(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockRegistrationUC) ApproveCandidateRegistration(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockRegistrationUC) RejectCandidateRegistration(ctx context.Context, id uuid.UUID, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *MockRegistrationUC) ApproveRecruiterRegistration(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockRegistrationUC) RejectRecruiterRegistration(ctx context.Context, id uuid.UUID, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

type MockPasswordResetUC struct{ mock.Mock }

func (m *MockPasswordResetUC) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockPasswordResetUC) ValidateResetToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockPasswordResetUC) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}
