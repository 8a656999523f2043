package usecase_test

import (
	"context"
	"time"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/email"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func userCtx() context.Context {
	return domain.WithActor(context.Background(), domain.Actor{ID: "user-1", Email: "rec@firma.pl", Role: domain.RoleUser})
}

func adminCtx() context.Context {
	return domain.WithActor(context.Background(), domain.Actor{ID: "admin-1", Email: "admin@boutique.pl", Role: domain.RoleAdmin})
}

// Mock Repositories
type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) Upsert(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCandidateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Candidate, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) List(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Candidate), args.Get(1).(int64), args.Error(2)
}

func (m *MockCandidateRepo) ListAll(ctx context.Context) ([]domain.Candidate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Update(ctx context.Context, id uuid.UUID, patch domain.CandidatePatch) (*domain.Candidate, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCandidateRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCandidateRepo) LastSyncedAt(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, r *domain.ContactRequest) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockContactRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]domain.ContactRequest, error) {
	args := m.Called(ctx, recruiterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContactRequest), args.Error(1)
}

type MockCandidateRegRepo struct {
	mock.Mock
}

func (m *MockCandidateRegRepo) Create(ctx context.Context, r *domain.CandidateRegistration) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockCandidateRegRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CandidateRegistration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateRegistration), args.Error(1)
}

func (m *MockCandidateRegRepo) HasPending(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCandidateRegRepo) List(ctx context.Context, filter domain.RegistrationFilter) ([]domain.CandidateRegistration, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.CandidateRegistration), args.Get(1).(int64), args.Error(2)
}

func (m *MockCandidateRegRepo) Review(ctx context.Context, id uuid.UUID, review domain.Review) (*domain.CandidateRegistration, error) {
	args := m.Called(ctx, id, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateRegistration), args.Error(1)
}

type MockRecruiterRegRepo struct {
	mock.Mock
}

func (m *MockRecruiterRegRepo) Create(ctx context.Context, r *domain.RecruiterRegistration) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecruiterRegRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecruiterRegistration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecruiterRegistration), args.Error(1)
}

func (m *MockRecruiterRegRepo) HasPending(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecruiterRegRepo) List(ctx context.Context, filter domain.RegistrationFilter) ([]domain.RecruiterRegistration, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.RecruiterRegistration), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecruiterRegRepo) Review(ctx context.Context, id uuid.UUID, review domain.Review) (*domain.RecruiterRegistration, error) {
	args := m.Called(ctx, id, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecruiterRegistration), args.Error(1)
}

type MockInvitationRepo struct {
	mock.Mock
}

func (m *MockInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvitationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepo) HasLivePending(ctx context.Context, email string, now time.Time) (bool, error) {
	args := m.Called(ctx, email, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvitationRepo) List(ctx context.Context, filter domain.InvitationFilter) ([]domain.Invitation, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Invitation), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvitationRepo) Consume(ctx context.Context, token string, now time.Time) (*domain.Invitation, error) {
	args := m.Called(ctx, token, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationRepo) Release(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockInvitationRepo) MarkExpired(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockInvitationRepo) ExpireDue(ctx context.Context, email string, now time.Time) (int64, error) {
	args := m.Called(ctx, email, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockResetRepo struct {
	mock.Mock
}

func (m *MockResetRepo) HasLive(ctx context.Context, email string, now time.Time) (bool, error) {
	args := m.Called(ctx, email, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockResetRepo) DeleteUnused(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockResetRepo) Create(ctx context.Context, reset *domain.PasswordReset) error {
	return m.Called(ctx, reset).Error(0)
}

func (m *MockResetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockResetRepo) GetByToken(ctx context.Context, token string) (*domain.PasswordReset, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PasswordReset), args.Error(1)
}

func (m *MockResetRepo) MarkUsed(ctx context.Context, token string, now time.Time) (string, error) {
	args := m.Called(ctx, token, now)
	return args.String(0), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepo) UpdateRole(ctx context.Context, id, role string) (*domain.User, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminStats), args.Error(1)
}

type MockAuthProvider struct {
	mock.Mock
}

func (m *MockAuthProvider) CreateUser(ctx context.Context, email, password string, metadata map[string]any) (string, error) {
	args := m.Called(ctx, email, password, metadata)
	return args.String(0), args.Error(1)
}

func (m *MockAuthProvider) UpdatePassword(ctx context.Context, userID, password string) error {
	return m.Called(ctx, userID, password).Error(0)
}

func (m *MockAuthProvider) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockInvitationUsecase struct {
	mock.Mock
}

func (m *MockInvitationUsecase) CreateInvitation(ctx context.Context, input domain.CreateInvitationInput) (*domain.Invitation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationUsecase) ListInvitations(ctx context.Context, filter domain.InvitationFilter) (domain.Page[domain.Invitation], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.Page[domain.Invitation]), args.Error(1)
}

func (m *MockInvitationUsecase) CancelInvitation(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockInvitationUsecase) ResendInvitation(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockInvitationUsecase) ValidateInvitation(ctx context.Context, token string) (*domain.InvitationInfo, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvitationInfo), args.Error(1)
}

func (m *MockInvitationUsecase) RegisterWithInvitation(ctx context.Context, token string, input domain.AcceptInvitationInput) (*domain.User, error) {
	args := m.Called(ctx, token, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockInvitationUsecase) ExpireInvitations(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockSyncUsecase struct {
	mock.Mock
}

func (m *MockSyncUsecase) Run(ctx context.Context) (*domain.SyncResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncResult), args.Error(1)
}

func (m *MockSyncUsecase) ShouldSync(ctx context.Context, intervalMinutes int) bool {
	return m.Called(ctx, intervalMinutes).Bool(0)
}

func (m *MockSyncUsecase) SyncIfDue(ctx context.Context) (*domain.SyncResult, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.SyncResult), args.Bool(1), args.Error(2)
}

func (m *MockSyncUsecase) Status(ctx context.Context) (*domain.SyncStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncStatus), args.Error(1)
}

// recordingNotifier keeps every message it was asked to send.
type recordingNotifier struct {
	sent []email.Message
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, msg email.Message) error {
	n.sent = append(n.sent, msg)
	return n.err
}

func (n *recordingNotifier) Live() bool { return true }

func (n *recordingNotifier) recipients() []string {
	var to []string
	for _, m := range n.sent {
		to = append(to, m.To...)
	}
	return to
}

type staticSource struct {
	text string
	err  error
}

func (s staticSource) Fetch(context.Context) (string, error) {
	return s.text, s.err
}
