package usecase_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"candidate-boutique/internal/domain"
	"candidate-boutique/internal/usecase"
	"candidate-boutique/pkg/apperror"
	"candidate-boutique/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")

type registrationFixture struct {
	candidateRegs *MockCandidateRegRepo
	recruiterRegs *MockRecruiterRegRepo
	candidates    *MockCandidateRepo
	invitations   *MockInvitationUsecase
	store         *storage.MemoryStore
	notifier      *recordingNotifier
	uc            domain.RegistrationUsecase
}

func newRegistrationFixture() *registrationFixture {
	f := &registrationFixture{
		candidateRegs: new(MockCandidateRegRepo),
		recruiterRegs: new(MockRecruiterRegRepo),
		candidates:    new(MockCandidateRepo),
		invitations:   new(MockInvitationUsecase),
		store:         storage.NewMemoryStore("http://files.local"),
		notifier:      &recordingNotifier{},
	}
	f.uc = usecase.NewRegistrationUsecase(f.candidateRegs, f.recruiterRegs, f.candidates, f.invitations,
		f.store, f.notifier, usecase.NewValidator(),
		usecase.RegistrationConfig{AdminEmail: "kontakt@boutique.pl", CVMaxBytes: 1 << 20})
	return f
}

func validCandidateForm() domain.CandidateRegistrationForm {
	return domain.CandidateRegistrationForm{
		FullName:       "Anna Maria Nowak",
		Email:          " Anna@Example.com ",
		Specialization: "Go Developer",
		Experience:     "Senior",
	}
}

func appCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestSubmitCandidateRegistration(t *testing.T) {
	t.Run("Should store CV, persist and notify admin", func(t *testing.T) {
		f := newRegistrationFixture()
		f.candidateRegs.On("HasPending", mock.Anything, "anna@example.com").Return(false, nil)
		f.candidateRegs.On("Create", mock.Anything, mock.AnythingOfType("*domain.CandidateRegistration")).Return(nil)

		reg, err := f.uc.SubmitCandidateRegistration(adminCtx(), validCandidateForm(), domain.CVUpload{Filename: "cv.pdf", Data: samplePDF})

		require.NoError(t, err)
		assert.Equal(t, "anna@example.com", reg.Email)
		assert.True(t, strings.HasPrefix(reg.CVFilePath, "registrations/"))
		assert.True(t, f.store.Has(reg.CVFilePath))
		assert.Equal(t, []string{"kontakt@boutique.pl"}, f.notifier.recipients())
	})

	t.Run("Should reject a second pending registration", func(t *testing.T) {
		f := newRegistrationFixture()
		f.candidateRegs.On("HasPending", mock.Anything, "anna@example.com").Return(true, nil)

		_, err := f.uc.SubmitCandidateRegistration(adminCtx(), validCandidateForm(), domain.CVUpload{Filename: "cv.pdf", Data: samplePDF})

		assert.Equal(t, http.StatusConflict, appCode(t, err))
		f.candidateRegs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should remove the CV when the insert loses the race", func(t *testing.T) {
		f := newRegistrationFixture()
		var key string
		f.candidateRegs.On("HasPending", mock.Anything, "anna@example.com").Return(false, nil)
		f.candidateRegs.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			key = args.Get(1).(*domain.CandidateRegistration).CVFilePath
		}).Return(domain.ErrDuplicate)

		_, err := f.uc.SubmitCandidateRegistration(adminCtx(), validCandidateForm(), domain.CVUpload{Filename: "cv.pdf", Data: samplePDF})

		assert.Equal(t, http.StatusConflict, appCode(t, err))
		require.NotEmpty(t, key)
		assert.False(t, f.store.Has(key))
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("Should reject a file that is not a PDF", func(t *testing.T) {
		f := newRegistrationFixture()

		_, err := f.uc.SubmitCandidateRegistration(adminCtx(), validCandidateForm(), domain.CVUpload{Filename: "cv.pdf", Data: []byte("MZ\x90\x00 not a pdf")})

		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
		f.candidateRegs.AssertNotCalled(t, "HasPending", mock.Anything, mock.Anything)
	})

	t.Run("Should reject an invalid form", func(t *testing.T) {
		f := newRegistrationFixture()
		form := validCandidateForm()
		form.Email = "not-an-email"

		_, err := f.uc.SubmitCandidateRegistration(adminCtx(), form, domain.CVUpload{Filename: "cv.pdf", Data: samplePDF})

		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("Should succeed even when the admin email fails", func(t *testing.T) {
		f := newRegistrationFixture()
		f.notifier.err = errors.New("smtp down")
		f.candidateRegs.On("HasPending", mock.Anything, mock.Anything).Return(false, nil)
		f.candidateRegs.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := f.uc.SubmitCandidateRegistration(adminCtx(), validCandidateForm(), domain.CVUpload{Filename: "cv.pdf", Data: samplePDF})

		assert.NoError(t, err)
	})
}

func TestSubmitRecruiterRegistration(t *testing.T) {
	form := domain.RecruiterRegistrationForm{FullName: "Jan Kowalski", Email: "jan@firma.pl", Company: "Firma"}

	t.Run("Should persist and notify admin", func(t *testing.T) {
		f := newRegistrationFixture()
		f.recruiterRegs.On("HasPending", mock.Anything, "jan@firma.pl").Return(false, nil)
		f.recruiterRegs.On("Create", mock.Anything, mock.Anything).Return(nil)

		reg, err := f.uc.SubmitRecruiterRegistration(adminCtx(), form)

		require.NoError(t, err)
		assert.Equal(t, "Firma", reg.Company)
		assert.Nil(t, reg.CompanyURL)
		assert.Len(t, f.notifier.sent, 1)
	})

	t.Run("Should reject a second pending registration", func(t *testing.T) {
		f := newRegistrationFixture()
		f.recruiterRegs.On("HasPending", mock.Anything, "jan@firma.pl").Return(true, nil)

		_, err := f.uc.SubmitRecruiterRegistration(adminCtx(), form)

		assert.Equal(t, http.StatusConflict, appCode(t, err))
	})
}

func TestReviewCandidateRegistration(t *testing.T) {
	id := uuid.New()
	pending := func() *domain.CandidateRegistration {
		return &domain.CandidateRegistration{
			ID:             id,
			FullName:       "Anna Maria Nowak",
			Email:          "anna@example.com",
			Specialization: "Go Developer",
			Experience:     "Senior",
			CVFilePath:     "registrations/x.pdf",
			Status:         domain.StatusPending,
		}
	}
	accepted := mock.MatchedBy(func(r domain.Review) bool {
		return r.Status == domain.StatusAccepted && r.ReviewedBy == "admin-1"
	})

	t.Run("Should deny non-admin callers", func(t *testing.T) {
		f := newRegistrationFixture()

		_, err := f.uc.ApproveCandidateRegistration(userCtx(), id)

		assert.Equal(t, http.StatusForbidden, appCode(t, err))
		f.candidateRegs.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Should create the candidate and mark accepted", func(t *testing.T) {
		f := newRegistrationFixture()
		f.candidateRegs.On("GetByID", mock.Anything, id).Return(pending(), nil)
		f.candidates.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Candidate) bool {
			return c.FirstName == "Anna" && *c.LastName == "Maria Nowak" && *c.Role == "Go Developer" &&
				c.SheetRowNumber == nil && *c.CV == "registrations/x.pdf"
		})).Return(nil)
		f.candidateRegs.On("Review", mock.Anything, id, accepted).Return(pending(), nil)

		c, err := f.uc.ApproveCandidateRegistration(adminCtx(), id)

		require.NoError(t, err)
		assert.Equal(t, "Anna Maria Nowak", c.FullName())
		assert.Equal(t, []string{"anna@example.com"}, f.notifier.recipients())
	})

	t.Run("Should undo the candidate when another reviewer won", func(t *testing.T) {
		f := newRegistrationFixture()
		f.candidateRegs.On("GetByID", mock.Anything, id).Return(pending(), nil)
		f.candidates.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.candidateRegs.On("Review", mock.Anything, id, accepted).Return(nil, domain.ErrNotPending)
		f.candidates.On("Delete", mock.Anything, mock.Anything).Return(nil)

		_, err := f.uc.ApproveCandidateRegistration(adminCtx(), id)

		assert.Equal(t, http.StatusConflict, appCode(t, err))
		f.candidates.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("Should refuse to approve twice", func(t *testing.T) {
		f := newRegistrationFixture()
		reg := pending()
		reg.Status = domain.StatusAccepted
		f.candidateRegs.On("GetByID", mock.Anything, id).Return(reg, nil)

		_, err := f.uc.ApproveCandidateRegistration(adminCtx(), id)

		assert.Equal(t, http.StatusConflict, appCode(t, err))
		f.candidates.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should return 404 for unknown registration", func(t *testing.T) {
		f := newRegistrationFixture()
		f.candidateRegs.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

		err := f.uc.RejectCandidateRegistration(adminCtx(), id, "")

		assert.Equal(t, http.StatusNotFound, appCode(t, err))
	})

	t.Run("Should reject with reason and notify", func(t *testing.T) {
		f := newRegistrationFixture()
		f.candidateRegs.On("GetByID", mock.Anything, id).Return(pending(), nil)
		f.candidateRegs.On("Review", mock.Anything, id, mock.MatchedBy(func(r domain.Review) bool {
			return r.Status == domain.StatusRejected && r.Reason != nil && *r.Reason == "Brak doświadczenia"
		})).Return(pending(), nil)

		err := f.uc.RejectCandidateRegistration(adminCtx(), id, "Brak doświadczenia")

		require.NoError(t, err)
		require.Len(t, f.notifier.sent, 1)
		assert.Contains(t, f.notifier.sent[0].HTML, "Brak doświadczenia")
	})

	t.Run("Should presign the CV for admins", func(t *testing.T) {
		f := newRegistrationFixture()
		require.NoError(t, f.store.Put(adminCtx(), "registrations/x.pdf", samplePDF, "application/pdf"))
		f.candidateRegs.On("GetByID", mock.Anything, id).Return(pending(), nil)

		url, err := f.uc.GetCandidateRegistrationCV(adminCtx(), id)

		require.NoError(t, err)
		assert.Equal(t, "http://files.local/registrations/x.pdf?expires=900", url)
	})

	t.Run("Should return 503 when the CV cannot be presigned", func(t *testing.T) {
		f := newRegistrationFixture()
		f.candidateRegs.On("GetByID", mock.Anything, id).Return(pending(), nil)

		_, err := f.uc.GetCandidateRegistrationCV(adminCtx(), id)

		assert.Equal(t, http.StatusServiceUnavailable, appCode(t, err))
	})
}

func TestApproveRecruiterRegistration(t *testing.T) {
	id := uuid.New()
	reg := &domain.RecruiterRegistration{ID: id, FullName: "Jan Kowalski", Email: "jan@firma.pl", Company: "Firma", Status: domain.StatusPending}

	t.Run("Should accept and send an invitation valid for seven days", func(t *testing.T) {
		regs := new(MockRecruiterRegRepo)
		invRepo := new(MockInvitationRepo)
		users := new(MockUserRepo)
		notifier := &recordingNotifier{}
		invitations := usecase.NewInvitationUsecase(invRepo, users, new(MockAuthProvider), notifier, usecase.NewValidator(), "https://boutique.pl")
		uc := usecase.NewRegistrationUsecase(new(MockCandidateRegRepo), regs, new(MockCandidateRepo), invitations,
			storage.NewMemoryStore(""), notifier, usecase.NewValidator(), usecase.RegistrationConfig{})

		regs.On("GetByID", mock.Anything, id).Return(reg, nil)
		regs.On("Review", mock.Anything, id, mock.Anything).Return(reg, nil)
		users.On("GetByEmail", mock.Anything, "jan@firma.pl").Return(nil, domain.ErrNotFound)
		invRepo.On("ExpireDue", mock.Anything, "jan@firma.pl", mock.Anything).Return(int64(0), nil)
		invRepo.On("HasLivePending", mock.Anything, "jan@firma.pl", mock.Anything).Return(false, nil)
		invRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		inv, err := uc.ApproveRecruiterRegistration(adminCtx(), id)

		require.NoError(t, err)
		assert.Equal(t, "jan@firma.pl", inv.Email)
		assert.Equal(t, domain.RoleUser, inv.Role)
		assert.Len(t, inv.Token, 64)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), inv.ExpiresAt, time.Minute)
		require.Len(t, notifier.sent, 1)
		assert.Equal(t, []string{"jan@firma.pl"}, notifier.sent[0].To)
		assert.Contains(t, notifier.sent[0].HTML, "https://boutique.pl/register?token="+inv.Token)
	})

	t.Run("Should not invite when the review loses the race", func(t *testing.T) {
		f := newRegistrationFixture()
		f.recruiterRegs.On("GetByID", mock.Anything, id).Return(reg, nil)
		f.recruiterRegs.On("Review", mock.Anything, id, mock.Anything).Return(nil, domain.ErrNotPending)

		_, err := f.uc.ApproveRecruiterRegistration(adminCtx(), id)

		assert.Equal(t, http.StatusConflict, appCode(t, err))
		f.invitations.AssertNotCalled(t, "CreateInvitation", mock.Anything, mock.Anything)
	})

	t.Run("Should say the registration was accepted when the invitation is refused", func(t *testing.T) {
		f := newRegistrationFixture()
		f.recruiterRegs.On("GetByID", mock.Anything, id).Return(reg, nil)
		f.recruiterRegs.On("Review", mock.Anything, id, mock.Anything).Return(reg, nil)
		f.invitations.On("CreateInvitation", mock.Anything, mock.Anything).
			Return(nil, apperror.Conflict("User with this email already exists"))

		_, err := f.uc.ApproveRecruiterRegistration(adminCtx(), id)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusConflict, appErr.Code)
		assert.Equal(t, "Registration accepted, but no invitation was sent: User with this email already exists", appErr.Message)
	})
}
