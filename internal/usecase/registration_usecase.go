package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/apperror"
	"candidate-boutique/pkg/email"
	"candidate-boutique/pkg/logger"
	"candidate-boutique/pkg/security"
	"candidate-boutique/pkg/sheet"
	"candidate-boutique/pkg/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	msgRegistrationPending  = "A registration for this email is already pending"
	msgRegistrationReviewed = "Registration has already been reviewed"
	msgRegistrationNotFound = "Registration not found"
	msgAcceptedNotInvited   = "Registration accepted, but no invitation was sent: "
)

type RegistrationConfig struct {
	AdminEmail string
	CVMaxBytes int
}

type registrationUsecase struct {
	candidateRegs domain.CandidateRegistrationRepository
	recruiterRegs domain.RecruiterRegistrationRepository
	candidates    domain.CandidateRepository
	invitations   domain.InvitationUsecase
	store         storage.ObjectStore
	notifier      email.Notifier
	validate      *validator.Validate
	cfg           RegistrationConfig
}

func NewRegistrationUsecase(
	candidateRegs domain.CandidateRegistrationRepository,
	recruiterRegs domain.RecruiterRegistrationRepository,
	candidates domain.CandidateRepository,
	invitations domain.InvitationUsecase,
	store storage.ObjectStore,
	notifier email.Notifier,
	validate *validator.Validate,
	cfg RegistrationConfig,
) domain.RegistrationUsecase {
	return &registrationUsecase{
		candidateRegs: candidateRegs,
		recruiterRegs: recruiterRegs,
		candidates:    candidates,
		invitations:   invitations,
		store:         store,
		notifier:      notifier,
		validate:      validate,
		cfg:           cfg,
	}
}

func (u *registrationUsecase) SubmitCandidateRegistration(ctx context.Context, form domain.CandidateRegistrationForm, cv domain.CVUpload) (*domain.CandidateRegistration, error) {
	if err := validateInput(u.validate, form); err != nil {
		return nil, err
	}
	if res := security.ValidateCVFile(cv.Filename, cv.Data, u.cfg.CVMaxBytes); !res.Valid {
		return nil, apperror.BadRequest("Invalid CV file: " + res.Error)
	}

	addr := normalizeEmail(form.Email)
	pending, err := u.candidateRegs.HasPending(ctx, addr)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if pending {
		return nil, apperror.Conflict(msgRegistrationPending)
	}

	key := fmt.Sprintf("registrations/%s.pdf", uuid.New())
	if err := u.store.Put(ctx, key, cv.Data, security.PDFMIME); err != nil {
		logger.Log.Error("Failed to upload CV", "email", addr, "error", err)
		return nil, apperror.Unavailable("Failed to upload CV, please try again later", err)
	}

	reg := &domain.CandidateRegistration{
		FullName:       form.FullName,
		Email:          addr,
		Specialization: form.Specialization,
		Experience:     form.Experience,
		LinkedInURL:    optional(form.LinkedInURL),
		Source:         optional(form.Source),
		Message:        optional(form.Message),
		CVFilePath:     key,
	}
	if err := u.candidateRegs.Create(ctx, reg); err != nil {
		if delErr := u.store.Delete(ctx, key); delErr != nil {
			logger.Log.Error("Failed to remove orphaned CV", "key", key, "error", delErr)
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict(msgRegistrationPending)
		}
		return nil, apperror.Internal(err)
	}

	msg, err := email.CandidateRegistrationMessage(u.cfg.AdminEmail, email.CandidateRegistrationData{
		FullName:       reg.FullName,
		Email:          reg.Email,
		Specialization: reg.Specialization,
		Experience:     reg.Experience,
		LinkedInURL:    deref(reg.LinkedInURL),
		Source:         deref(reg.Source),
		Message:        deref(reg.Message),
	})
	u.send(ctx, msg, err, "registration_id", reg.ID)

	return reg, nil
}

func (u *registrationUsecase) SubmitRecruiterRegistration(ctx context.Context, form domain.RecruiterRegistrationForm) (*domain.RecruiterRegistration, error) {
	if err := validateInput(u.validate, form); err != nil {
		return nil, err
	}

	addr := normalizeEmail(form.Email)
	pending, err := u.recruiterRegs.HasPending(ctx, addr)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if pending {
		return nil, apperror.Conflict(msgRegistrationPending)
	}

	reg := &domain.RecruiterRegistration{
		FullName:   form.FullName,
		Email:      addr,
		Company:    form.Company,
		CompanyURL: optional(form.CompanyURL),
		Message:    optional(form.Message),
	}
	if err := u.recruiterRegs.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict(msgRegistrationPending)
		}
		return nil, apperror.Internal(err)
	}

	msg, err := email.RecruiterRegistrationMessage(u.cfg.AdminEmail, email.RecruiterRegistrationData{
		FullName:   reg.FullName,
		Email:      reg.Email,
		Company:    reg.Company,
		CompanyURL: deref(reg.CompanyURL),
		Message:    deref(reg.Message),
	})
	u.send(ctx, msg, err, "registration_id", reg.ID)

	return reg, nil
}

func (u *registrationUsecase) ListCandidateRegistrations(ctx context.Context, filter domain.RegistrationFilter) (domain.Page[domain.CandidateRegistration], error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Page[domain.CandidateRegistration]{}, err
	}
	filter.Pagination = filter.Pagination.Normalize()
	items, total, err := u.candidateRegs.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.CandidateRegistration]{}, apperror.Internal(err)
	}
	return domain.NewPage(items, total, filter.Pagination), nil
}

func (u *registrationUsecase) ListRecruiterRegistrations(ctx context.Context, filter domain.RegistrationFilter) (domain.Page[domain.RecruiterRegistration], error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Page[domain.RecruiterRegistration]{}, err
	}
	filter.Pagination = filter.Pagination.Normalize()
	items, total, err := u.recruiterRegs.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.RecruiterRegistration]{}, apperror.Internal(err)
	}
	return domain.NewPage(items, total, filter.Pagination), nil
}

// GetCandidateRegistrationCV returns a short-lived download link for the CV.
func (u *registrationUsecase) GetCandidateRegistrationCV(ctx context.Context, id uuid.UUID) (string, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return "", err
	}
	reg, err := u.candidateRegs.GetByID(ctx, id)
	if err != nil {
		return "", registrationError(err)
	}
	url, err := u.store.PresignGet(ctx, reg.CVFilePath, domain.CVDownloadTTL)
	if err != nil {
		logger.Log.Error("Failed to presign CV download", "registration_id", id, "error", err)
		return "", apperror.Unavailable("CV is temporarily unavailable", err)
	}
	return url, nil
}

func (u *registrationUsecase) ApproveCandidateRegistration(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := u.candidateRegs.GetByID(ctx, id)
	if err != nil {
		return nil, registrationError(err)
	}
	if reg.Status != domain.StatusPending {
		return nil, apperror.Conflict(msgRegistrationReviewed)
	}

	first, last := sheet.SplitName(reg.FullName)
	cvPath := reg.CVFilePath
	candidate := &domain.Candidate{
		FirstName: first,
		LastName:  last,
		Role:      optional(reg.Specialization),
		Seniority: optional(reg.Experience),
		CV:        &cvPath,
	}
	if err := u.candidates.Create(ctx, candidate); err != nil {
		return nil, apperror.Internal(err)
	}

	if _, err := u.candidateRegs.Review(ctx, id, domain.Review{
		Status:     domain.StatusAccepted,
		ReviewedBy: actor.ID,
		ReviewedAt: time.Now().UTC(),
	}); err != nil {
		// another reviewer won; drop the candidate created above
		if delErr := u.candidates.Delete(ctx, candidate.ID); delErr != nil {
			logger.Log.Error("Failed to remove candidate after lost review", "candidate_id", candidate.ID, "error", delErr)
		}
		return nil, registrationError(err)
	}

	msg, err := email.RegistrationAcceptedMessage(reg.Email, email.RegistrationDecisionData{FullName: reg.FullName})
	u.send(ctx, msg, err, "registration_id", id)

	return candidate, nil
}

func (u *registrationUsecase) RejectCandidateRegistration(ctx context.Context, id uuid.UUID, reason string) error {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return err
	}
	reg, err := u.candidateRegs.GetByID(ctx, id)
	if err != nil {
		return registrationError(err)
	}
	if _, err := u.candidateRegs.Review(ctx, id, rejection(actor, reason)); err != nil {
		return registrationError(err)
	}

	msg, err := email.RegistrationRejectedMessage(reg.Email, email.RegistrationDecisionData{FullName: reg.FullName, Reason: reason})
	u.send(ctx, msg, err, "registration_id", id)
	return nil
}

// ApproveRecruiterRegistration accepts the company and invites it. The
// registration stays accepted even when the invitation email fails.
func (u *registrationUsecase) ApproveRecruiterRegistration(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := u.recruiterRegs.GetByID(ctx, id)
	if err != nil {
		return nil, registrationError(err)
	}
	if reg.Status != domain.StatusPending {
		return nil, apperror.Conflict(msgRegistrationReviewed)
	}

	if _, err := u.recruiterRegs.Review(ctx, id, domain.Review{
		Status:     domain.StatusAccepted,
		ReviewedBy: actor.ID,
		ReviewedAt: time.Now().UTC(),
	}); err != nil {
		return nil, registrationError(err)
	}

	inv, err := u.invitations.CreateInvitation(ctx, domain.CreateInvitationInput{Email: reg.Email, Role: domain.RoleUser})
	if err != nil {
		logger.Log.Error("Recruiter accepted but invitation was not created", "registration_id", id, "error", err)
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, apperror.New(appErr.Code, msgAcceptedNotInvited+appErr.Message, appErr.Err)
		}
		return nil, apperror.Internal(err)
	}
	return inv, nil
}

func (u *registrationUsecase) RejectRecruiterRegistration(ctx context.Context, id uuid.UUID, reason string) error {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return err
	}
	reg, err := u.recruiterRegs.GetByID(ctx, id)
	if err != nil {
		return registrationError(err)
	}
	if _, err := u.recruiterRegs.Review(ctx, id, rejection(actor, reason)); err != nil {
		return registrationError(err)
	}

	msg, err := email.RegistrationRejectedMessage(reg.Email, email.RegistrationDecisionData{FullName: reg.FullName, Reason: reason})
	u.send(ctx, msg, err, "registration_id", id)
	return nil
}

// send delivers a notification whose failure must not fail the caller.
func (u *registrationUsecase) send(ctx context.Context, msg email.Message, buildErr error, attrs ...any) {
	err := buildErr
	if err == nil {
		err = u.notifier.Send(ctx, msg)
	}
	if err != nil {
		logger.Log.Error("Failed to send registration email", append(attrs, "subject", msg.Subject, "error", err)...)
	}
}

func rejection(actor domain.Actor, reason string) domain.Review {
	return domain.Review{
		Status:     domain.StatusRejected,
		ReviewedBy: actor.ID,
		ReviewedAt: time.Now().UTC(),
		Reason:     optional(reason),
	}
}

func registrationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound(msgRegistrationNotFound)
	case errors.Is(err, domain.ErrNotPending):
		return apperror.Conflict(msgRegistrationReviewed)
	}
	return apperror.Internal(err)
}
