package usecase

import (
	"context"
	"errors"
	"net/url"
	"time"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/apperror"
	"candidate-boutique/pkg/email"
	"candidate-boutique/pkg/logger"
	"candidate-boutique/pkg/supabase"
	"candidate-boutique/pkg/token"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	msgInvitationNotFound = "Invitation not found"
	msgInvitationUsed     = "Invitation has already been used or cancelled"
	msgInvitationExpired  = "Invitation has expired"
	msgInvitationPending  = "An invitation for this email is already pending"
	msgUserExists         = "A user with this email already exists"
)

type invitationUsecase struct {
	invitations domain.InvitationRepository
	users       domain.UserRepository
	auth        domain.AuthProvider
	notifier    email.Notifier
	validate    *validator.Validate
	siteURL     string
}

func NewInvitationUsecase(invitations domain.InvitationRepository, users domain.UserRepository, auth domain.AuthProvider, notifier email.Notifier, validate *validator.Validate, siteURL string) domain.InvitationUsecase {
	return &invitationUsecase{
		invitations: invitations,
		users:       users,
		auth:        auth,
		notifier:    notifier,
		validate:    validate,
		siteURL:     siteURL,
	}
}

func (u *invitationUsecase) CreateInvitation(ctx context.Context, input domain.CreateInvitationInput) (*domain.Invitation, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if input.Role == "" {
		input.Role = domain.RoleUser
	}
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}

	addr := normalizeEmail(input.Email)
	now := time.Now().UTC()

	if _, err := u.users.GetByEmail(ctx, addr); err == nil {
		return nil, apperror.Conflict(msgUserExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	// stale pending rows would otherwise trip the pending-email index
	if _, err := u.invitations.ExpireDue(ctx, addr, now); err != nil {
		logger.Log.Warn("Failed to expire stale invitations", "email", addr, "error", err)
	}
	pending, err := u.invitations.HasLivePending(ctx, addr, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if pending {
		return nil, apperror.Conflict(msgInvitationPending)
	}

	tok, err := token.Generate()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	createdBy := actor.ID
	inv := &domain.Invitation{
		Email:     addr,
		Token:     tok,
		Role:      input.Role,
		CreatedBy: &createdBy,
		ExpiresAt: now.Add(domain.InvitationTTL),
	}
	if err := u.invitations.Create(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict(msgInvitationPending)
		}
		return nil, apperror.Internal(err)
	}

	if err := u.sendInvitation(ctx, inv); err != nil {
		logger.Log.Error("Failed to send invitation email", "invitation_id", inv.ID, "email", inv.Email, "error", err)
	}
	return inv, nil
}

func (u *invitationUsecase) sendInvitation(ctx context.Context, inv *domain.Invitation) error {
	msg, err := email.InvitationMessage(inv.Email, email.InvitationData{
		Email:     inv.Email,
		Link:      u.siteURL + "/register?token=" + url.QueryEscape(inv.Token),
		ExpiresAt: inv.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return u.notifier.Send(ctx, msg)
}

func (u *invitationUsecase) ListInvitations(ctx context.Context, filter domain.InvitationFilter) (domain.Page[domain.Invitation], error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Page[domain.Invitation]{}, err
	}
	filter.Pagination = filter.Pagination.Normalize()
	items, total, err := u.invitations.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.Invitation]{}, apperror.Internal(err)
	}
	return domain.NewPage(items, total, filter.Pagination), nil
}

// CancelInvitation withdraws a pending invitation by expiring it.
func (u *invitationUsecase) CancelInvitation(ctx context.Context, id uuid.UUID) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	if _, err := u.invitations.GetByID(ctx, id); err != nil {
		return invitationError(err)
	}
	if err := u.invitations.MarkExpired(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotPending) {
			return apperror.Conflict("Invitation is no longer pending")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (u *invitationUsecase) ResendInvitation(ctx context.Context, id uuid.UUID) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	inv, err := u.invitations.GetByID(ctx, id)
	if err != nil {
		return invitationError(err)
	}
	if !inv.Usable(time.Now()) {
		return apperror.Conflict("Only pending, unexpired invitations can be resent")
	}
	if err := u.sendInvitation(ctx, inv); err != nil {
		logger.Log.Error("Failed to resend invitation email", "invitation_id", inv.ID, "error", err)
		return apperror.Unavailable("Failed to send invitation email", err)
	}
	return nil
}

func (u *invitationUsecase) ValidateInvitation(ctx context.Context, tok string) (*domain.InvitationInfo, error) {
	inv, err := u.usableInvitation(ctx, tok)
	if err != nil {
		return nil, err
	}
	return &domain.InvitationInfo{Email: inv.Email, Role: inv.Role, ExpiresAt: inv.ExpiresAt}, nil
}

// usableInvitation loads a pending, unexpired invitation. A pending one past
// its deadline is expired on the spot.
func (u *invitationUsecase) usableInvitation(ctx context.Context, tok string) (*domain.Invitation, error) {
	if tok == "" {
		return nil, apperror.NotFound(msgInvitationNotFound)
	}
	inv, err := u.invitations.GetByToken(ctx, tok)
	if err != nil {
		return nil, invitationError(err)
	}
	if inv.Status != domain.StatusPending {
		return nil, apperror.Gone(msgInvitationUsed)
	}
	if !inv.Usable(time.Now()) {
		if err := u.invitations.MarkExpired(ctx, inv.ID); err != nil && !errors.Is(err, domain.ErrNotPending) {
			logger.Log.Warn("Failed to mark invitation expired", "invitation_id", inv.ID, "error", err)
		}
		return nil, apperror.Gone(msgInvitationExpired)
	}
	return inv, nil
}

// RegisterWithInvitation creates the account and consumes the invitation.
// The auth account is removed again if the invitation was consumed by a
// concurrent request in between, or if the user row cannot be written. In
// the latter case the invitation is released so the link works again.
func (u *invitationUsecase) RegisterWithInvitation(ctx context.Context, tok string, input domain.AcceptInvitationInput) (*domain.User, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	if len(input.Password) < domain.MinPasswordLength {
		return nil, apperror.BadRequest("Password must be at least 8 characters")
	}

	inv, err := u.usableInvitation(ctx, tok)
	if err != nil {
		return nil, err
	}

	authID, err := u.auth.CreateUser(ctx, inv.Email, input.Password, map[string]any{
		"full_name": input.FullName,
		"role":      inv.Role,
	})
	if err != nil {
		if errors.Is(err, supabase.ErrUserExists) {
			return nil, apperror.Conflict("An account with this email already exists")
		}
		logger.Log.Error("Failed to create auth user", "email", inv.Email, "error", err)
		return nil, apperror.Unavailable("Failed to create account, please try again later", err)
	}

	consumed, err := u.invitations.Consume(ctx, tok, time.Now().UTC())
	if err != nil {
		if delErr := u.auth.DeleteUser(ctx, authID); delErr != nil {
			logger.Log.Error("Failed to roll back auth user", "auth_id", authID, "error", delErr)
		}
		if errors.Is(err, domain.ErrNotPending) {
			return nil, apperror.Gone(msgInvitationUsed)
		}
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		ID:       authID,
		Email:    consumed.Email,
		FullName: optional(input.FullName),
		Role:     consumed.Role,
	}
	if err := u.users.Create(ctx, user); err != nil {
		logger.Log.Error("Invitation consumed but user row was not created",
			"invitation_id", consumed.ID,
			"auth_id", authID,
			"error", err,
		)
		if delErr := u.auth.DeleteUser(ctx, authID); delErr != nil {
			logger.Log.Error("Failed to roll back auth user", "auth_id", authID, "error", delErr)
		}
		if relErr := u.invitations.Release(ctx, consumed.ID); relErr != nil {
			logger.Log.Error("Failed to release invitation", "invitation_id", consumed.ID, "error", relErr)
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict(msgUserExists)
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// ExpireInvitations expires every pending invitation past its deadline.
func (u *invitationUsecase) ExpireInvitations(ctx context.Context) (int64, error) {
	n, err := u.invitations.ExpireDue(ctx, "", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Log.Info("Expired invitations", "count", n)
	}
	return n, nil
}

func invitationError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(msgInvitationNotFound)
	}
	return apperror.Internal(err)
}
