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
	"candidate-boutique/pkg/token"
)

const msgResetInvalid = "Reset link is invalid or has expired"

type passwordResetUsecase struct {
	resets   domain.PasswordResetRepository
	users    domain.UserRepository
	auth     domain.AuthProvider
	notifier email.Notifier
	siteURL  string
}

func NewPasswordResetUsecase(resets domain.PasswordResetRepository, users domain.UserRepository, auth domain.AuthProvider, notifier email.Notifier, siteURL string) domain.PasswordResetUsecase {
	return &passwordResetUsecase{
		resets:   resets,
		users:    users,
		auth:     auth,
		notifier: notifier,
		siteURL:  siteURL,
	}
}

// RequestPasswordReset never reports whether the account exists. Every
// failure is logged and swallowed.
func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, rawEmail string) error {
	addr := normalizeEmail(rawEmail)
	if addr == "" {
		return nil
	}

	user, err := u.users.GetByEmail(ctx, addr)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Log.Error("Password reset lookup failed", "error", err)
		}
		return nil
	}

	now := time.Now().UTC()
	live, err := u.resets.HasLive(ctx, user.Email, now)
	if err != nil {
		logger.Log.Error("Password reset check failed", "error", err)
		return nil
	}
	if live {
		return nil
	}

	if err := u.resets.DeleteUnused(ctx, user.Email); err != nil {
		logger.Log.Warn("Failed to delete stale password resets", "error", err)
	}

	tok, err := token.Generate()
	if err != nil {
		logger.Log.Error("Failed to generate reset token", "error", err)
		return nil
	}
	reset := &domain.PasswordReset{
		Email:     user.Email,
		Token:     tok,
		ExpiresAt: now.Add(domain.PasswordResetTTL),
	}
	if err := u.resets.Create(ctx, reset); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			logger.Log.Error("Failed to store password reset", "error", err)
		}
		return nil
	}

	msg, err := email.PasswordResetMessage(user.Email, email.PasswordResetData{
		Link: u.siteURL + "/reset-password?token=" + url.QueryEscape(tok),
	})
	if err == nil {
		err = u.notifier.Send(ctx, msg)
	}
	if err != nil {
		logger.Log.Error("Failed to send password reset email", "reset_id", reset.ID, "error", err)
		if delErr := u.resets.Delete(ctx, reset.ID); delErr != nil {
			logger.Log.Error("Failed to delete unsent reset token", "reset_id", reset.ID, "error", delErr)
		}
	}
	return nil
}

func (u *passwordResetUsecase) ValidateResetToken(ctx context.Context, tok string) error {
	if tok == "" {
		return apperror.Gone(msgResetInvalid)
	}
	reset, err := u.resets.GetByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.Gone(msgResetInvalid)
		}
		return apperror.Internal(err)
	}
	if !reset.Usable(time.Now()) {
		return apperror.Gone(msgResetInvalid)
	}
	return nil
}

// ResetPassword burns the token before touching the auth provider, so a
// failed update leaves the caller needing a fresh reset link.
func (u *passwordResetUsecase) ResetPassword(ctx context.Context, tok, newPassword string) error {
	if len(newPassword) < domain.MinPasswordLength {
		return apperror.BadRequest("Password must be at least 8 characters")
	}

	addr, err := u.resets.MarkUsed(ctx, tok, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNotPending) {
			return apperror.Gone(msgResetInvalid)
		}
		return apperror.Internal(err)
	}

	user, err := u.users.GetByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.Gone(msgResetInvalid)
		}
		return apperror.Internal(err)
	}

	if err := u.auth.UpdatePassword(ctx, user.ID, newPassword); err != nil {
		logger.Log.Error("Failed to update password", "user_id", user.ID, "error", err)
		return apperror.Unavailable("Failed to update password, please request a new reset link", err)
	}
	return nil
}
