package usecase

import (
	"context"
	"errors"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/apperror"
	"candidate-boutique/pkg/logger"
)

type authUsecase struct {
	userRepo domain.UserRepository
}

func NewAuthUsecase(userRepo domain.UserRepository) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo}
}

// LoadActor never trusts a role claim from the token; the users table is the
// source of truth.
func (u *authUsecase) LoadActor(ctx context.Context, userID, tokenEmail string) (domain.Actor, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, apperror.Unauthorized("User not found")
		}
		return domain.Actor{}, apperror.Internal(err)
	}
	addr := user.Email
	if addr == "" {
		addr = tokenEmail
	}
	return domain.Actor{ID: user.ID, Email: addr, Role: user.Role}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	user, err := u.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// CheckEmail answers identically whether or not the email is registered.
func (u *authUsecase) CheckEmail(ctx context.Context, email string) error {
	addr := normalizeEmail(email)
	if addr == "" {
		return apperror.BadRequest("Email is required")
	}
	if _, err := u.userRepo.GetByEmail(ctx, addr); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Log.Warn("Email check lookup failed", "error", err)
	}
	return nil
}
