package usecase

import (
	"context"
	"errors"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/apperror"
	"candidate-boutique/pkg/logger"
)

type adminUsecase struct {
	adminRepo domain.AdminRepository
	users     domain.UserRepository
	auth      domain.AuthProvider
}

func NewAdminUsecase(adminRepo domain.AdminRepository, users domain.UserRepository, auth domain.AuthProvider) domain.AdminUsecase {
	return &adminUsecase{adminRepo: adminRepo, users: users, auth: auth}
}

func (u *adminUsecase) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	stats, err := u.adminRepo.GetStats(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return stats, nil
}

func (u *adminUsecase) ListUsers(ctx context.Context, filter domain.UserFilter) (domain.Page[domain.User], error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Page[domain.User]{}, err
	}
	filter.Pagination = filter.Pagination.Normalize()
	items, total, err := u.users.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.User]{}, apperror.Internal(err)
	}
	return domain.NewPage(items, total, filter.Pagination), nil
}

func (u *adminUsecase) UpdateUserRole(ctx context.Context, id, role string) (*domain.User, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if id == actor.ID {
		return nil, apperror.BadRequest("You cannot change your own role")
	}
	if !domain.ValidRole(role) {
		return nil, apperror.BadRequest("Invalid role")
	}
	user, err := u.users.UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	logger.Log.Info("User role changed", "user_id", id, "role", role, "by", actor.ID)
	return user, nil
}

// DeleteUser removes the auth account first so a failure leaves the user
// listed and retryable.
func (u *adminUsecase) DeleteUser(ctx context.Context, id string) error {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return err
	}
	if id == actor.ID {
		return apperror.BadRequest("You cannot delete your own account")
	}
	if _, err := u.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal(err)
	}

	if err := u.auth.DeleteUser(ctx, id); err != nil {
		logger.Log.Error("Failed to delete auth user", "user_id", id, "error", err)
		return apperror.Unavailable("Failed to delete account, please try again later", err)
	}
	if err := u.users.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return apperror.Internal(err)
	}
	logger.Log.Info("User deleted", "user_id", id, "by", actor.ID)
	return nil
}
