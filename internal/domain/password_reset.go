package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PasswordReset struct {
	ID        uuid.UUID
	Email     string
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (p *PasswordReset) Usable(now time.Time) bool {
	return p.UsedAt == nil && now.Before(p.ExpiresAt)
}

type PasswordResetRequestInput struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

type PasswordResetConfirmInput struct {
	Token    string `json:"token" binding:"required,max=128"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type PasswordResetRepository interface {
	HasLive(ctx context.Context, email string, now time.Time) (bool, error)
	// DeleteUnused removes every unused reset for email.
	DeleteUnused(ctx context.Context, email string) error
	Create(ctx context.Context, reset *PasswordReset) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByToken(ctx context.Context, token string) (*PasswordReset, error)
	// MarkUsed atomically consumes a usable token and returns its email.
	MarkUsed(ctx context.Context, token string, now time.Time) (string, error)
}

type PasswordResetUsecase interface {
	RequestPasswordReset(ctx context.Context, email string) error
	ValidateResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}
