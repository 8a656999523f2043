package domain

import (
	"context"
	"time"
)

type User struct {
	ID        string    `json:"id"` // Supabase UUID
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserFilter struct {
	Role string `form:"role" binding:"omitempty,oneof=user admin"`
	Pagination
}

type UpdateRoleInput struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

type CheckEmailInput struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	UpdateRole(ctx context.Context, id, role string) (*User, error)
	Delete(ctx context.Context, id string) error
}

// AuthProvider is the managed auth service's admin API.
type AuthProvider interface {
	CreateUser(ctx context.Context, email, password string, metadata map[string]any) (string, error)
	UpdatePassword(ctx context.Context, userID, password string) error
	DeleteUser(ctx context.Context, userID string) error
}

type AuthUsecase interface {
	// LoadActor resolves a verified token subject to an actor, reading the
	// role from the users table.
	LoadActor(ctx context.Context, userID, email string) (Actor, error)
	GetCurrentUser(ctx context.Context) (*User, error)
	CheckEmail(ctx context.Context, email string) error
}
