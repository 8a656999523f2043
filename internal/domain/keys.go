package domain

import "context"

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
	KeyActor     CtxKey = "Actor"
	KeyRequestID CtxKey = "RequestID"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	ID    string
	Email string
	Role  string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, KeyActor, a)
}

// ActorFromContext returns the caller set by the auth middleware.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(KeyActor).(Actor)
	if !ok || a.ID == "" {
		return Actor{}, false
	}
	return a, true
}
