package usecase

import (
	"context"
	"strings"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/apperror"
	"candidate-boutique/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// requireUser returns the authenticated caller or a 401.
func requireUser(ctx context.Context) (domain.Actor, error) {
	actor, ok := domain.ActorFromContext(ctx)
	if !ok {
		return domain.Actor{}, apperror.Unauthorized("User not authenticated")
	}
	return actor, nil
}

// requireAdmin returns the caller if it is an admin. The 403 carries no detail.
func requireAdmin(ctx context.Context) (domain.Actor, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return actor, err
	}
	if !actor.IsAdmin() {
		return domain.Actor{}, apperror.Forbidden("Access denied")
	}
	return actor, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optional turns blank input into a NULL column value.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// validateInput runs struct validation and returns a 400 listing the problems.
func validateInput(v *validator.Validate, input any) error {
	if v == nil {
		return nil
	}
	if err := v.Struct(input); err != nil {
		return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}
	return nil
}

// NewValidator returns a validator with the custom rules registered. It reads
// the binding tags that gin uses for request structs.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	validation.RegisterValidators(v)
	return v
}
