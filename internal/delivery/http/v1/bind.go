package v1

import (
	"errors"
	"strings"

	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/apperror"
	"candidate-boutique/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// bindError turns a gin binding failure into a 400.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}
	return apperror.BadRequest("Invalid request body")
}

func pathID(c *gin.Context, name, notFound string) (uuid.UUID, bool) {
	id, err := domain.ParseID(c.Param(name))
	if err != nil {
		c.Error(apperror.NotFound(notFound))
		return uuid.Nil, false
	}
	return id, true
}
