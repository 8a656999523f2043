package middleware

import (
	"errors"
	"net/http"

	"candidate-boutique/internal/delivery/http/response"
	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/apperror"
	"candidate-boutique/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logError(c, appErr)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		// Internal details never reach the client.
		logError(c, err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}

func logError(c *gin.Context, err error) {
	logger.Log.Error("Request failed",
		"request_id", c.GetString(string(domain.KeyRequestID)),
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
}
