package v1

import (
	"net/http"

	"candidate-boutique/internal/delivery/http/response"
	"candidate-boutique/internal/domain"

	"github.com/gin-gonic/gin"
)

const msgResetRequested = "If an account exists for this email, a reset link has been sent"

type PasswordResetHandler struct {
	resetUC domain.PasswordResetUsecase
}

func NewPasswordResetHandler(public *gin.RouterGroup, resetUC domain.PasswordResetUsecase) {
	handler := &PasswordResetHandler{resetUC: resetUC}

	reset := public.Group("/password-reset")
	{
		reset.POST("/request", handler.Request)
		reset.GET("/:token", handler.Validate)
		reset.POST("/confirm", handler.Confirm)
	}
}

// Request godoc
// @Summary      Request a password reset email
// @Description  Always answers the same way, whether or not the account exists
// @Tags         password-reset
// @Accept       json
// @Produce      json
// @Param        body  body      domain.PasswordResetRequestInput  true  "Email"
// @Success      200   {object}  response.Response
// @Router       /password-reset/request [post]
func (h *PasswordResetHandler) Request(c *gin.Context) {
	var input domain.PasswordResetRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(bindError(err))
		return
	}
	if err := h.resetUC.RequestPasswordReset(c.Request.Context(), input.Email); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, msgResetRequested, nil)
}

// Validate godoc
// @Summary      Check a reset link
// @Tags         password-reset
// @Produce      json
// @Param        token  path      string  true  "Reset token"
// @Success      200    {object}  response.Response
// @Failure      410    {object}  response.Response
// @Router       /password-reset/{token} [get]
func (h *PasswordResetHandler) Validate(c *gin.Context) {
	if err := h.resetUC.ValidateResetToken(c.Request.Context(), c.Param("token")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Reset link is valid", nil)
}

// Confirm godoc
// @Summary      Set a new password
// @Tags         password-reset
// @Accept       json
// @Produce      json
// @Param        body  body      domain.PasswordResetConfirmInput  true  "Token and new password"
// @Success      200   {object}  response.Response
// @Failure      410   {object}  response.Response
// @Router       /password-reset/confirm [post]
func (h *PasswordResetHandler) Confirm(c *gin.Context) {
	var input domain.PasswordResetConfirmInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(bindError(err))
		return
	}
	if err := h.resetUC.ResetPassword(c.Request.Context(), input.Token, input.Password); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Password updated", nil)
}
