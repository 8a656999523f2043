package v1

import (
	"net/http"

	"candidate-boutique/internal/delivery/http/response"
	"candidate-boutique/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase) {
	handler := &AuthHandler{authUC: authUC}

	public.POST("/auth/check-email", handler.CheckEmail)
	protected.GET("/auth/me", handler.Me)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Current user", user)
}

// CheckEmail godoc
// @Summary      Check an email before registration
// @Description  The answer does not reveal whether the email is registered
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CheckEmailInput  true  "Email"
// @Success      200   {object}  response.Response
// @Router       /auth/check-email [post]
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	var input domain.CheckEmailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(bindError(err))
		return
	}
	if err := h.authUC.CheckEmail(c.Request.Context(), input.Email); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Email accepted", nil)
}
