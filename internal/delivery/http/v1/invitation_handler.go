package v1

import (
	"net/http"

	"candidate-boutique/internal/delivery/http/response"
	"candidate-boutique/internal/domain"

	"github.com/gin-gonic/gin"
)

type InvitationHandler struct {
	invitationUC domain.InvitationUsecase
}

func NewInvitationHandler(public, admin *gin.RouterGroup, invitationUC domain.InvitationUsecase) {
	handler := &InvitationHandler{invitationUC: invitationUC}

	invitations := public.Group("/invitations")
	{
		invitations.GET("/:token", handler.Validate)
		invitations.POST("/:token/accept", handler.Accept)
	}

	manage := admin.Group("/invitations")
	{
		manage.GET("", handler.List)
		manage.POST("", handler.Create)
		manage.DELETE("/:id", handler.Cancel)
		manage.POST("/:id/resend", handler.Resend)
	}
}

// Validate godoc
// @Summary      Check an invitation link
// @Tags         invitations
// @Produce      json
// @Param        token  path      string  true  "Invitation token"
// @Success      200    {object}  response.Response{data=domain.InvitationInfo}
// @Failure      404    {object}  response.Response
// @Failure      410    {object}  response.Response
// @Router       /invitations/{token} [get]
func (h *InvitationHandler) Validate(c *gin.Context) {
	info, err := h.invitationUC.ValidateInvitation(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Invitation is valid", info)
}

// Accept godoc
// @Summary      Create an account from an invitation
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        token  path      string                        true  "Invitation token"
// @Param        body   body      domain.AcceptInvitationInput  true  "Account details"
// @Success      201    {object}  response.Response{data=domain.User}
// @Failure      409    {object}  response.Response
// @Failure      410    {object}  response.Response
// @Router       /invitations/{token}/accept [post]
func (h *InvitationHandler) Accept(c *gin.Context) {
	var input domain.AcceptInvitationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(bindError(err))
		return
	}
	user, err := h.invitationUC.RegisterWithInvitation(c.Request.Context(), c.Param("token"), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Account created", user)
}

// List godoc
// @Summary      List invitations
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "pending, accepted or expired"
// @Success      200  {object}  response.Response
// @Router       /admin/invitations [get]
func (h *InvitationHandler) List(c *gin.Context) {
	var filter domain.InvitationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(bindError(err))
		return
	}
	page, err := h.invitationUC.ListInvitations(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Invitations", page)
}

// Create godoc
// @Summary      Invite a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.CreateInvitationInput  true  "Invitee"
// @Success      201   {object}  response.Response{data=domain.Invitation}
// @Failure      409   {object}  response.Response
// @Router       /admin/invitations [post]
func (h *InvitationHandler) Create(c *gin.Context) {
	var input domain.CreateInvitationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(bindError(err))
		return
	}
	inv, err := h.invitationUC.CreateInvitation(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Invitation sent", inv)
}

// Cancel godoc
// @Summary      Cancel a pending invitation
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invitation ID"
// @Success      200  {object}  response.Response
// @Router       /admin/invitations/{id} [delete]
func (h *InvitationHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id", "Invitation not found")
	if !ok {
		return
	}
	if err := h.invitationUC.CancelInvitation(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Invitation cancelled", nil)
}

// Resend godoc
// @Summary      Resend an invitation email
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invitation ID"
// @Success      200  {object}  response.Response
// @Router       /admin/invitations/{id}/resend [post]
func (h *InvitationHandler) Resend(c *gin.Context) {
	id, ok := pathID(c, "id", "Invitation not found")
	if !ok {
		return
	}
	if err := h.invitationUC.ResendInvitation(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Invitation resent", nil)
}
