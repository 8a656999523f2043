package v1

import (
	"net/http"

	"candidate-boutique/internal/delivery/http/response"
	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

func NewAdminHandler(admin *gin.RouterGroup, adminUC domain.AdminUsecase) {
	handler := &AdminHandler{adminUC: adminUC}

	admin.GET("/stats", handler.GetStats)

	users := admin.Group("/users")
	{
		users.GET("", handler.ListUsers)
		users.PATCH("/:id/role", handler.UpdateRole)
		users.DELETE("/:id", handler.DeleteUser)
	}
}

// GetStats godoc
// @Summary      Get admin dashboard statistics
// @Description  Candidates, pending registrations and invitations, users, last sync
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.AdminStats}
// @Failure      403  {object}  response.Response
// @Router       /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminUC.GetStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard statistics", stats)
}

// ListUsers godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role       query     string  false  "Filter by role (user, admin)"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Items per page"
// @Success      200        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filter domain.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(bindError(err))
		return
	}
	result, err := h.adminUC.ListUsers(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Users list", result)
}

// UpdateRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "User ID"
// @Param        body  body      domain.UpdateRoleInput  true  "New role"
// @Success      200   {object}  response.Response{data=domain.User}
// @Router       /admin/users/{id}/role [patch]
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	var input domain.UpdateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(bindError(err))
		return
	}
	user, err := h.adminUC.UpdateUserRole(c.Request.Context(), c.Param("id"), input.Role)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User updated", user)
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.Error(apperror.BadRequest("User ID is required"))
		return
	}
	if err := h.adminUC.DeleteUser(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted", nil)
}
