package v1

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"candidate-boutique/internal/delivery/http/middleware"
	"candidate-boutique/internal/delivery/http/response"
	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/apperror"
	"candidate-boutique/pkg/logger"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	syncUC domain.SyncUsecase
	secret string
}

// NewSyncHandler mounts the external trigger on api and the admin endpoints
// on admin. The external trigger keeps its own flat JSON shape.
func NewSyncHandler(api, admin *gin.RouterGroup, syncUC domain.SyncUsecase, secret string) {
	handler := &SyncHandler{syncUC: syncUC, secret: secret}

	api.POST("/sync", handler.Trigger)
	api.GET("/sync", handler.Info)

	admin.POST("/sync", handler.ForceSync)
	admin.GET("/sync/status", handler.Status)
}

// Trigger godoc
// @Summary      Run the candidate sheet import
// @Description  Requires Authorization: Bearer <SYNC_SECRET> when a secret is configured
// @Tags         sync
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /api/sync [post]
func (h *SyncHandler) Trigger(c *gin.Context) {
	if h.secret != "" {
		token := middleware.BearerToken(c.GetHeader("Authorization"))
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
	}

	result, err := h.syncUC.Run(c.Request.Context())
	if err != nil {
		msg := "Sync failed"
		switch {
		case errors.Is(err, domain.ErrSyncInProgress):
			msg = "Sync already in progress"
		case result != nil && result.Message != "":
			msg = result.Message
		}
		logger.Log.Error("External sync trigger failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": result.Message})
}

// Info godoc
// @Summary      Describe the sync trigger
// @Tags         sync
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/sync [get]
func (h *SyncHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"message":  "POST to this endpoint to sync candidates from the Google Sheet",
		"hasToken": h.secret != "",
	})
}

// ForceSync godoc
// @Summary      Run the candidate sheet import now
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.SyncResult}
// @Failure      409  {object}  response.Response
// @Router       /admin/sync [post]
func (h *SyncHandler) ForceSync(c *gin.Context) {
	result, err := h.syncUC.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			c.Error(apperror.Conflict("Sync already in progress"))
			return
		}
		if result != nil {
			response.Error(c, http.StatusBadGateway, result.Message, result)
			return
		}
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, result.Message, result)
}

// Status godoc
// @Summary      Sync status
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.SyncStatus}
// @Router       /admin/sync/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	status, err := h.syncUC.Status(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Sync status", status)
}
