package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/best-koder-ever/matchmaking-service/internal/application/usecases/profiles"
	apperrors "github.com/best-koder-ever/matchmaking-service/pkg/errors"
	"github.com/best-koder-ever/matchmaking-service/pkg/utils"
)

// ProfilesHandler serves the internal, API-key-gated profile-maintenance
// endpoints of §6: activity pings and cascade account deletion.
type ProfilesHandler struct {
	activity *profiles.UpdateActivityUseCase
	delete   *profiles.DeleteAccountUseCase
}

// NewProfilesHandler builds a ProfilesHandler.
func NewProfilesHandler(activity *profiles.UpdateActivityUseCase, del *profiles.DeleteAccountUseCase) *ProfilesHandler {
	return &ProfilesHandler{activity: activity, delete: del}
}

// PingActivity handles POST /api/v1/internal/users/:userId/activity.
func (h *ProfilesHandler) PingActivity(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		utils.Error(c, apperrors.NewValidationError("userId", "must be numeric"))
		return
	}
	if err := h.activity.ExecuteOne(c.Request.Context(), userID); err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"acknowledged": true})
}

type batchActivityBody struct {
	UserIDs []int64 `json:"userIds" binding:"required"`
}

// PingActivityBatch handles POST /api/v1/internal/users/activity/batch.
func (h *ProfilesHandler) PingActivityBatch(c *gin.Context) {
	var body batchActivityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorWithStatus(c, http.StatusBadRequest, "invalid activity batch payload")
		return
	}

	updated, total, err := h.activity.ExecuteBatch(c.Request.Context(), body.UserIDs)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"updated": updated, "total": total})
}

// DeleteAccount handles DELETE /api/v1/internal/users/:userId.
func (h *ProfilesHandler) DeleteAccount(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		utils.Error(c, apperrors.NewValidationError("userId", "must be numeric"))
		return
	}
	if err := h.delete.Execute(c.Request.Context(), userID); err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"deleted": true})
}
