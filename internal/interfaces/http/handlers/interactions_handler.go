package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/best-koder-ever/matchmaking-service/internal/application/services"
	"github.com/best-koder-ever/matchmaking-service/pkg/utils"
)

// InteractionsHandler ingests swipe outcomes from the swipe service. Not
// named in §6's endpoint list, but §4.8's real-time desirability adjustment
// and §4.3's score-invalidation rule both need a feed of swipe events to act
// on; the swipe service is the only source of that feed, so this webhook is
// the delivery point for both.
type InteractionsHandler struct {
	recorder *services.InteractionRecorder
}

// NewInteractionsHandler builds an InteractionsHandler.
func NewInteractionsHandler(recorder *services.InteractionRecorder) *InteractionsHandler {
	return &InteractionsHandler{recorder: recorder}
}

type recordInteractionBody struct {
	SwiperID int64 `json:"swiperId" binding:"required"`
	TargetID int64 `json:"targetId" binding:"required"`
	IsLike   bool  `json:"isLike"`
}

// Record handles POST /api/v1/interactions.
func (h *InteractionsHandler) Record(c *gin.Context) {
	var body recordInteractionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorWithStatus(c, http.StatusBadRequest, "invalid interaction payload")
		return
	}

	if err := h.recorder.Record(c.Request.Context(), body.SwiperID, body.TargetID, body.IsLike); err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"recorded": true})
}
