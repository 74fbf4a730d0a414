package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/best-koder-ever/matchmaking-service/internal/application/usecases/matches"
	apperrors "github.com/best-koder-ever/matchmaking-service/pkg/errors"
	"github.com/best-koder-ever/matchmaking-service/pkg/utils"
)

// MatchesHandler serves the mutual-match sink, match statistics, and
// match-deletion endpoints of §6.
type MatchesHandler struct {
	record *matches.RecordMutualMatchUseCase
	stats  *matches.GetMatchStatsUseCase
	delete *matches.DeleteMatchesUseCase
}

// NewMatchesHandler builds a MatchesHandler.
func NewMatchesHandler(record *matches.RecordMutualMatchUseCase, stats *matches.GetMatchStatsUseCase, del *matches.DeleteMatchesUseCase) *MatchesHandler {
	return &MatchesHandler{record: record, stats: stats, delete: del}
}

type recordMatchBody struct {
	User1ID            int64   `json:"user1Id" binding:"required"`
	User2ID            int64   `json:"user2Id" binding:"required"`
	CompatibilityScore float64 `json:"compatibilityScore"`
	Source             string  `json:"source"`
}

// Record handles POST /api/v1/matches — the swipe service's mutual-match
// notification sink.
func (h *MatchesHandler) Record(c *gin.Context) {
	var body recordMatchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorWithStatus(c, http.StatusBadRequest, "invalid match payload")
		return
	}
	if body.User1ID == body.User2ID {
		utils.ErrorWithStatus(c, http.StatusBadRequest, "a match requires two distinct users")
		return
	}

	resp, err := h.record.Execute(c.Request.Context(), matches.RecordMatchRequest{
		User1ID:            body.User1ID,
		User2ID:            body.User2ID,
		CompatibilityScore: body.CompatibilityScore,
		Source:             body.Source,
	})
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, http.StatusOK, resp)
}

// Stats handles GET /api/v1/users/:userId/matches/stats.
func (h *MatchesHandler) Stats(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		utils.Error(c, apperrors.NewValidationError("userId", "must be numeric"))
		return
	}

	resp, err := h.stats.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, http.StatusOK, resp)
}

// Delete handles DELETE /api/v1/internal/users/:userId/matches (internal,
// API-key-gated — account deletion cascades here too).
func (h *MatchesHandler) Delete(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		utils.Error(c, apperrors.NewValidationError("userId", "must be numeric"))
		return
	}

	deleted, err := h.delete.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"deleted": deleted})
}
