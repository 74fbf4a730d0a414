package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/best-koder-ever/matchmaking-service/internal/application/usecases/suggestions"
	apperrors "github.com/best-koder-ever/matchmaking-service/pkg/errors"
	"github.com/best-koder-ever/matchmaking-service/pkg/utils"
)

// SuggestionsHandler serves the daily-suggestion-status endpoint of §6.
type SuggestionsHandler struct {
	status *suggestions.GetSuggestionStatusUseCase
}

// NewSuggestionsHandler builds a SuggestionsHandler.
func NewSuggestionsHandler(status *suggestions.GetSuggestionStatusUseCase) *SuggestionsHandler {
	return &SuggestionsHandler{status: status}
}

// Status handles GET /api/v1/users/:userId/suggestions/status.
func (h *SuggestionsHandler) Status(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		utils.Error(c, apperrors.NewValidationError("userId", "must be numeric"))
		return
	}
	isPremium, _ := strconv.ParseBool(c.Query("isPremium"))

	resp := h.status.Execute(c.Request.Context(), userID, isPremium)
	utils.Success(c, http.StatusOK, resp)
}
