package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/best-koder-ever/matchmaking-service/internal/application/services"
	"github.com/best-koder-ever/matchmaking-service/internal/application/usecases/suggestions"
	"github.com/best-koder-ever/matchmaking-service/pkg/config"
)

func newSuggestionsHandlerForTest() *SuggestionsHandler {
	limiter := services.NewSuggestionLimiter(func() config.DailySuggestionLimitsConfig {
		return config.DailySuggestionLimitsConfig{MaxDailySuggestions: 20, PremiumMaxDailySuggestions: 100, RefreshIntervalHours: 24}
	})
	status := suggestions.NewGetSuggestionStatusUseCase(limiter)
	return NewSuggestionsHandler(status)
}

func TestSuggestionsHandler_Status_ReportsFullBudgetForFreshUser(t *testing.T) {
	h := newSuggestionsHandlerForTest()
	router := gin.New()
	router.GET("/api/v1/users/:userId/suggestions/status", h.Status)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1/suggestions/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data suggestions.StatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 20, resp.Data.Max)
	assert.Equal(t, 20, resp.Data.Remaining)
}

func TestSuggestionsHandler_Status_PremiumFlagRaisesCap(t *testing.T) {
	h := newSuggestionsHandlerForTest()
	router := gin.New()
	router.GET("/api/v1/users/:userId/suggestions/status", h.Status)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1/suggestions/status?isPremium=true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp struct {
		Data suggestions.StatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 100, resp.Data.Max)
}

func TestSuggestionsHandler_Status_NonNumericUserIDReturnsValidationError(t *testing.T) {
	h := newSuggestionsHandlerForTest()
	router := gin.New()
	router.GET("/api/v1/users/:userId/suggestions/status", h.Status)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/nope/suggestions/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEqual(t, http.StatusOK, rec.Code)
}
