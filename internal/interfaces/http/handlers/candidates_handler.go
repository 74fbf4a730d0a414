package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/best-koder-ever/matchmaking-service/internal/application/usecases/candidates"
	"github.com/best-koder-ever/matchmaking-service/pkg/utils"
)

const (
	defaultCandidateLimit = 20
	minCandidateLimit     = 1
	maxCandidateLimit     = 50
	minActiveWithinDays   = 1
	maxActiveWithinDays   = 365
)

// CandidatesHandler serves the candidate-discovery endpoint of §6. There is
// no session auth on this surface (the auth collaborator is excluded), so
// the requesting user comes from the URL path rather than a JWT claim.
type CandidatesHandler struct {
	discover *candidates.DiscoverCandidatesUseCase
}

// NewCandidatesHandler builds a CandidatesHandler.
func NewCandidatesHandler(discover *candidates.DiscoverCandidatesUseCase) *CandidatesHandler {
	return &CandidatesHandler{discover: discover}
}

// Discover handles GET /api/v1/users/:userId/candidates.
func (h *CandidatesHandler) Discover(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		utils.Success(c, http.StatusOK, candidates.Response{Candidates: []candidates.Candidate{}})
		return
	}

	req := candidates.Request{
		UserID:           userID,
		Limit:            clampInt(queryInt(c, "limit", defaultCandidateLimit), minCandidateLimit, maxCandidateLimit),
		MinScore:         clampFloat(queryFloat(c, "minScore", 0), 0, 100),
		ActiveWithinDays: clampActiveWithin(c),
		OnlyVerified:     queryBool(c, "onlyVerified", false),
		Strategy:         c.Query("strategy"),
		IsPremium:        queryBool(c, "isPremium", false),
	}

	resp, err := h.discover.Execute(c.Request.Context(), req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, http.StatusOK, resp)
}

func clampActiveWithin(c *gin.Context) int {
	raw := c.Query("activeWithin")
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return clampInt(v, minActiveWithinDays, maxActiveWithinDays)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func queryFloat(c *gin.Context, key string, fallback float64) float64 {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func queryBool(c *gin.Context, key string, fallback bool) bool {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
