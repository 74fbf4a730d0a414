package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/best-koder-ever/matchmaking-service/internal/interfaces/http/handlers"
	"github.com/best-koder-ever/matchmaking-service/internal/interfaces/http/middleware"
)

// Handlers bundles every handler the HTTP surface wires together, mirroring
// the teacher's one-struct-per-route-group idiom but collapsed into a single
// registration pass since this service's entire surface is small enough for
// one router file.
type Handlers struct {
	Candidates   *handlers.CandidatesHandler
	Matches      *handlers.MatchesHandler
	Suggestions  *handlers.SuggestionsHandler
	Profiles     *handlers.ProfilesHandler
	Interactions *handlers.InteractionsHandler
	Health       *handlers.HealthHandler
}

// Register wires every route this engine exposes onto router. internalAPIKey
// gates the service-to-service group; an empty key disables the check
// (local/dev only — see middleware.InternalAuth).
func Register(router *gin.Engine, h Handlers, internalAPIKey string) {
	router.GET("/health/live", h.Health.Live)
	router.GET("/health/ready", h.Health.Ready)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/users/:userId/candidates", h.Candidates.Discover)
		v1.GET("/users/:userId/suggestions/status", h.Suggestions.Status)
		v1.GET("/users/:userId/matches/stats", h.Matches.Stats)

		v1.POST("/matches", h.Matches.Record)
		v1.POST("/interactions", h.Interactions.Record)
	}

	internal := router.Group("/api/v1/internal")
	internal.Use(middleware.InternalAuth(internalAPIKey))
	{
		internal.POST("/users/:userId/activity", h.Profiles.PingActivity)
		internal.POST("/users/activity/batch", h.Profiles.PingActivityBatch)
		internal.DELETE("/users/:userId", h.Profiles.DeleteAccount)
		internal.DELETE("/users/:userId/matches", h.Matches.Delete)
	}
}
