package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "github.com/best-koder-ever/matchmaking-service/pkg/errors"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
	"github.com/best-koder-ever/matchmaking-service/pkg/utils"
)

// InternalAPIKeyHeader carries the shared secret for service-to-service
// calls (activity pings, match deletion, account-delete cascade — §6).
const InternalAPIKeyHeader = "X-Internal-API-Key"

// InternalAuth gates a route group behind a shared API key instead of the
// JWT session auth the public candidate/match endpoints don't carry at all.
// An empty configured key means the check is disabled (local/dev).
func InternalAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(InternalAPIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			logger.Warnf("rejected internal request to %s from %s: invalid api key", c.Request.URL.Path, c.ClientIP())
			utils.Error(c, apperrors.NewUnauthorizedError("invalid internal api key"))
			c.Abort()
			return
		}
		c.Next()
	}
}
