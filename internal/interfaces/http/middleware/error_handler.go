package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/best-koder-ever/matchmaking-service/pkg/errors"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
	"github.com/best-koder-ever/matchmaking-service/pkg/utils"
)

// ErrorHandler recovers panics and translates the last error a handler
// attached via c.Error into the uniform response envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := c.Get("request_id")
				logger.WithFields(map[string]interface{}{
					"request_id": requestID,
					"path":       c.Request.URL.Path,
					"panic":      fmt.Sprintf("%v", r),
					"stack":      string(debug.Stack()),
				}).Error("panic recovered")
				utils.Error(c, apperrors.NewInternalError("internal server error"))
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		requestID, _ := c.Get("request_id")
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.StatusCode() < 500 {
			logger.WithFields(map[string]interface{}{"request_id": requestID, "path": c.Request.URL.Path}).Warn(appErr.Message)
		} else {
			logger.WithFields(map[string]interface{}{"request_id": requestID, "path": c.Request.URL.Path}).Errorf("request failed: %v", err)
		}
		if !c.Writer.Written() {
			utils.Error(c, err)
		}
	}
}
