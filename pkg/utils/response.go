// Package utils holds the HTTP response envelope shared by every handler,
// adapted from the teacher's pkg/utils but stripped of auth-specific shapes.
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/best-koder-ever/matchmaking-service/pkg/errors"
)

// Response is the stable envelope shape §6 requires of every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo carries an error's HTTP-facing shape. Details never leak
// internal ids or user data (§7).
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success sends a success response.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{Success: true, Data: data})
}

// Error sends an error response, mapping *errors.AppError to its carried
// status code and falling back to 500 for anything else.
func Error(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		c.JSON(appErr.StatusCode(), Response{
			Success: false,
			Error: &ErrorInfo{
				Code:    http.StatusText(appErr.StatusCode()),
				Message: appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    http.StatusText(http.StatusInternalServerError),
			Message: "internal server error",
		},
	})
}

// ErrorWithStatus sends an error response with an explicit status code.
func ErrorWithStatus(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    http.StatusText(statusCode),
			Message: message,
		},
	})
}
