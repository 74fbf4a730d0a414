package middleware

// Security headers for the public matching API. No IP allow/deny lists or
// bot detection here — this engine sits behind the platform's edge, which
// already does that; this layer only sets the response headers a browser or
// proxy in the chain might look at.

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// SecurityConfig controls which headers Security adds.
type SecurityConfig struct {
	FrameOptions     string
	CSPPolicy        string
	HSTSMaxAgeDays   int
	EnableHSTS       bool
}

// DefaultSecurityConfig returns the headers this service sets in production.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		FrameOptions:   "DENY",
		CSPPolicy:      "default-src 'none'",
		HSTSMaxAgeDays: 180,
		EnableHSTS:     true,
	}
}

// Security sets standard security headers on every response.
func Security(config SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", config.FrameOptions)
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if config.CSPPolicy != "" {
			c.Header("Content-Security-Policy", config.CSPPolicy)
		}
		if config.EnableHSTS && c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", hstsValue(config.HSTSMaxAgeDays))
		}
		c.Next()
	}
}

func hstsValue(maxAgeDays int) string {
	seconds := maxAgeDays * 24 * 60 * 60
	return "max-age=" + strconv.Itoa(seconds) + "; includeSubDomains"
}
