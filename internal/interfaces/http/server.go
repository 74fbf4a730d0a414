package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/best-koder-ever/matchmaking-service/internal/interfaces/http/middleware"
	"github.com/best-koder-ever/matchmaking-service/internal/interfaces/http/routes"
	"github.com/best-koder-ever/matchmaking-service/pkg/config"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

// Server wraps the Gin engine and the net/http server around it, the same
// shape the teacher uses: a thin struct holding config, engine, and the
// dependencies the middleware chain needs, with route wiring delegated
// elsewhere so this file stays about bootstrap, not business assembly.
type Server struct {
	config *config.Config
	engine *gin.Engine
	server *http.Server
	db     *gorm.DB
	redis  goredis.Cmdable
}

// NewServer builds the Gin engine, installs the ambient middleware chain,
// and registers routes.Handlers. Unlike the teacher, there is no auth
// middleware in this chain — the candidate/match/suggestion surface carries
// no session collaborator, and the internal surface is gated by
// middleware.InternalAuth instead of a JWT check.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient goredis.Cmdable, h routes.Handlers) *Server {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Security(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	engine.Use(middleware.ErrorHandler())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logging())
	engine.Use(middleware.RateLimiter(middleware.DefaultRateLimitConfig(redisClient)))

	routes.Register(engine, h, cfg.App.InternalAPIKey)

	return &Server{
		config: cfg,
		engine: engine,
		db:     db,
		redis:  redisClient,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.App.Port),
			Handler:      engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start begins serving HTTP traffic. Returns http.ErrServerClosed on a
// graceful Shutdown.
func (s *Server) Start() error {
	logger.Infof("starting HTTP server on port %d", s.config.App.Port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Infof("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Engine exposes the underlying Gin engine, primarily for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
