package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/application/filters"
	"github.com/best-koder-ever/matchmaking-service/internal/application/services"
	"github.com/best-koder-ever/matchmaking-service/internal/application/strategies"
	usecasecandidates "github.com/best-koder-ever/matchmaking-service/internal/application/usecases/candidates"
	usecasematches "github.com/best-koder-ever/matchmaking-service/internal/application/usecases/matches"
	usecaseprofiles "github.com/best-koder-ever/matchmaking-service/internal/application/usecases/profiles"
	usecasesuggestions "github.com/best-koder-ever/matchmaking-service/internal/application/usecases/suggestions"
	"github.com/best-koder-ever/matchmaking-service/internal/application/workers"
	"github.com/best-koder-ever/matchmaking-service/internal/infrastructure/database/postgres"
	"github.com/best-koder-ever/matchmaking-service/internal/infrastructure/database/postgres/repositories"
	"github.com/best-koder-ever/matchmaking-service/internal/infrastructure/database/redis"
	"github.com/best-koder-ever/matchmaking-service/internal/infrastructure/external/safety"
	"github.com/best-koder-ever/matchmaking-service/internal/infrastructure/external/swipe"
	"github.com/best-koder-ever/matchmaking-service/internal/infrastructure/notify"
	httpServer "github.com/best-koder-ever/matchmaking-service/internal/interfaces/http"
	"github.com/best-koder-ever/matchmaking-service/internal/interfaces/http/handlers"
	"github.com/best-koder-ever/matchmaking-service/internal/interfaces/http/routes"
	"github.com/best-koder-ever/matchmaking-service/pkg/config"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.Env)

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()
	logger.Infof("Database connection established successfully")

	redisWrapper, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := redisWrapper.Close(); err != nil {
			logger.Errorf("Failed to close Redis connection: %v", err)
		}
	}()
	logger.Infof("Redis connection established successfully")

	database := postgres.NewDatabase(db, &cfg.Database)
	if err := database.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run database migrations: %v", err)
	}
	logger.Infof("Database migrations completed successfully")

	// Repositories — the candidate store (C1).
	profileRepo := repositories.NewProfileRepository(db)
	matchRepo := repositories.NewMatchRepository(db)
	scoreRepo := repositories.NewPrecomputedScoreRepository(db)
	pickRepo := repositories.NewDailyPickRepository(db)
	interactionRepo := repositories.NewUserInteractionRepository(db)
	metricRepo := repositories.NewAlgorithmMetricRepository(db)

	// Config accessors. Only the strategy resolver's knobs (MatchingConfig)
	// are hot-reloadable (config.Watcher); the rest are read once at boot,
	// matching how the teacher's non-resolver config is consumed.
	scoringCfg := func() config.ScoringConfig { return cfg.Scoring }
	backgroundScoringCfg := func() config.BackgroundScoringConfig { return cfg.BackgroundScoring }
	dailyPicksCfg := func() config.DailyPicksConfig { return cfg.DailyPicks }
	dailySuggestionLimitsCfg := func() config.DailySuggestionLimitsConfig { return cfg.DailySuggestionLimits }
	watcher := config.NewWatcher(cfg.Matching)
	matchingCfg := watcher.Current

	// External collaborators (§1, §7 — fail-open clients and the best-effort
	// match notifier).
	swipeClient := swipe.NewClient(cfg.SwipeService)
	safetyClient := safety.NewClient(cfg.SafetyService)
	notifier := notify.NewNotifier(cfg.Notification)

	// Domain services (C3, C8, C9).
	scorer := services.NewCompatibilityScorer(scoreRepo, scoringCfg)
	desirability := services.NewDesirabilityCalculator(profileRepo, metricRepo)
	limiter := services.NewSuggestionLimiter(dailySuggestionLimitsCfg)
	interactionRecorder := services.NewInteractionRecorder(interactionRepo, scoreRepo, profileRepo)

	// Filter pipeline (C2) and scoring strategies (C4).
	pipeline := filters.NewDefaultPipeline()
	liveStrategy := strategies.NewLiveStrategy(profileRepo, scorer, pipeline, swipeClient, safetyClient, scoringCfg, matchingCfg)
	precomputedStrategy := strategies.NewPreComputedStrategy(profileRepo, scoreRepo, pipeline, liveStrategy, scoringCfg, matchingCfg)
	dailyPickStrategy := strategies.NewDailyPickStrategy(pickRepo, profileRepo, liveStrategy)
	resolver := strategies.NewResolver(liveStrategy, precomputedStrategy, dailyPickStrategy, profileRepo, watcher, cfg.Matching.ActiveUserCountCacheTTL)

	// Background workers (C6, C7).
	scoreRefresher := workers.NewScoreRefresher(profileRepo, scoreRepo, scorer, desirability, pipeline, swipeClient, safetyClient, backgroundScoringCfg, scoringCfg, matchingCfg)
	dailyPickGenerator := workers.NewDailyPickGenerator(pickRepo, profileRepo, liveStrategy, dailyPicksCfg)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	go scoreRefresher.Run(workerCtx)
	go dailyPickGenerator.Run(workerCtx)

	// Use cases.
	discoverCandidates := usecasecandidates.NewDiscoverCandidatesUseCase(resolver, limiter)
	recordMatch := usecasematches.NewRecordMutualMatchUseCase(matchRepo, notifier)
	matchStats := usecasematches.NewGetMatchStatsUseCase(matchRepo)
	deleteMatches := usecasematches.NewDeleteMatchesUseCase(matchRepo)
	suggestionStatus := usecasesuggestions.NewGetSuggestionStatusUseCase(limiter)
	updateActivity := usecaseprofiles.NewUpdateActivityUseCase(profileRepo)
	deleteAccount := usecaseprofiles.NewDeleteAccountUseCase(profileRepo)

	h := routes.Handlers{
		Candidates:   handlers.NewCandidatesHandler(discoverCandidates),
		Matches:      handlers.NewMatchesHandler(recordMatch, matchStats, deleteMatches),
		Suggestions:  handlers.NewSuggestionsHandler(suggestionStatus),
		Profiles:     handlers.NewProfilesHandler(updateActivity, deleteAccount),
		Interactions: handlers.NewInteractionsHandler(interactionRecorder),
		Health:       handlers.NewHealthHandler(db),
	}

	server := httpServer.NewServer(cfg, db, redisWrapper.GetClient(), h)

	go func() {
		logger.Infof("Starting server on port %d", cfg.App.Port)
		if err := server.Start(); err != nil {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")
	cancelWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Infof("Server exited")
}
