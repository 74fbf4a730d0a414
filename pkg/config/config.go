package config

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	App                    AppConfig                    `mapstructure:"app"`
	Database               DatabaseConfig               `mapstructure:"database"`
	Redis                  RedisConfig                  `mapstructure:"redis"`
	Matching               MatchingConfig               `mapstructure:"matching"`
	BackgroundScoring      BackgroundScoringConfig       `mapstructure:"background_scoring"`
	DailyPicks             DailyPicksConfig              `mapstructure:"daily_picks"`
	Scoring                ScoringConfig                 `mapstructure:"scoring"`
	DailySuggestionLimits  DailySuggestionLimitsConfig   `mapstructure:"daily_suggestion_limits"`
	SwipeService           SwipeServiceConfig            `mapstructure:"swipe_service"`
	SafetyService          SafetyServiceConfig           `mapstructure:"safety_service"`
	Notification           NotificationConfig            `mapstructure:"notification"`
}

// AppConfig represents application configuration
type AppConfig struct {
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	Host           string `mapstructure:"host"`
	InternalAPIKey string `mapstructure:"internal_api_key"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"db_name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"`
	Timezone        string `mapstructure:"timezone"`
	MigrationsPath  string `mapstructure:"migrations_path"`
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	MaxRetries   int           `mapstructure:"max_retries"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MatchingConfig holds the strategy-resolver-level knobs of §4.5 and §6.
type MatchingConfig struct {
	Strategy                string        `mapstructure:"strategy"` // "auto", "live", "precomputed"
	DefaultLimit            int           `mapstructure:"default_limit"`
	MaxLimit                int           `mapstructure:"max_limit"`
	DefaultMinScore         float64       `mapstructure:"default_min_score"`
	ActiveWithinDays         int          `mapstructure:"active_within_days"`
	FallbackToLiveOnError   bool          `mapstructure:"fallback_to_live_on_error"`
	LiveMaxUsers            int64         `mapstructure:"live_max_users"` // autoStrategyThresholds.liveMaxUsers
	ActiveUserCountCacheTTL time.Duration `mapstructure:"active_user_count_cache_ttl"`
}

// BackgroundScoringConfig drives the §4.6 refresher.
type BackgroundScoringConfig struct {
	Enabled                bool          `mapstructure:"enabled"`
	RefreshIntervalMinutes int           `mapstructure:"refresh_interval_minutes"`
	MaxUsersPerCycle       int           `mapstructure:"max_users_per_cycle"`
	OnlyRefreshActiveUsers bool          `mapstructure:"only_refresh_active_users"`
	ScoreTTLHours          int           `mapstructure:"score_ttl_hours"`
	SkipRefreshWhenCPUAbove float64      `mapstructure:"skip_refresh_when_cpu_above"`
	MaxConcurrentScoring   int           `mapstructure:"max_concurrent_scoring"`
	InitialDelay           time.Duration `mapstructure:"initial_delay"`
}

// DailyPicksConfig drives the §4.7 generator.
type DailyPicksConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	PicksPerUser     int           `mapstructure:"picks_per_user"`
	GenerationTimeUTC string       `mapstructure:"generation_time_utc"` // "HH:MM"
	ExpiryHours      int           `mapstructure:"expiry_hours"`
	StartupDelay     time.Duration `mapstructure:"startup_delay"`
	MinAfterRunSleep time.Duration `mapstructure:"min_after_run_sleep"`
}

// ScoringConfig drives the §4.3 compatibility scorer.
type ScoringConfig struct {
	DefaultWeights                Weights       `mapstructure:"default_weights"`
	MinimumCompatibilityThreshold float64       `mapstructure:"minimum_compatibility_threshold"`
	ScoreCacheHours                int          `mapstructure:"score_cache_hours"`
	WantsChildrenMismatchPenalty   float64      `mapstructure:"wants_children_mismatch_penalty"`
	HasChildrenMismatchPenalty     float64      `mapstructure:"has_children_mismatch_penalty"`
	SmokingMismatchPenalty         float64      `mapstructure:"smoking_mismatch_penalty"`
	DrinkingMismatchPenalty        float64      `mapstructure:"drinking_mismatch_penalty"`
	ReligionMismatchPenalty        float64      `mapstructure:"religion_mismatch_penalty"`
	ActivityScoreHalfLifeDays      float64      `mapstructure:"activity_score_half_life_days"`
}

// Weights are the requester-level sub-score weights of §3/§4.3.
type Weights struct {
	Location   float64 `mapstructure:"location"`
	Age        float64 `mapstructure:"age"`
	Interests  float64 `mapstructure:"interests"`
	Education  float64 `mapstructure:"education"`
	Lifestyle  float64 `mapstructure:"lifestyle"`
}

// DailySuggestionLimitsConfig drives the §4.9 limiter.
type DailySuggestionLimitsConfig struct {
	MaxDailySuggestions        int `mapstructure:"max_daily_suggestions"`
	PremiumMaxDailySuggestions int `mapstructure:"premium_max_daily_suggestions"`
	RefreshIntervalHours       int `mapstructure:"refresh_interval_hours"`
}

// SwipeServiceConfig configures the outbound client to the external swipe/interaction store.
type SwipeServiceConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	PageSize       int           `mapstructure:"page_size"`
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout"`
}

// SafetyServiceConfig configures the outbound client to the external block/safety store.
type SafetyServiceConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout"`
}

// NotificationConfig configures the fire-and-forget match-event sink.
type NotificationConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Subject string        `mapstructure:"subject"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	setDefaults()

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.port", 8080)
	viper.SetDefault("app.host", "localhost")
	viper.SetDefault("app.internal_api_key", "")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "matchmaking_user")
	viper.SetDefault("database.password", "matchmaking_pass")
	viper.SetDefault("database.db_name", "matchmaking_db")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.conn_max_lifetime", 3600)
	viper.SetDefault("database.conn_max_idle_time", 300)
	viper.SetDefault("database.timezone", "UTC")
	viper.SetDefault("database.migrations_path", "./migrations")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 5)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.dial_timeout", "5s")
	viper.SetDefault("redis.read_timeout", "3s")
	viper.SetDefault("redis.write_timeout", "3s")

	viper.SetDefault("matching.strategy", "auto")
	viper.SetDefault("matching.default_limit", 20)
	viper.SetDefault("matching.max_limit", 50)
	viper.SetDefault("matching.default_min_score", 0.0)
	viper.SetDefault("matching.active_within_days", 30)
	viper.SetDefault("matching.fallback_to_live_on_error", true)
	viper.SetDefault("matching.live_max_users", 10000)
	viper.SetDefault("matching.active_user_count_cache_ttl", "1m")

	viper.SetDefault("background_scoring.enabled", true)
	viper.SetDefault("background_scoring.refresh_interval_minutes", 30)
	viper.SetDefault("background_scoring.max_users_per_cycle", 1000)
	viper.SetDefault("background_scoring.only_refresh_active_users", true)
	viper.SetDefault("background_scoring.score_ttl_hours", 24)
	viper.SetDefault("background_scoring.skip_refresh_when_cpu_above", 80.0)
	viper.SetDefault("background_scoring.max_concurrent_scoring", 5)
	viper.SetDefault("background_scoring.initial_delay", "10s")

	viper.SetDefault("daily_picks.enabled", true)
	viper.SetDefault("daily_picks.picks_per_user", 10)
	viper.SetDefault("daily_picks.generation_time_utc", "03:00")
	viper.SetDefault("daily_picks.expiry_hours", 24)
	viper.SetDefault("daily_picks.startup_delay", "15s")
	viper.SetDefault("daily_picks.min_after_run_sleep", "1h")

	viper.SetDefault("scoring.default_weights.location", 1.0)
	viper.SetDefault("scoring.default_weights.age", 1.0)
	viper.SetDefault("scoring.default_weights.interests", 1.0)
	viper.SetDefault("scoring.default_weights.education", 0.5)
	viper.SetDefault("scoring.default_weights.lifestyle", 1.0)
	viper.SetDefault("scoring.minimum_compatibility_threshold", 30.0)
	viper.SetDefault("scoring.score_cache_hours", 24)
	viper.SetDefault("scoring.wants_children_mismatch_penalty", 30.0)
	viper.SetDefault("scoring.has_children_mismatch_penalty", 15.0)
	viper.SetDefault("scoring.smoking_mismatch_penalty", 20.0)
	viper.SetDefault("scoring.drinking_mismatch_penalty", 15.0)
	viper.SetDefault("scoring.religion_mismatch_penalty", 10.0)
	viper.SetDefault("scoring.activity_score_half_life_days", 7.0)

	viper.SetDefault("daily_suggestion_limits.max_daily_suggestions", 50)
	viper.SetDefault("daily_suggestion_limits.premium_max_daily_suggestions", 150)
	viper.SetDefault("daily_suggestion_limits.refresh_interval_hours", 24)

	viper.SetDefault("swipe_service.base_url", "http://swipe-service.internal")
	viper.SetDefault("swipe_service.timeout", "3s")
	viper.SetDefault("swipe_service.page_size", 200)
	viper.SetDefault("swipe_service.breaker_timeout", "30s")

	viper.SetDefault("safety_service.base_url", "http://safety-service.internal")
	viper.SetDefault("safety_service.timeout", "2s")
	viper.SetDefault("safety_service.breaker_timeout", "30s")

	viper.SetDefault("notification.enabled", false)
	viper.SetDefault("notification.url", "nats://localhost:4222")
	viper.SetDefault("notification.subject", "matches.created")
	viper.SetDefault("notification.timeout", "2s")
}

// Watcher keeps a hot-reloadable snapshot of the subset of Config that §4.5
// and §6 require to be observed without restart (the strategy resolver's
// knobs). Readers call Current(); a background viper.OnConfigChange callback
// swaps the snapshot atomically so the watcher goroutine never blocks a
// reader and a reader never observes a half-written struct.
type Watcher struct {
	snapshot atomic.Pointer[MatchingConfig]
	mu       sync.Mutex
}

// NewWatcher creates a Watcher seeded with the given snapshot and starts
// watching the config file for changes.
func NewWatcher(initial MatchingConfig) *Watcher {
	w := &Watcher{}
	w.snapshot.Store(&initial)

	viper.OnConfigChange(func(in fsnotify.Event) {
		w.mu.Lock()
		defer w.mu.Unlock()

		var fresh MatchingConfig
		if err := viper.UnmarshalKey("matching", &fresh); err != nil {
			return
		}
		w.snapshot.Store(&fresh)
	})
	viper.WatchConfig()

	return w
}

// Current returns the latest observed MatchingConfig snapshot.
func (w *Watcher) Current() MatchingConfig {
	return *w.snapshot.Load()
}
