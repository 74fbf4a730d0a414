package strategies

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/pkg/config"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

// Resolver chooses between Live and Pre-computed per request (§4.5); the
// "dailypick" override selects Daily-pick, or Live when none is wired. It is
// pure with respect to its inputs and reads its knobs from a hot-reloadable
// config.Watcher snapshot, never a stale copy taken at boot.
type Resolver struct {
	live        Strategy
	precomputed Strategy
	dailyPick   Strategy
	profiles    repositories.ProfileRepository
	watcher     *config.Watcher
	activeCount *gocache.Cache
}

const activeUserCountCacheKey = "active_user_count"

// NewResolver builds a Resolver. cacheTTL comes from
// matching.active_user_count_cache_ttl.
func NewResolver(
	live Strategy,
	precomputed Strategy,
	dailyPick Strategy,
	profiles repositories.ProfileRepository,
	watcher *config.Watcher,
	cacheTTL time.Duration,
) *Resolver {
	return &Resolver{
		live:        live,
		precomputed: precomputed,
		dailyPick:   dailyPick,
		profiles:    profiles,
		watcher:     watcher,
		activeCount: gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// Resolve picks a Strategy. override is the per-request `strategy` query
// parameter, already lower-cased by the caller; empty means "use config".
// Any resolution failure (unknown name, active-count lookup failure) logs a
// warning and falls back to Live — §7 StrategyResolution never propagates
// as an error.
func (r *Resolver) Resolve(ctx context.Context, override string) Strategy {
	choice := override
	if choice == "" {
		choice = r.watcher.Current().Strategy
	}

	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "live":
		return r.live
	case "precomputed":
		return r.precomputed
	case "dailypick":
		if r.dailyPick != nil {
			return r.dailyPick
		}
		return r.live
	case "auto", "":
		return r.resolveAuto(ctx)
	default:
		logger.Warnf("strategy resolver: unknown strategy %q, falling back to Live", choice)
		return r.live
	}
}

func (r *Resolver) resolveAuto(ctx context.Context) Strategy {
	count, err := r.activeUserCount(ctx)
	if err != nil {
		logger.Warnf("strategy resolver: active user count lookup failed, falling back to Live: %v", err)
		return r.live
	}

	if count <= r.watcher.Current().LiveMaxUsers {
		return r.live
	}
	return r.precomputed
}

func (r *Resolver) activeUserCount(ctx context.Context) (int64, error) {
	if cached, found := r.activeCount.Get(activeUserCountCacheKey); found {
		return cached.(int64), nil
	}

	count, err := r.profiles.CountActive(ctx)
	if err != nil {
		return 0, err
	}

	r.activeCount.SetDefault(activeUserCountCacheKey, count)
	return count, nil
}
