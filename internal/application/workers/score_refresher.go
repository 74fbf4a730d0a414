// Package workers holds the two long-running background jobs (§4.6, §4.7):
// the score refresher and the daily-pick generator.
package workers

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/load"

	"github.com/best-koder-ever/matchmaking-service/internal/application/filters"
	"github.com/best-koder-ever/matchmaking-service/internal/application/services"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/internal/infrastructure/external/safety"
	"github.com/best-koder-ever/matchmaking-service/internal/infrastructure/external/swipe"
	"github.com/best-koder-ever/matchmaking-service/pkg/config"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

const scoreRefresherFilterCap = 150

// ScoreRefresher periodically rebuilds PrecomputedScore rows, staleness
// first, with a CPU-load guard and bounded per-cycle concurrency (§4.6).
//
// The row it writes is not the §4.3 requester-weighted overallScore: §4.6
// step 4c reuses Live's own base formula (liveBaseCompatWeight etc., see
// strategies.LiveStrategy) so the Pre-computed strategy's ranking tracks
// what Live would have produced on the fly.
type ScoreRefresher struct {
	profiles     repositories.ProfileRepository
	scores       repositories.PrecomputedScoreRepository
	scorer       *services.CompatibilityScorer
	desirability *services.DesirabilityCalculator
	pipeline     *filters.Pipeline
	swipe        *swipe.Client
	safety       *safety.Client
	cfg          func() config.BackgroundScoringConfig
	scoring      func() config.ScoringConfig
	matching     func() config.MatchingConfig

	lastProcessedUserID int64
}

// refreshBaseCompatWeight, refreshBaseActivityWeight and
// refreshBaseDesirabilityWeight mirror strategies.liveBaseCompatWeight and
// its siblings: the refresher caches the same base score Live computes, so
// the two never disagree about what "overall" means (§4.6 step 4c).
const (
	refreshBaseCompatWeight       = 0.7
	refreshBaseActivityWeight     = 0.15
	refreshBaseDesirabilityWeight = 0.15
)

// NewScoreRefresher builds the refresher.
func NewScoreRefresher(
	profiles repositories.ProfileRepository,
	scores repositories.PrecomputedScoreRepository,
	scorer *services.CompatibilityScorer,
	desirability *services.DesirabilityCalculator,
	pipeline *filters.Pipeline,
	swipeClient *swipe.Client,
	safetyClient *safety.Client,
	cfg func() config.BackgroundScoringConfig,
	scoringCfg func() config.ScoringConfig,
	matchingCfg func() config.MatchingConfig,
) *ScoreRefresher {
	return &ScoreRefresher{
		profiles:     profiles,
		scores:       scores,
		scorer:       scorer,
		desirability: desirability,
		pipeline:     pipeline,
		swipe:        swipeClient,
		safety:       safetyClient,
		cfg:          cfg,
		scoring:      scoringCfg,
		matching:     matchingCfg,
	}
}

// Run blocks until ctx is cancelled, running one cycle per
// refreshIntervalMinutes after an initial boot delay. Cancellation is
// observed promptly between cycles and between users within a cycle; an
// in-flight user always finishes, but the next never starts.
func (r *ScoreRefresher) Run(ctx context.Context) {
	initial := r.cfg().InitialDelay
	if initial <= 0 {
		initial = 10 * time.Second
	}

	select {
	case <-ctx.Done():
		logger.Info("score refresher: stopping gracefully before first cycle")
		return
	case <-time.After(initial):
	}

	for {
		r.runCycle(ctx)

		interval := time.Duration(r.cfg().RefreshIntervalMinutes) * time.Minute
		if interval <= 0 {
			interval = 30 * time.Minute
		}

		select {
		case <-ctx.Done():
			logger.Info("score refresher: stopping gracefully")
			return
		case <-time.After(interval):
		}
	}
}

func (r *ScoreRefresher) runCycle(ctx context.Context) {
	cfg := r.cfg()
	if !cfg.Enabled {
		return
	}

	if percent, ok := load1Percent(); ok && percent > cfg.SkipRefreshWhenCPUAbove {
		logger.Warnf("score refresher: skipping cycle, load at %.1f%% exceeds threshold %.1f%%", percent, cfg.SkipRefreshWhenCPUAbove)
		return
	}

	batch, err := r.profiles.SelectForRefresh(ctx, cfg.MaxUsersPerCycle, cfg.OnlyRefreshActiveUsers)
	if err != nil {
		logger.Warnf("score refresher: failed to select batch: %v", err)
		return
	}
	if len(batch) == 0 {
		return
	}

	concurrency := cfg.MaxConcurrentScoring
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	filterLimit := r.matching().MaxLimit * 3
	if filterLimit > scoreRefresherFilterCap {
		filterLimit = scoreRefresherFilterCap
	}

	var wg sync.WaitGroup
	for i := range batch {
		if ctx.Err() != nil {
			break
		}

		requester := batch[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			r.refreshUser(ctx, &requester, filterLimit)
		}()

		r.lastProcessedUserID = requester.UserID
	}
	wg.Wait()

	r.desirability.RecalculateBatch(ctx, batch)
}

func (r *ScoreRefresher) refreshUser(ctx context.Context, requester *entities.Profile, filterLimit int) {
	swipedIDs := r.swipe.SwipedUserIDs(ctx, requester.UserID)
	blockedIDs := r.safety.BlockedUserIDs(ctx)

	candidates, _, err := r.pipeline.Run(ctx, r.profiles.CandidateQuery(ctx), &filters.Context{
		Requester:  requester,
		SwipedIDs:  swipedIDs,
		BlockedIDs: blockedIDs,
	}, filterLimit)
	if err != nil {
		logger.Warnf("score refresher: filter pipeline failed for user %d: %v", requester.UserID, err)
		return
	}

	scoringCfg := r.scoring()
	now := time.Now().UTC()

	for i := range candidates {
		target := &candidates[i]

		compat, _, err := r.scorer.Score(ctx, requester, target)
		if err != nil {
			logger.Warnf("score refresher: scoring user %d -> %d failed: %v", requester.UserID, target.UserID, err)
			continue
		}

		activity := services.ExponentialActivityDecay(target.LastActiveAt, now, scoringCfg.ActivityScoreHalfLifeDays)
		desirability := target.DesirabilityScore
		overall := refreshBaseCompatWeight*compat + refreshBaseActivityWeight*activity + refreshBaseDesirabilityWeight*desirability

		row := &entities.PrecomputedScore{
			UserID:         requester.UserID,
			TargetUserID:   target.UserID,
			OverallScore:   overall,
			LifestyleScore: compat,
			ActivityScore:  activity,
			CalculatedAt:   now,
			IsValid:        true,
		}
		if err := r.scores.Upsert(ctx, row); err != nil {
			logger.Warnf("score refresher: failed to cache score for user %d -> %d: %v", requester.UserID, target.UserID, err)
		}
	}
}

// load1Percent reports the 1-minute load average as a percentage of CPU
// count, on platforms exposing it. ok is false on platforms that don't
// (§4.6 step 2: on such platforms, never skip).
func load1Percent() (percent float64, ok bool) {
	avg, err := load.Avg()
	if err != nil {
		return 0, false
	}
	cpuCount := runtime.NumCPU()
	if cpuCount <= 0 {
		return 0, false
	}
	return avg.Load1 / float64(cpuCount) * 100, true
}
