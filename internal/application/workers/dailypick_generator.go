package workers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/best-koder-ever/matchmaking-service/internal/application/strategies"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/pkg/config"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

const dailyPickMinScore = 10.0

type batchPlan struct {
	size  int
	delay time.Duration
}

// adaptiveBatchPlan is the §4.7 step-3 population table.
func adaptiveBatchPlan(population int) batchPlan {
	switch {
	case population < 1000:
		return batchPlan{size: population, delay: 0}
	case population < 10000:
		return batchPlan{size: 100, delay: 100 * time.Millisecond}
	case population < 100000:
		return batchPlan{size: 200, delay: 500 * time.Millisecond}
	default:
		return batchPlan{size: 500, delay: time.Second}
	}
}

// DailyPickGenerator materializes each active user's top-N picks once a
// day, with adaptive batching by population and an anti-double-run guard
// (§4.7).
type DailyPickGenerator struct {
	picks    repositories.DailyPickRepository
	profiles repositories.ProfileRepository
	live     *strategies.LiveStrategy
	cfg      func() config.DailyPicksConfig
}

// NewDailyPickGenerator builds the generator.
func NewDailyPickGenerator(
	picks repositories.DailyPickRepository,
	profiles repositories.ProfileRepository,
	live *strategies.LiveStrategy,
	cfg func() config.DailyPicksConfig,
) *DailyPickGenerator {
	return &DailyPickGenerator{picks: picks, profiles: profiles, live: live, cfg: cfg}
}

// Run blocks until ctx is cancelled. It waits the post-startup delay, then
// schedules Generate at the configured UTC time every day via robfig/cron,
// running until cancellation.
func (g *DailyPickGenerator) Run(ctx context.Context) {
	startupDelay := g.cfg().StartupDelay
	if startupDelay <= 0 {
		startupDelay = 15 * time.Second
	}

	select {
	case <-ctx.Done():
		logger.Info("daily pick generator: stopping gracefully before first run")
		return
	case <-time.After(startupDelay):
	}

	spec, err := cronSpecFromHHMM(g.cfg().GenerationTimeUTC)
	if err != nil {
		logger.Warnf("daily pick generator: invalid generation_time_utc %q, defaulting to 03:00: %v", g.cfg().GenerationTimeUTC, err)
		spec = "0 3 * * *"
	}

	c := cron.New(cron.WithLocation(time.UTC))
	_, err = c.AddFunc(spec, func() { g.Generate(ctx) })
	if err != nil {
		logger.Errorf("daily pick generator: failed to schedule cron %q: %v", spec, err)
		return
	}
	c.Start()
	defer c.Stop()

	<-ctx.Done()
	logger.Info("daily pick generator: stopping gracefully")
}

// Generate runs one full generation cycle. Exported so it can also be
// invoked directly (e.g. an operator-triggered backfill) without waiting
// for the schedule.
func (g *DailyPickGenerator) Generate(ctx context.Context) {
	if !g.cfg().Enabled {
		return
	}

	now := time.Now().UTC()
	if lastRun, ok, err := g.picks.LastGeneratedAt(ctx); err == nil && ok {
		minSleep := g.cfg().MinAfterRunSleep
		if minSleep <= 0 {
			minSleep = time.Hour
		}
		if now.Sub(lastRun) < minSleep {
			logger.Info("daily pick generator: skipping run, within the minimum post-run sleep window")
			return
		}
	}

	if _, err := g.picks.DeleteExpired(ctx, now); err != nil {
		logger.Warnf("daily pick generator: failed to delete expired picks: %v", err)
	}

	userIDs, err := g.profiles.ListActiveUserIDs(ctx)
	if err != nil {
		logger.Errorf("daily pick generator: failed to list active users: %v", err)
		return
	}

	plan := adaptiveBatchPlan(len(userIDs))
	batchSize := plan.size
	if batchSize <= 0 {
		batchSize = len(userIDs)
	}

	for start := 0; start < len(userIDs); start += batchSize {
		if ctx.Err() != nil {
			logger.Info("daily pick generator: stopping gracefully mid-run")
			return
		}

		end := start + batchSize
		if end > len(userIDs) {
			end = len(userIDs)
		}
		g.generateBatch(ctx, userIDs[start:end])

		if plan.delay > 0 && end < len(userIDs) {
			time.Sleep(plan.delay)
		}
	}

	if err := g.picks.RecordGeneratedAt(ctx, now); err != nil {
		logger.Warnf("daily pick generator: failed to record generation marker: %v", err)
	}
}

func (g *DailyPickGenerator) generateBatch(ctx context.Context, userIDs []int64) {
	picksPerUser := g.cfg().PicksPerUser
	if picksPerUser <= 0 {
		picksPerUser = 10
	}
	expiry := time.Duration(g.cfg().ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	now := time.Now().UTC()

	for _, userID := range userIDs {
		result, err := g.live.GetCandidates(ctx, userID, strategies.Request{
			Limit:    picksPerUser * 2,
			MinScore: dailyPickMinScore,
		})
		if err != nil {
			logger.Warnf("daily pick generator: live strategy failed for user %d: %v", userID, err)
			continue
		}

		n := picksPerUser
		if n > len(result.Candidates) {
			n = len(result.Candidates)
		}
		if n == 0 {
			continue
		}

		rows := make([]entities.DailyPick, n)
		for i := 0; i < n; i++ {
			rows[i] = entities.DailyPick{
				UserID:          userID,
				CandidateUserID: result.Candidates[i].Profile.UserID,
				Score:           result.Candidates[i].FinalScore,
				Rank:            i + 1,
				GeneratedAt:     now,
				ExpiresAt:       now.Add(expiry),
				Seen:            false,
				Acted:           false,
			}
		}

		if err := g.picks.InsertBatch(ctx, rows); err != nil {
			logger.Warnf("daily pick generator: failed to insert picks for user %d: %v", userID, err)
		}
	}
}

// cronSpecFromHHMM turns "HH:MM" into a 5-field UTC cron spec.
func cronSpecFromHHMM(hhmm string) (string, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("expected HH:MM, got %q", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", hhmm)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
