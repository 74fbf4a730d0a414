// Package services holds the matching engine's stateless and
// lightly-stateful business logic: the compatibility scorer, the
// desirability calculator, and the daily-suggestion limiter below.
package services

import (
	"sync"
	"time"

	"github.com/best-koder-ever/matchmaking-service/pkg/config"
)

// SuggestionLimiterOption configures limiter construction.
type SuggestionLimiterOption func(*SuggestionLimiter)

// suggestionBudget tracks one user's daily view budget.
type suggestionBudget struct {
	shownToday    int
	lastResetDate time.Time
}

// SuggestionLimiter enforces the per-user, per-day candidate-view budget
// (§4.9). It is process-local: state lives in an in-memory map guarded by a
// single mutex, per §5's "shared in-memory mutable state" and §9's
// "Replacing per-process singletons for limiter" note. A fresh process
// resets every user's budget immediately — multi-replica correctness
// requires a shared key-value backend outside this package.
type SuggestionLimiter struct {
	mu    sync.Mutex
	cfg   func() config.DailySuggestionLimitsConfig
	state map[int64]*suggestionBudget
	now   func() time.Time
}

// NewSuggestionLimiter builds a limiter reading its knobs from cfg on every
// call so maxDailySuggestions etc. stay hot-reloadable per §6.
func NewSuggestionLimiter(cfg func() config.DailySuggestionLimitsConfig, opts ...SuggestionLimiterOption) *SuggestionLimiter {
	l := &SuggestionLimiter{
		cfg:   cfg,
		state: make(map[int64]*suggestionBudget),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// withClock overrides the limiter's time source, for deterministic tests.
func withClock(now func() time.Time) SuggestionLimiterOption {
	return func(l *SuggestionLimiter) { l.now = now }
}

func (l *SuggestionLimiter) maxFor(isPremium bool, cfg config.DailySuggestionLimitsConfig) int {
	if isPremium {
		return cfg.PremiumMaxDailySuggestions
	}
	return cfg.MaxDailySuggestions
}

// CheckAndIncrement resets the caller's budget if the configured refresh
// interval has elapsed since lastResetDate, then consumes one unit of
// budget if any remains.
func (l *SuggestionLimiter) CheckAndIncrement(userID int64, isPremium bool) (allowed bool, remaining int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg := l.cfg()
	max := l.maxFor(isPremium, cfg)
	budget := l.resetIfDue(userID, cfg)

	if budget.shownToday < max {
		budget.shownToday++
		return true, max - budget.shownToday
	}
	return false, 0
}

// Status reports the caller's current budget without consuming it.
func (l *SuggestionLimiter) Status(userID int64, isPremium bool) (shownToday, max, remaining int, lastResetDate, nextResetDate time.Time, queueExhausted bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg := l.cfg()
	max = l.maxFor(isPremium, cfg)
	budget := l.resetIfDue(userID, cfg)

	remaining = max - budget.shownToday
	if remaining < 0 {
		remaining = 0
	}
	nextReset := budget.lastResetDate.Add(time.Duration(cfg.RefreshIntervalHours) * time.Hour)

	return budget.shownToday, max, remaining, budget.lastResetDate, nextReset, remaining == 0
}

// resetIfDue must be called with l.mu held.
func (l *SuggestionLimiter) resetIfDue(userID int64, cfg config.DailySuggestionLimitsConfig) *suggestionBudget {
	now := l.now()
	budget, ok := l.state[userID]
	if !ok {
		budget = &suggestionBudget{lastResetDate: now}
		l.state[userID] = budget
		return budget
	}

	if now.Sub(budget.lastResetDate) >= time.Duration(cfg.RefreshIntervalHours)*time.Hour {
		budget.shownToday = 0
		budget.lastResetDate = now
	}
	return budget
}
