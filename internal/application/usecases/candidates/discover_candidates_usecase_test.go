package candidates

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/best-koder-ever/matchmaking-service/internal/application/services"
	"github.com/best-koder-ever/matchmaking-service/internal/application/strategies"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/valueobjects"
	"github.com/best-koder-ever/matchmaking-service/pkg/config"
)

// fakeStrategy is a canned strategies.Strategy, letting these tests exercise
// the use case's mapping and budget-gating logic in isolation from any real
// scoring pipeline.
type fakeStrategy struct {
	name   string
	result strategies.Result
	err    error
	called bool
}

func (f *fakeStrategy) Name() string { return f.name }
func (f *fakeStrategy) GetCandidates(ctx context.Context, userID int64, req strategies.Request) (strategies.Result, error) {
	f.called = true
	return f.result, f.err
}

func newTestResolver(live strategies.Strategy) *strategies.Resolver {
	return strategies.NewResolver(live, live, live, nil, nil, 0)
}

func newTestLimiter(max int) *services.SuggestionLimiter {
	return services.NewSuggestionLimiter(func() config.DailySuggestionLimitsConfig {
		return config.DailySuggestionLimitsConfig{MaxDailySuggestions: max, PremiumMaxDailySuggestions: max * 5, RefreshIntervalHours: 24}
	})
}

func TestDiscoverCandidatesUseCase_MapsStrategyResultOntoResponseShape(t *testing.T) {
	candidate := &entities.Profile{UserID: 201, Age: 28, Gender: valueobjects.GenderFemale, City: "Berlin", IsVerified: true, Interests: valueobjects.StringSet{"hiking", "jazz"}}
	live := &fakeStrategy{name: "Live", result: strategies.Result{
		StrategyName:  "Live",
		TotalFiltered: 5,
		TotalScored:   5,
		Candidates: []strategies.CandidateResult{
			{Profile: candidate, CompatibilityScore: 80, ActivityScore: 60, DesirabilityScore: 55, FinalScore: 72},
		},
	}}

	uc := NewDiscoverCandidatesUseCase(newTestResolver(live), newTestLimiter(20))
	resp, err := uc.Execute(context.Background(), Request{UserID: 1, Limit: 10, Strategy: "live"})
	require.NoError(t, err)

	require.Len(t, resp.Candidates, 1)
	c := resp.Candidates[0]
	assert.Equal(t, int64(201), c.UserID)
	assert.Equal(t, 28, c.Age)
	assert.Equal(t, "female", c.Gender)
	assert.Equal(t, "Berlin", c.City)
	assert.Equal(t, 72.0, c.Compatibility)
	assert.Equal(t, "Live", c.StrategyUsed)
	assert.True(t, c.IsVerified)
	assert.ElementsMatch(t, []string{"hiking", "jazz"}, c.Interests)
	assert.Equal(t, 5, resp.TotalFiltered)
}

func TestDiscoverCandidatesUseCase_ExhaustedBudgetYieldsEmptyResultWithoutCallingStrategy(t *testing.T) {
	live := &fakeStrategy{name: "Live", result: strategies.Result{}}
	limiter := newTestLimiter(1)
	limiter.CheckAndIncrement(1, false) // consume the only unit of budget

	uc := NewDiscoverCandidatesUseCase(newTestResolver(live), limiter)
	resp, err := uc.Execute(context.Background(), Request{UserID: 1, Limit: 10, Strategy: "live"})
	require.NoError(t, err)

	assert.Empty(t, resp.Candidates)
	assert.True(t, resp.QueueExhausted)
	assert.Equal(t, 0, resp.SuggestionsRemaining)
	assert.False(t, live.called)
}

func TestDiscoverCandidatesUseCase_StrategyErrorPropagates(t *testing.T) {
	live := &fakeStrategy{name: "Live", err: errors.New("scoring failed")}
	uc := NewDiscoverCandidatesUseCase(newTestResolver(live), newTestLimiter(20))

	_, err := uc.Execute(context.Background(), Request{UserID: 1, Limit: 10, Strategy: "live"})
	assert.Error(t, err)
}

func TestDiscoverCandidatesUseCase_FallsBackToLimiterRemainingWhenStrategyReportsZeroWithoutExhaustion(t *testing.T) {
	live := &fakeStrategy{name: "Live", result: strategies.Result{StrategyName: "Live", QueueExhausted: false, SuggestionsRemaining: 0}}
	uc := NewDiscoverCandidatesUseCase(newTestResolver(live), newTestLimiter(20))

	resp, err := uc.Execute(context.Background(), Request{UserID: 1, Limit: 10, Strategy: "live"})
	require.NoError(t, err)
	assert.Equal(t, 19, resp.SuggestionsRemaining, "the use case should report the limiter's own remaining count when the strategy didn't set one")
}
