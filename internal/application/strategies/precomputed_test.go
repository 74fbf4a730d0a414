package strategies

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/best-koder-ever/matchmaking-service/internal/application/filters"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/pkg/config"
)

// precomputedScoreRepository serves TopNForUser from an in-memory slice;
// every other method panics since PreComputedStrategy only calls TopNForUser.
type precomputedScoreRepository struct {
	rows []entities.PrecomputedScore
	err  error
}

func (m *precomputedScoreRepository) GetFresh(ctx context.Context, userID, targetUserID int64, ttl time.Duration, now time.Time) (*entities.PrecomputedScore, error) {
	panic("not used")
}
func (m *precomputedScoreRepository) Upsert(ctx context.Context, score *entities.PrecomputedScore) error {
	panic("not used")
}
func (m *precomputedScoreRepository) TopNForUser(ctx context.Context, userID int64, limit int, ttl time.Duration, now time.Time) ([]entities.PrecomputedScore, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}
func (m *precomputedScoreRepository) InvalidateForTarget(ctx context.Context, targetUserID int64) (int64, error) {
	panic("not used")
}

func TestPreComputedStrategy_FallsBackToLiveOnEmptyCache(t *testing.T) {
	db, mock := newMockGormDB(t)
	mock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))

	requester := &entities.Profile{UserID: 1, IsActive: true}
	live := newTestLiveStrategy(t, db, map[int64]*entities.Profile{1: requester})

	scores := &precomputedScoreRepository{rows: nil}
	profiles := &liveProfileRepository{byUser: map[int64]*entities.Profile{1: requester}, db: db}
	pipeline := filters.NewPipeline()
	strategy := NewPreComputedStrategy(profiles, scores, pipeline, live,
		func() config.ScoringConfig { return config.ScoringConfig{ScoreCacheHours: 24} },
		func() config.MatchingConfig { return config.MatchingConfig{MaxLimit: 50, DefaultMinScore: 0} },
	)

	result, err := strategy.GetCandidates(context.Background(), 1, Request{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "Live", result.StrategyName, "an empty precomputed cache must fall back to Live entirely")
	assert.Empty(t, result.Candidates)
}

func TestPreComputedStrategy_InactiveRequesterYieldsEmptyResult(t *testing.T) {
	db, _ := newMockGormDB(t)
	requester := &entities.Profile{UserID: 1, IsActive: false}
	profiles := &liveProfileRepository{byUser: map[int64]*entities.Profile{1: requester}, db: db}
	scores := &precomputedScoreRepository{}
	pipeline := filters.NewPipeline()

	strategy := NewPreComputedStrategy(profiles, scores, pipeline, nil,
		func() config.ScoringConfig { return config.ScoringConfig{ScoreCacheHours: 24} },
		func() config.MatchingConfig { return config.MatchingConfig{MaxLimit: 50} },
	)

	result, err := strategy.GetCandidates(context.Background(), 1, Request{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
}

func TestPreComputedStrategy_ServesFromCacheWithoutSupplementingWhenFull(t *testing.T) {
	db, mock := newMockGormDB(t)

	candidateRows := sqlmock.NewRows([]string{"id", "user_id", "is_active", "is_verified"}).
		AddRow(1, int64(201), true, true).
		AddRow(2, int64(202), true, true)
	mock.ExpectQuery(".*").WillReturnRows(candidateRows)

	requester := &entities.Profile{UserID: 1, IsActive: true}
	profiles := &liveProfileRepository{byUser: map[int64]*entities.Profile{1: requester}, db: db}

	scores := &precomputedScoreRepository{rows: []entities.PrecomputedScore{
		{UserID: 1, TargetUserID: 201, OverallScore: 90, ActivityScore: 70},
		{UserID: 1, TargetUserID: 202, OverallScore: 60, ActivityScore: 50},
	}}
	pipeline := filters.NewPipeline()

	strategy := NewPreComputedStrategy(profiles, scores, pipeline, nil,
		func() config.ScoringConfig { return config.ScoringConfig{ScoreCacheHours: 24} },
		func() config.MatchingConfig { return config.MatchingConfig{MaxLimit: 50, DefaultMinScore: 0} },
	)

	result, err := strategy.GetCandidates(context.Background(), 1, Request{Limit: 2})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "PreComputed", result.StrategyName)
	assert.GreaterOrEqual(t, result.Candidates[0].FinalScore, result.Candidates[1].FinalScore)
	assert.True(t, result.QueueExhausted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreComputedStrategy_BelowMinScoreRowsAreExcluded(t *testing.T) {
	db, mock := newMockGormDB(t)

	// The cached rows come from the fake score repository. One query is the
	// filter pipeline's re-check of those candidates, a second is Live's
	// supplement pass once every cached row is filtered out by minScore.
	candidateRows := sqlmock.NewRows([]string{"id", "user_id", "is_active", "is_verified"}).
		AddRow(1, int64(201), true, true)
	mock.ExpectQuery(".*").WillReturnRows(candidateRows)
	mock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))

	requester := &entities.Profile{UserID: 1, IsActive: true}
	profiles := &liveProfileRepository{byUser: map[int64]*entities.Profile{1: requester}, db: db}
	live := newTestLiveStrategy(t, db, map[int64]*entities.Profile{1: requester})

	scores := &precomputedScoreRepository{rows: []entities.PrecomputedScore{
		{UserID: 1, TargetUserID: 201, OverallScore: 10},
	}}
	pipeline := filters.NewPipeline()

	strategy := NewPreComputedStrategy(profiles, scores, pipeline, live,
		func() config.ScoringConfig { return config.ScoringConfig{ScoreCacheHours: 24} },
		func() config.MatchingConfig { return config.MatchingConfig{MaxLimit: 50, DefaultMinScore: 50} },
	)

	result, err := strategy.GetCandidates(context.Background(), 1, Request{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Candidates, "a row below the effective minimum score must be excluded, and Live's supplement also finds nothing here")
}
