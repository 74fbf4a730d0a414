package strategies

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/best-koder-ever/matchmaking-service/internal/application/filters"
	"github.com/best-koder-ever/matchmaking-service/internal/application/services"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/internal/infrastructure/external/safety"
	"github.com/best-koder-ever/matchmaking-service/internal/infrastructure/external/swipe"
	"github.com/best-koder-ever/matchmaking-service/pkg/config"
)

// liveProfileRepository serves GetByUserID from an in-memory map and
// CandidateQuery from a sqlmock-backed *gorm.DB, the pattern the filters
// package's own pipeline_test.go establishes.
type liveProfileRepository struct {
	byUser map[int64]*entities.Profile
	db     *gorm.DB
}

func (m *liveProfileRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Profile, error) {
	if p, ok := m.byUser[userID]; ok {
		return p, nil
	}
	return nil, nil
}
func (m *liveProfileRepository) GetByUserIDs(ctx context.Context, userIDs []int64) ([]entities.Profile, error) {
	panic("not used")
}
func (m *liveProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	panic("not used")
}
func (m *liveProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	panic("not used")
}
func (m *liveProfileRepository) Deactivate(ctx context.Context, userID int64) error {
	panic("not used")
}
func (m *liveProfileRepository) CandidateQuery(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ctx).Model(&entities.Profile{})
}
func (m *liveProfileRepository) CountActive(ctx context.Context) (int64, error) { panic("not used") }
func (m *liveProfileRepository) SelectForRefresh(ctx context.Context, limit int, onlyActive bool) ([]entities.Profile, error) {
	panic("not used")
}
func (m *liveProfileRepository) ListActiveUserIDs(ctx context.Context) ([]int64, error) {
	panic("not used")
}
func (m *liveProfileRepository) UpdateLastActive(ctx context.Context, userID int64, at time.Time) error {
	panic("not used")
}
func (m *liveProfileRepository) BatchUpdateLastActive(ctx context.Context, ids []int64, at time.Time) (int, int, error) {
	panic("not used")
}
func (m *liveProfileRepository) DeleteCascade(ctx context.Context, userID int64) error {
	panic("not used")
}

// liveScoreRepository always misses the cache, forcing the scorer to
// recompute fresh; it is not the cache behavior under test here (see
// compatibility_scorer_test.go for that).
type liveScoreRepository struct{}

func (liveScoreRepository) GetFresh(ctx context.Context, userID, targetUserID int64, ttl time.Duration, now time.Time) (*entities.PrecomputedScore, error) {
	return nil, nil
}
func (liveScoreRepository) Upsert(ctx context.Context, score *entities.PrecomputedScore) error {
	return nil
}
func (liveScoreRepository) TopNForUser(ctx context.Context, userID int64, limit int, ttl time.Duration, now time.Time) ([]entities.PrecomputedScore, error) {
	panic("not used")
}
func (liveScoreRepository) InvalidateForTarget(ctx context.Context, targetUserID int64) (int64, error) {
	panic("not used")
}

var _ repositories.PrecomputedScoreRepository = liveScoreRepository{}

func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func emptyJSONServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestLiveStrategy(t *testing.T, db *gorm.DB, byUser map[int64]*entities.Profile) *LiveStrategy {
	t.Helper()

	swipeServer := emptyJSONServer(t, `{"targetUserIds":[],"hasMore":false}`)
	safetyServer := emptyJSONServer(t, `{"blockedUserIds":[]}`)

	swipeClient := swipe.NewClient(config.SwipeServiceConfig{
		BaseURL: swipeServer.URL, Timeout: time.Second, PageSize: 50, BreakerTimeout: time.Second,
	})
	safetyClient := safety.NewClient(config.SafetyServiceConfig{
		BaseURL: safetyServer.URL, Timeout: time.Second, BreakerTimeout: time.Second,
	})

	scorer := services.NewCompatibilityScorer(liveScoreRepository{}, func() config.ScoringConfig {
		return config.ScoringConfig{
			DefaultWeights:            config.Weights{Location: 1, Age: 1, Interests: 1, Education: 0.5, Lifestyle: 1},
			ActivityScoreHalfLifeDays: 7,
		}
	})

	profiles := &liveProfileRepository{byUser: byUser, db: db}
	pipeline := filters.NewPipeline()

	return NewLiveStrategy(
		profiles, scorer, pipeline, swipeClient, safetyClient,
		func() config.ScoringConfig {
			return config.ScoringConfig{
				DefaultWeights:            config.Weights{Location: 1, Age: 1, Interests: 1, Education: 0.5, Lifestyle: 1},
				ActivityScoreHalfLifeDays: 7,
			}
		},
		func() config.MatchingConfig { return config.MatchingConfig{MaxLimit: 50, DefaultMinScore: 0} },
	)
}

func TestLiveStrategy_InactiveRequesterYieldsEmptyResult(t *testing.T) {
	db, _ := newMockGormDB(t)
	requester := &entities.Profile{UserID: 1, IsActive: false}
	strategy := newTestLiveStrategy(t, db, map[int64]*entities.Profile{1: requester})

	result, err := strategy.GetCandidates(context.Background(), 1, Request{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
	assert.Equal(t, "Live", result.StrategyName)
}

func TestLiveStrategy_MissingRequesterYieldsEmptyResult(t *testing.T) {
	db, _ := newMockGormDB(t)
	strategy := newTestLiveStrategy(t, db, map[int64]*entities.Profile{})

	result, err := strategy.GetCandidates(context.Background(), 1, Request{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
}

func TestLiveStrategy_ScoresAndOrdersCandidatesByFinalScore(t *testing.T) {
	db, mock := newMockGormDB(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "gender", "age", "is_active", "is_verified", "desirability_score", "last_active_at"}).
		AddRow(1, int64(201), "female", 27, true, true, 80.0, now).
		AddRow(2, int64(202), "female", 29, true, true, 40.0, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(rows)

	requester := &entities.Profile{
		UserID: 1, Gender: "male", Age: 30, IsActive: true,
		PreferredGender: "female", MinAge: 18, MaxAge: 99, MaxDistanceKm: 100,
	}
	strategy := newTestLiveStrategy(t, db, map[int64]*entities.Profile{1: requester})

	result, err := strategy.GetCandidates(context.Background(), 1, Request{Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)
	assert.GreaterOrEqual(t, result.Candidates[0].FinalScore, result.Candidates[1].FinalScore, "results must be sorted by FinalScore descending")
	assert.Equal(t, int64(201), result.Candidates[0].Profile.UserID, "the higher-desirability candidate should rank first when compatibility ties")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLiveStrategy_OnlyVerifiedExcludesUnverifiedCandidates(t *testing.T) {
	db, mock := newMockGormDB(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "gender", "age", "is_active", "is_verified", "desirability_score", "last_active_at"}).
		AddRow(1, int64(201), "female", 27, true, false, 80.0, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(rows)

	requester := &entities.Profile{
		UserID: 1, Gender: "male", Age: 30, IsActive: true,
		PreferredGender: "female", MinAge: 18, MaxAge: 99, MaxDistanceKm: 100,
	}
	strategy := newTestLiveStrategy(t, db, map[int64]*entities.Profile{1: requester})

	result, err := strategy.GetCandidates(context.Background(), 1, Request{Limit: 10, OnlyVerified: true})
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
}
