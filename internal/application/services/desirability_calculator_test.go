package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
)

// memoryMetricRepository is an in-memory AlgorithmMetricRepository fake.
type memoryMetricRepository struct {
	byUser map[int64]*entities.AlgorithmMetric
}

func (m *memoryMetricRepository) LatestForUsers(ctx context.Context, userIDs []int64) (map[int64]*entities.AlgorithmMetric, error) {
	result := make(map[int64]*entities.AlgorithmMetric)
	for _, id := range userIDs {
		if metric, ok := m.byUser[id]; ok {
			result[id] = metric
		}
	}
	return result, nil
}

// memoryProfileRepository records every Update call and serves GetByUserID
// from byUser; every other method panics since neither DesirabilityCalculator
// nor InteractionRecorder exercises them.
type memoryProfileRepository struct {
	byUser  map[int64]*entities.Profile
	updated map[int64]*entities.Profile
}

func newMemoryProfileRepository() *memoryProfileRepository {
	return &memoryProfileRepository{byUser: map[int64]*entities.Profile{}, updated: map[int64]*entities.Profile{}}
}

func (m *memoryProfileRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Profile, error) {
	if p, ok := m.byUser[userID]; ok {
		return p, nil
	}
	return nil, nil
}
func (m *memoryProfileRepository) GetByUserIDs(ctx context.Context, userIDs []int64) ([]entities.Profile, error) {
	panic("not used")
}
func (m *memoryProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	panic("not used")
}
func (m *memoryProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	cp := *profile
	m.updated[profile.UserID] = &cp
	return nil
}
func (m *memoryProfileRepository) Deactivate(ctx context.Context, userID int64) error {
	panic("not used")
}
func (m *memoryProfileRepository) CandidateQuery(ctx context.Context) *gorm.DB { panic("not used") }
func (m *memoryProfileRepository) CountActive(ctx context.Context) (int64, error) {
	panic("not used")
}
func (m *memoryProfileRepository) SelectForRefresh(ctx context.Context, limit int, onlyActive bool) ([]entities.Profile, error) {
	panic("not used")
}
func (m *memoryProfileRepository) ListActiveUserIDs(ctx context.Context) ([]int64, error) {
	panic("not used")
}
func (m *memoryProfileRepository) UpdateLastActive(ctx context.Context, userID int64, at time.Time) error {
	panic("not used")
}
func (m *memoryProfileRepository) BatchUpdateLastActive(ctx context.Context, ids []int64, at time.Time) (int, int, error) {
	panic("not used")
}
func (m *memoryProfileRepository) DeleteCascade(ctx context.Context, userID int64) error {
	panic("not used")
}

func TestDesirabilityCalculator_BelowMinSwipesUsesDefault(t *testing.T) {
	metrics := &memoryMetricRepository{byUser: map[int64]*entities.AlgorithmMetric{
		1: {UserID: 1, SwipesReceived: 5, LikesReceived: 5, CalculatedAt: time.Now().UTC()},
	}}
	profiles := newMemoryProfileRepository()
	calc := NewDesirabilityCalculator(profiles, metrics)

	batch := []entities.Profile{{UserID: 1, DesirabilityScore: 50}}
	calc.RecalculateBatch(context.Background(), batch)

	_, persisted := profiles.updated[1]
	assert.False(t, persisted, "below desirabilityMinSwipes, the score stays at the default and isn't persisted when unchanged")
}

func TestDesirabilityCalculator_PersistsWhenScoreMovesPastThreshold(t *testing.T) {
	metrics := &memoryMetricRepository{byUser: map[int64]*entities.AlgorithmMetric{
		1: {UserID: 1, SwipesReceived: 100, LikesReceived: 80, CalculatedAt: time.Now().UTC()},
	}}
	profiles := newMemoryProfileRepository()
	calc := NewDesirabilityCalculator(profiles, metrics)

	batch := []entities.Profile{{UserID: 1, DesirabilityScore: 50}}
	calc.RecalculateBatch(context.Background(), batch)

	updated, persisted := profiles.updated[1]
	assert.True(t, persisted)
	assert.Greater(t, updated.DesirabilityScore, 50.0, "a high like rate should push desirability above the neutral default")
}

func TestDesirabilityCalculator_NoMetricKeepsDefaultUnpersisted(t *testing.T) {
	metrics := &memoryMetricRepository{byUser: map[int64]*entities.AlgorithmMetric{}}
	profiles := newMemoryProfileRepository()
	calc := NewDesirabilityCalculator(profiles, metrics)

	batch := []entities.Profile{{UserID: 1, DesirabilityScore: 50}}
	calc.RecalculateBatch(context.Background(), batch)

	_, persisted := profiles.updated[1]
	assert.False(t, persisted)
}

func TestBayesianDesirability_HighLikeRateScoresAboveNeutral(t *testing.T) {
	now := time.Now().UTC()
	score := BayesianDesirability(90, 100, now, now)
	assert.Greater(t, score, 50.0)
}

func TestBayesianDesirability_LowLikeRateScoresBelowNeutral(t *testing.T) {
	now := time.Now().UTC()
	score := BayesianDesirability(5, 100, now, now)
	assert.Less(t, score, 50.0)
}

func TestBayesianDesirability_DecaysTowardNeutralOverTime(t *testing.T) {
	now := time.Now().UTC()
	stale := now.Add(-60 * 24 * time.Hour)

	fresh := BayesianDesirability(90, 100, now, now)
	decayed := BayesianDesirability(90, 100, stale, now)

	assert.Less(t, decayed, fresh)
	assert.Greater(t, decayed, 50.0, "decay pulls toward 50 but never overshoots it")
}

func TestAdjustElo_LikeFromLowerDesirabilityRaisesTarget(t *testing.T) {
	result := AdjustElo(30, 50, true)
	assert.Greater(t, result, 50.0)
}

func TestAdjustElo_DislikeLowersTarget(t *testing.T) {
	result := AdjustElo(50, 50, false)
	assert.Less(t, result, 50.0)
}

func TestAdjustElo_ClampsToValidRange(t *testing.T) {
	result := AdjustElo(0, 100, true)
	assert.LessOrEqual(t, result, 100.0)
	assert.GreaterOrEqual(t, result, 0.0)
}
