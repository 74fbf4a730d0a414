package services

import (
	"context"
	"math"
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

const (
	desirabilityDefault          = 50.0
	desirabilityMinSwipes        = 20
	bayesianPriorPseudocounts    = 10.0
	bayesianPriorMean            = 0.3
	desirabilityDecayHalfLifeDays = 30.0
	desirabilityPersistThreshold = 0.1
	eloKFactor                   = 32.0
)

// DesirabilityCalculator maintains Profile.DesirabilityScore via a batch
// Bayesian recalculation (invoked by the refresher) and a stateless
// real-time Elo-style adjustment (invoked on each swipe event) — §4.8.
type DesirabilityCalculator struct {
	profiles repositories.ProfileRepository
	metrics  repositories.AlgorithmMetricRepository
}

// NewDesirabilityCalculator builds a calculator over the candidate store.
func NewDesirabilityCalculator(profiles repositories.ProfileRepository, metrics repositories.AlgorithmMetricRepository) *DesirabilityCalculator {
	return &DesirabilityCalculator{profiles: profiles, metrics: metrics}
}

// RecalculateBatch recomputes desirabilityScore for every profile in the
// batch from its most recent AlgorithmMetric, persisting only profiles
// whose score moved by more than the noise threshold. A failure for one
// user is logged and does not abort the rest (§7 per-user scoring
// exception).
func (d *DesirabilityCalculator) RecalculateBatch(ctx context.Context, profiles []entities.Profile) {
	userIDs := make([]int64, len(profiles))
	for i, p := range profiles {
		userIDs[i] = p.UserID
	}

	latest, err := d.metrics.LatestForUsers(ctx, userIDs)
	if err != nil {
		logger.Warnf("desirability calculator: failed to load metrics: %v", err)
		return
	}

	now := time.Now().UTC()
	for i := range profiles {
		p := &profiles[i]
		metric, ok := latest[p.UserID]

		newScore := desirabilityDefault
		if ok && metric.SwipesReceived >= desirabilityMinSwipes {
			newScore = BayesianDesirability(metric.LikesReceived, metric.SwipesReceived, metric.CalculatedAt, now)
		}

		if math.Abs(newScore-p.DesirabilityScore) <= desirabilityPersistThreshold {
			continue
		}
		p.DesirabilityScore = newScore
		if err := d.profiles.Update(ctx, p); err != nil {
			logger.Warnf("desirability calculator: failed to persist score for user %d: %v", p.UserID, err)
		}
	}
}

// BayesianDesirability is the pure §4.8 batch formula: a Bayesian-smoothed
// like rate (prior pseudocounts=10, prior mean=0.3), decayed toward the
// neutral 50 the longer ago the underlying metric was calculated.
func BayesianDesirability(likesReceived, swipesReceived int, metricCalculatedAt, now time.Time) float64 {
	bayesianRate := (float64(likesReceived) + bayesianPriorPseudocounts*bayesianPriorMean) /
		(float64(swipesReceived) + bayesianPriorPseudocounts)
	baseScore := bayesianRate * 100

	deltaDays := now.Sub(metricCalculatedAt).Hours() / 24
	if deltaDays < 0 {
		deltaDays = 0
	}
	decay := math.Pow(0.5, deltaDays/desirabilityDecayHalfLifeDays)

	score := 50 + (baseScore-50)*decay
	return clamp(score, 0, 100)
}

// AdjustElo is the stateless real-time helper invoked when a swipe event
// arrives (§4.8): it nudges the target's desirability toward what an
// Elo-style expectation implies the swipe outcome should produce.
func AdjustElo(swiperDesirability, targetDesirability float64, isLike bool) float64 {
	expected := 1 / (1 + math.Pow(10, (swiperDesirability-targetDesirability)/400))
	actual := 0.0
	if isLike {
		actual = 1.0
	}
	delta := eloKFactor * (actual - expected)
	return clamp(targetDesirability+delta, 0, 100)
}
