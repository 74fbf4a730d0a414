package strategies

import (
	"context"
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/application/filters"
	"github.com/best-koder-ever/matchmaking-service/internal/application/services"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/internal/infrastructure/external/safety"
	"github.com/best-koder-ever/matchmaking-service/internal/infrastructure/external/swipe"
	"github.com/best-koder-ever/matchmaking-service/pkg/config"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

// LiveStrategy computes candidates on the fly: filter, score, shadow
// restrict, sort, truncate (§4.4 "Live").
type LiveStrategy struct {
	profiles repositories.ProfileRepository
	scorer   *services.CompatibilityScorer
	pipeline *filters.Pipeline
	swipe    *swipe.Client
	safety   *safety.Client
	cfg      func() config.ScoringConfig
	matching func() config.MatchingConfig
}

// NewLiveStrategy builds the Live strategy.
func NewLiveStrategy(
	profiles repositories.ProfileRepository,
	scorer *services.CompatibilityScorer,
	pipeline *filters.Pipeline,
	swipeClient *swipe.Client,
	safetyClient *safety.Client,
	scoringCfg func() config.ScoringConfig,
	matchingCfg func() config.MatchingConfig,
) *LiveStrategy {
	return &LiveStrategy{
		profiles: profiles,
		scorer:   scorer,
		pipeline: pipeline,
		swipe:    swipeClient,
		safety:   safetyClient,
		cfg:      scoringCfg,
		matching: matchingCfg,
	}
}

func (s *LiveStrategy) Name() string { return "Live" }

const (
	liveBaseCompatWeight      = 0.7
	liveBaseActivityWeight    = 0.15
	liveBaseDesirabilityWeight = 0.15
)

// GetCandidates implements §4.4's eight-step Live algorithm.
func (s *LiveStrategy) GetCandidates(ctx context.Context, userID int64, req Request) (Result, error) {
	start := time.Now()

	requester, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil || requester == nil || !requester.IsActive {
		return emptyResult(s.Name(), time.Since(start)), nil
	}

	swipedIDs := s.swipe.SwipedUserIDs(ctx, userID)
	blockedIDs := s.safety.BlockedUserIDs(ctx)

	matchingCfg := s.matching
	maxLimit := matchingCfg().MaxLimit
	filterLimit := req.Limit * 3
	if capLimit := maxLimit * 3; filterLimit > capLimit {
		filterLimit = capLimit
	}

	candidates, trace, err := s.pipeline.Run(ctx, s.profiles.CandidateQuery(ctx), &filters.Context{
		Requester:  requester,
		SwipedIDs:  swipedIDs,
		BlockedIDs: blockedIDs,
	}, filterLimit)
	if err != nil {
		return Result{}, err
	}

	effectiveMinScore := req.MinScore
	if effectiveMinScore <= 0 {
		effectiveMinScore = matchingCfg().DefaultMinScore
	}

	scoringCfg := s.cfg()
	now := time.Now().UTC()

	scored := make([]CandidateResult, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]
		if req.OnlyVerified && !candidate.IsVerified {
			continue
		}

		compat, _, err := s.scorer.Score(ctx, requester, candidate)
		if err != nil {
			logger.Warnf("live strategy: scoring user %d against %d failed: %v", userID, candidate.UserID, err)
			continue
		}
		if compat < effectiveMinScore {
			continue
		}

		activity := services.ExponentialActivityDecay(candidate.LastActiveAt, now, scoringCfg.ActivityScoreHalfLifeDays)
		desirability := candidate.DesirabilityScore
		base := liveBaseCompatWeight*compat + liveBaseActivityWeight*activity + liveBaseDesirabilityWeight*desirability

		scored = append(scored, CandidateResult{
			Profile:            candidate,
			CompatibilityScore: compat,
			ActivityScore:      activity,
			DesirabilityScore:  desirability,
			FinalScore:         base, // multiplier applied below, in bulk
		})
	}

	ids := make([]int64, len(scored))
	for i, c := range scored {
		ids[i] = c.Profile.UserID
	}
	trust := s.swipe.BatchTrustScores(ctx, ids)

	for i := range scored {
		multiplier := swipe.ShadowRestrictMultiplier(trust[scored[i].Profile.UserID])
		scored[i].FinalScore = scored[i].FinalScore * multiplier
	}

	sortByFinalScoreDesc(scored)

	limit := req.Limit
	if limit > len(scored) {
		limit = len(scored)
	}

	return Result{
		Candidates:     scored[:limit],
		TotalFiltered:  len(candidates),
		TotalScored:    len(scored),
		StrategyName:   s.Name(),
		Elapsed:        time.Since(start),
		QueueExhausted: limit < req.Limit,
		Trace:          trace,
	}, nil
}
