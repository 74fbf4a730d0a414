package strategies

import (
	"context"
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/application/filters"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/pkg/config"
)

// PreComputedStrategy reads ranked candidates out of the PrecomputedScore
// table the background refresher (C6) maintains, re-validating dealbreakers
// and falling back to / supplementing from Live when the table can't
// satisfy the request (§4.4 "Pre-computed").
type PreComputedStrategy struct {
	profiles repositories.ProfileRepository
	scores   repositories.PrecomputedScoreRepository
	pipeline *filters.Pipeline
	live     *LiveStrategy
	cfg      func() config.ScoringConfig
	matching func() config.MatchingConfig
}

// NewPreComputedStrategy builds the Pre-computed strategy.
func NewPreComputedStrategy(
	profiles repositories.ProfileRepository,
	scores repositories.PrecomputedScoreRepository,
	pipeline *filters.Pipeline,
	live *LiveStrategy,
	scoringCfg func() config.ScoringConfig,
	matchingCfg func() config.MatchingConfig,
) *PreComputedStrategy {
	return &PreComputedStrategy{
		profiles: profiles,
		scores:   scores,
		pipeline: pipeline,
		live:     live,
		cfg:      scoringCfg,
		matching: matchingCfg,
	}
}

func (s *PreComputedStrategy) Name() string { return "PreComputed" }

func (s *PreComputedStrategy) GetCandidates(ctx context.Context, userID int64, req Request) (Result, error) {
	start := time.Now()

	requester, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil || requester == nil || !requester.IsActive {
		return emptyResult(s.Name(), time.Since(start)), nil
	}

	ttl := time.Duration(s.cfg().ScoreCacheHours) * time.Hour
	now := time.Now().UTC()
	rows, err := s.scores.TopNForUser(ctx, userID, req.Limit*3, ttl, now)
	if err != nil {
		return Result{}, err
	}

	if len(rows) == 0 {
		result, err := s.live.GetCandidates(ctx, userID, req)
		result.Elapsed = time.Since(start)
		return result, err
	}

	rowByTarget := make(map[int64]entities.PrecomputedScore, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		rowByTarget[r.TargetUserID] = r
		ids = append(ids, r.TargetUserID)
	}

	profiles, trace, err := s.pipeline.Run(ctx, s.profiles.CandidateQuery(ctx).Where("user_id IN ?", ids), &filters.Context{
		Requester: requester,
	}, len(ids))
	if err != nil {
		return Result{}, err
	}

	effectiveMinScore := req.MinScore
	if effectiveMinScore <= 0 {
		effectiveMinScore = s.matching().DefaultMinScore
	}

	scored := make([]CandidateResult, 0, len(profiles))
	for i := range profiles {
		candidate := &profiles[i]
		if req.OnlyVerified && !candidate.IsVerified {
			continue
		}
		row, ok := rowByTarget[candidate.UserID]
		if !ok || row.OverallScore < effectiveMinScore {
			continue
		}
		scored = append(scored, CandidateResult{
			Profile:            candidate,
			CompatibilityScore: row.OverallScore,
			ActivityScore:      row.ActivityScore,
			DesirabilityScore:  candidate.DesirabilityScore,
			FinalScore:         row.OverallScore,
		})
	}
	sortByFinalScoreDesc(scored)

	if len(scored) > req.Limit {
		scored = scored[:req.Limit]
	}

	result := Result{
		TotalFiltered:  len(profiles),
		TotalScored:    len(scored),
		StrategyName:   s.Name(),
		Trace:          trace,
		QueueExhausted: len(scored) >= req.Limit,
	}

	if len(scored) < req.Limit {
		remaining := req.Limit - len(scored)
		seen := make(map[int64]struct{}, len(scored))
		for _, c := range scored {
			seen[c.Profile.UserID] = struct{}{}
		}

		supplement, err := s.live.GetCandidates(ctx, userID, Request{
			Limit:            remaining,
			MinScore:         req.MinScore,
			ActiveWithinDays: req.ActiveWithinDays,
			OnlyVerified:     req.OnlyVerified,
		})
		if err == nil {
			for _, c := range supplement.Candidates {
				if _, dup := seen[c.Profile.UserID]; dup {
					continue
				}
				scored = append(scored, c)
				seen[c.Profile.UserID] = struct{}{}
			}
			result.QueueExhausted = supplement.QueueExhausted
		}
	}

	result.Candidates = scored
	result.Elapsed = time.Since(start)
	return result, nil
}
