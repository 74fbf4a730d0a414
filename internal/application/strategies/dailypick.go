package strategies

import (
	"context"
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
)

// DailyPickStrategy serves the rows the daily-pick generator (C7)
// materialized for this user, falling back to Live when nothing is left to
// serve today (§4.4 "Daily-pick").
type DailyPickStrategy struct {
	picks    repositories.DailyPickRepository
	profiles repositories.ProfileRepository
	live     *LiveStrategy
}

// NewDailyPickStrategy builds the Daily-pick strategy.
func NewDailyPickStrategy(
	picks repositories.DailyPickRepository,
	profiles repositories.ProfileRepository,
	live *LiveStrategy,
) *DailyPickStrategy {
	return &DailyPickStrategy{picks: picks, profiles: profiles, live: live}
}

func (s *DailyPickStrategy) Name() string { return "DailyPick" }

func (s *DailyPickStrategy) GetCandidates(ctx context.Context, userID int64, req Request) (Result, error) {
	start := time.Now()

	requester, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil || requester == nil || !requester.IsActive {
		return emptyResult(s.Name(), time.Since(start)), nil
	}

	now := time.Now().UTC()
	rows, err := s.picks.GetServable(ctx, userID, now, req.Limit)
	if err != nil {
		return Result{}, err
	}

	if len(rows) == 0 {
		result, err := s.live.GetCandidates(ctx, userID, req)
		result.Elapsed = time.Since(start)
		return result, err
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.CandidateUserID
	}

	candidateProfiles, err := s.profiles.GetByUserIDs(ctx, ids)
	if err != nil {
		return Result{}, err
	}
	profileByID := make(map[int64]entities.Profile, len(candidateProfiles))
	for _, p := range candidateProfiles {
		profileByID[p.UserID] = p
	}

	scored := make([]CandidateResult, 0, len(rows))
	servedIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		profile, ok := profileByID[row.CandidateUserID]
		if !ok {
			continue
		}
		if req.OnlyVerified && !profile.IsVerified {
			continue
		}
		p := profile
		scored = append(scored, CandidateResult{
			Profile:            &p,
			CompatibilityScore: row.Score,
			FinalScore:         row.Score,
		})
		servedIDs = append(servedIDs, row.ID)
	}

	if len(servedIDs) > 0 {
		if err := s.picks.MarkSeen(ctx, servedIDs); err != nil {
			return Result{}, err
		}
	}

	totalUnseenToday, err := s.picks.CountUnseenToday(ctx, userID, now)
	if err != nil {
		return Result{}, err
	}
	servedCount := int64(len(scored))

	suggestionsRemaining := totalUnseenToday - servedCount
	if suggestionsRemaining < 0 {
		suggestionsRemaining = 0
	}

	return Result{
		Candidates:           scored,
		TotalFiltered:        len(rows),
		TotalScored:          len(scored),
		StrategyName:         s.Name(),
		Elapsed:              time.Since(start),
		QueueExhausted:       totalUnseenToday <= servedCount,
		SuggestionsRemaining: int(suggestionsRemaining),
	}, nil
}
