// Package matches holds the mutual-match sink and the match-statistics /
// match-deletion use cases of §6.
package matches

import (
	"context"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/internal/infrastructure/notify"
)

// RecordMatchRequest is the mutual-match sink's input (§6).
type RecordMatchRequest struct {
	User1ID            int64
	User2ID            int64
	CompatibilityScore float64
	Source             string
}

// RecordMatchResponse reports the canonicalized pair and whether this call
// created the row (false on an idempotent duplicate submission).
type RecordMatchResponse struct {
	User1ID int64 `json:"user1Id"`
	User2ID int64 `json:"user2Id"`
	Created bool  `json:"created"`
}

// RecordMutualMatchUseCase canonicalizes and upserts a Match, then
// best-effort notifies (§6 "Mutual-match sink").
type RecordMutualMatchUseCase struct {
	matches  repositories.MatchRepository
	notifier *notify.Notifier
}

func NewRecordMutualMatchUseCase(matches repositories.MatchRepository, notifier *notify.Notifier) *RecordMutualMatchUseCase {
	return &RecordMutualMatchUseCase{matches: matches, notifier: notifier}
}

func (uc *RecordMutualMatchUseCase) Execute(ctx context.Context, req RecordMatchRequest) (RecordMatchResponse, error) {
	match, created, err := uc.matches.Upsert(ctx, req.User1ID, req.User2ID, req.CompatibilityScore, req.Source)
	if err != nil {
		return RecordMatchResponse{}, err
	}

	if created {
		uc.notifier.NotifyMatch(match.User1ID, match.User2ID, match.CompatibilityScore)
	}

	return RecordMatchResponse{User1ID: match.User1ID, User2ID: match.User2ID, Created: created}, nil
}

// MatchStatsResponse is the match-statistics endpoint's output (§6).
type MatchStatsResponse struct {
	TotalMatches              int64    `json:"totalMatches"`
	ActiveMatches             int64    `json:"activeMatches"`
	AverageCompatibilityScore float64  `json:"averageCompatibilityScore"`
	LastMatchAt               *string  `json:"lastMatchAt"`
	TopReasons                []string `json:"topReasons"`
}

// GetMatchStatsUseCase reports a user's match aggregate (§6 "Match
// statistics endpoint").
type GetMatchStatsUseCase struct {
	matches repositories.MatchRepository
}

func NewGetMatchStatsUseCase(matches repositories.MatchRepository) *GetMatchStatsUseCase {
	return &GetMatchStatsUseCase{matches: matches}
}

func (uc *GetMatchStatsUseCase) Execute(ctx context.Context, userID int64) (MatchStatsResponse, error) {
	stats, err := uc.matches.Stats(ctx, userID)
	if err != nil {
		return MatchStatsResponse{}, err
	}

	resp := MatchStatsResponse{
		TotalMatches:              stats.TotalMatches,
		ActiveMatches:             stats.ActiveMatches,
		AverageCompatibilityScore: stats.AverageCompatibilityScore,
		TopReasons:                stats.TopReasons,
	}
	if resp.TopReasons == nil {
		resp.TopReasons = []string{}
	}
	if stats.LastMatchAt != nil {
		formatted := stats.LastMatchAt.Format("2006-01-02T15:04:05Z07:00")
		resp.LastMatchAt = &formatted
	}
	return resp, nil
}

// DeleteMatchesUseCase deletes every Match row touching a user (§6
// "Match-deletion endpoint").
type DeleteMatchesUseCase struct {
	matches repositories.MatchRepository
}

func NewDeleteMatchesUseCase(matches repositories.MatchRepository) *DeleteMatchesUseCase {
	return &DeleteMatchesUseCase{matches: matches}
}

func (uc *DeleteMatchesUseCase) Execute(ctx context.Context, userID int64) (int64, error) {
	return uc.matches.DeleteByUser(ctx, userID)
}
