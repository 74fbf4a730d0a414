// Package strategies implements the scoring strategies (C4) and their
// resolver (C5): Live, Pre-computed and Daily-pick variants of candidate
// production, all behind a single uniform contract.
package strategies

import (
	"context"
	"sort"
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/application/filters"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
)

// Request carries the per-request candidate-production options of §4.4.
// Values arriving out of range are clamped by the caller (the candidate
// endpoint's DTO), never by the strategy itself.
type Request struct {
	Limit            int
	MinScore         float64
	ActiveWithinDays int
	OnlyVerified     bool
}

// CandidateResult is one scored, ranked candidate.
type CandidateResult struct {
	Profile            *entities.Profile
	CompatibilityScore float64 // the §4.3 "compat" sub-score
	ActivityScore      float64
	DesirabilityScore  float64
	FinalScore         float64
}

// Result is the uniform output every strategy returns (§4.4).
type Result struct {
	Candidates           []CandidateResult
	TotalFiltered        int
	TotalScored          int
	StrategyName         string
	Elapsed              time.Duration
	QueueExhausted       bool
	SuggestionsRemaining int
	Trace                []filters.Trace
}

// Strategy is the uniform contract every candidate-production algorithm
// implements (§4.4).
type Strategy interface {
	Name() string
	GetCandidates(ctx context.Context, userID int64, req Request) (Result, error)
}

// emptyResult is what every strategy returns for the §7 NotFound case:
// requester missing/inactive is never an error, just an exhausted empty
// queue.
func emptyResult(strategyName string, elapsed time.Duration) Result {
	return Result{
		StrategyName:   strategyName,
		Elapsed:        elapsed,
		QueueExhausted: true,
	}
}

// sortByFinalScoreDesc is a stable descending sort: ties break by scan
// order, which is store-ordering by user id (§5 ordering guarantees) since
// that's how the filter pipeline returns rows.
func sortByFinalScoreDesc(candidates []CandidateResult) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FinalScore > candidates[j].FinalScore
	})
}
