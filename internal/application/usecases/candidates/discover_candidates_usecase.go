// Package candidates orchestrates candidate production for the HTTP surface:
// resolve a strategy, run it, map the result onto the §6 candidate-endpoint
// contract.
package candidates

import (
	"context"

	"github.com/best-koder-ever/matchmaking-service/internal/application/services"
	"github.com/best-koder-ever/matchmaking-service/internal/application/strategies"
)

// Request is the candidate endpoint's already-clamped input (clamping
// happens in the HTTP layer per §6's InputClamp rule — this use case never
// rejects an out-of-range value).
type Request struct {
	UserID           int64
	Limit            int
	MinScore         float64
	ActiveWithinDays int
	OnlyVerified     bool
	Strategy         string
	IsPremium        bool
}

// Candidate is one ranked candidate record, shaped exactly per §6's output
// fields.
type Candidate struct {
	UserID             int64    `json:"userId"`
	Age                int      `json:"age"`
	Gender             string   `json:"gender"`
	City               string   `json:"city"`
	Compatibility      float64  `json:"compatibility"`
	CompatibilityScore float64  `json:"compatibilityScore"`
	ActivityScore      float64  `json:"activityScore"`
	DesirabilityScore  float64  `json:"desirabilityScore"`
	StrategyUsed       string   `json:"strategyUsed"`
	IsVerified         bool     `json:"isVerified"`
	Interests          []string `json:"interests"`
}

// Response is the candidate endpoint's full payload: the ranked list plus
// the observability metadata §6 requires alongside it.
type Response struct {
	Candidates           []Candidate `json:"candidates"`
	StrategyUsed         string      `json:"strategyUsed"`
	TotalFiltered        int         `json:"totalFiltered"`
	TotalScored          int         `json:"totalScored"`
	QueueExhausted       bool        `json:"queueExhausted"`
	SuggestionsRemaining int         `json:"suggestionsRemaining"`
}

// DiscoverCandidatesUseCase resolves a strategy and maps its Result onto the
// HTTP response shape, consuming one unit of the caller's daily-suggestion
// budget per request (§4.9 — the limiter has no other caller in this
// engine, so the candidate endpoint is the natural integration point; an
// exhausted budget degrades to an empty, queue-exhausted result rather than
// an error, matching every other §7 exhaustion case).
type DiscoverCandidatesUseCase struct {
	resolver *strategies.Resolver
	limiter  *services.SuggestionLimiter
}

// NewDiscoverCandidatesUseCase builds the use case.
func NewDiscoverCandidatesUseCase(resolver *strategies.Resolver, limiter *services.SuggestionLimiter) *DiscoverCandidatesUseCase {
	return &DiscoverCandidatesUseCase{resolver: resolver, limiter: limiter}
}

// Execute runs the resolved strategy and maps its output.
func (uc *DiscoverCandidatesUseCase) Execute(ctx context.Context, req Request) (Response, error) {
	allowed, remaining := uc.limiter.CheckAndIncrement(req.UserID, req.IsPremium)
	if !allowed {
		return Response{QueueExhausted: true, SuggestionsRemaining: 0}, nil
	}

	strategy := uc.resolver.Resolve(ctx, req.Strategy)
	result, err := strategy.GetCandidates(ctx, req.UserID, strategies.Request{
		Limit:            req.Limit,
		MinScore:         req.MinScore,
		ActiveWithinDays: req.ActiveWithinDays,
		OnlyVerified:     req.OnlyVerified,
	})
	if err != nil {
		return Response{}, err
	}

	candidates := make([]Candidate, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		candidates = append(candidates, Candidate{
			UserID:             c.Profile.UserID,
			Age:                c.Profile.Age,
			Gender:             c.Profile.Gender.String(),
			City:               c.Profile.City,
			Compatibility:      c.FinalScore,
			CompatibilityScore: c.CompatibilityScore,
			ActivityScore:      c.ActivityScore,
			DesirabilityScore:  c.DesirabilityScore,
			StrategyUsed:       result.StrategyName,
			IsVerified:         c.Profile.IsVerified,
			Interests:          []string(c.Profile.Interests),
		})
	}

	suggestionsRemaining := result.SuggestionsRemaining
	if suggestionsRemaining == 0 && !result.QueueExhausted {
		suggestionsRemaining = remaining
	}

	return Response{
		Candidates:           candidates,
		StrategyUsed:         result.StrategyName,
		TotalFiltered:        result.TotalFiltered,
		TotalScored:          result.TotalScored,
		QueueExhausted:       result.QueueExhausted,
		SuggestionsRemaining: suggestionsRemaining,
	}, nil
}
