// Package suggestions holds the daily-suggestion-status use case of §6.
package suggestions

import (
	"context"

	"github.com/best-koder-ever/matchmaking-service/internal/application/services"
)

// StatusResponse mirrors services.SuggestionLimiter.Status's return shape
// for the HTTP layer.
type StatusResponse struct {
	ShownToday     int    `json:"shownToday"`
	Max            int    `json:"max"`
	Remaining      int    `json:"remaining"`
	LastResetDate  string `json:"lastResetDate"`
	NextResetDate  string `json:"nextResetDate"`
	QueueExhausted bool   `json:"queueExhausted"`
}

// GetSuggestionStatusUseCase reports a user's current daily-suggestion
// budget without consuming it (§6 "Daily-suggestion status endpoint").
type GetSuggestionStatusUseCase struct {
	limiter *services.SuggestionLimiter
}

func NewGetSuggestionStatusUseCase(limiter *services.SuggestionLimiter) *GetSuggestionStatusUseCase {
	return &GetSuggestionStatusUseCase{limiter: limiter}
}

func (uc *GetSuggestionStatusUseCase) Execute(ctx context.Context, userID int64, isPremium bool) StatusResponse {
	shownToday, max, remaining, lastReset, nextReset, queueExhausted := uc.limiter.Status(userID, isPremium)
	const layout = "2006-01-02T15:04:05Z07:00"
	return StatusResponse{
		ShownToday:     shownToday,
		Max:            max,
		Remaining:      remaining,
		LastResetDate:  lastReset.Format(layout),
		NextResetDate:  nextReset.Format(layout),
		QueueExhausted: queueExhausted,
	}
}
