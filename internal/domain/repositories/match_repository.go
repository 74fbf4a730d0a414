package repositories

import (
	"context"
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
)

// MatchStats is the aggregate the match-statistics endpoint (§6) reports.
type MatchStats struct {
	TotalMatches             int64
	ActiveMatches            int64
	AverageCompatibilityScore float64
	LastMatchAt              *time.Time
	TopReasons               []string
}

// MatchRepository owns the Match entity: canonical-pair upserts, stats, and
// the internal deletion endpoints of §6.
type MatchRepository interface {
	// Upsert canonicalizes the pair, then inserts the match or is a no-op
	// if it already exists (idempotent mutual-match submissions).
	Upsert(ctx context.Context, userA, userB int64, compatibilityScore float64, source string) (match *entities.Match, created bool, err error)

	Stats(ctx context.Context, userID int64) (MatchStats, error)

	// DeleteByUser deletes all Match rows where either side equals userID,
	// returning the count (§6 match-deletion endpoint).
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}
