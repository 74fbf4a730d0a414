package repositories

import (
	"context"
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
)

// PrecomputedScoreRepository owns the directional PrecomputedScore rows
// the compatibility scorer and background refresher share.
type PrecomputedScoreRepository interface {
	// GetFresh returns the row for (userID, targetUserID) if it exists and
	// satisfies IsFresh(ttl, now); otherwise returns nil, nil.
	GetFresh(ctx context.Context, userID, targetUserID int64, ttl time.Duration, now time.Time) (*entities.PrecomputedScore, error)

	// Upsert writes a fresh, valid row for (userID, targetUserID),
	// overwriting any existing row for that pair.
	Upsert(ctx context.Context, score *entities.PrecomputedScore) error

	// TopNForUser returns the newest limit valid, non-expired rows for
	// userID ordered by overallScore descending (Pre-computed strategy
	// step 2).
	TopNForUser(ctx context.Context, userID int64, limit int, ttl time.Duration, now time.Time) ([]entities.PrecomputedScore, error)

	// InvalidateForTarget marks every row with targetUserID = target as
	// isValid=false, in response to a new swipe involving that target.
	InvalidateForTarget(ctx context.Context, targetUserID int64) (int64, error)
}
