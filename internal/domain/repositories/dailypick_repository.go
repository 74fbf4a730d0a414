package repositories

import (
	"context"
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
)

// DailyPickRepository owns the DailyPick rows materialized by the generator
// (C7) and served by the Daily-pick strategy (§4.4).
type DailyPickRepository interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	InsertBatch(ctx context.Context, picks []entities.DailyPick) error

	// GetServable returns up to limit rows for userID where expiresAt > now
	// and acted = false, ordered by rank ascending.
	GetServable(ctx context.Context, userID int64, now time.Time, limit int) ([]entities.DailyPick, error)

	// CountUnseenToday returns the count of rows for userID that are
	// unexpired, unacted and unseen — used to compute
	// suggestionsRemaining/queueExhausted.
	CountUnseenToday(ctx context.Context, userID int64, now time.Time) (int64, error)

	// MarkSeen flips seen=true for the given row ids.
	MarkSeen(ctx context.Context, ids []int64) error

	// LastGeneratedAt returns the persisted marker the generator records
	// after a successful run (see SPEC_FULL.md's supplemented behavior for
	// §4.7/§9); ok is false if the generator has never run.
	LastGeneratedAt(ctx context.Context) (at time.Time, ok bool, err error)

	RecordGeneratedAt(ctx context.Context, at time.Time) error
}
