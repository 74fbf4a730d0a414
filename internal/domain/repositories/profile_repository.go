package repositories

import (
	"context"
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"gorm.io/gorm"
)

// ProfileRepository is the candidate store's entry point for everything
// keyed on Profile. CandidateQuery returns the base store-side query that
// the filter pipeline (C2) extends — no method on this interface may
// enumerate rows client-side before a caller applies its own limit.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*entities.Profile, error)

	// GetByUserIDs batch-loads profiles for the given userIds. Missing ids
	// are silently omitted from the result rather than erroring.
	GetByUserIDs(ctx context.Context, userIDs []int64) ([]entities.Profile, error)

	Create(ctx context.Context, profile *entities.Profile) error
	Update(ctx context.Context, profile *entities.Profile) error
	Deactivate(ctx context.Context, userID int64) error

	// CandidateQuery returns an unscoped *gorm.DB selecting from profiles,
	// ready for the filter pipeline to extend with WHERE clauses and a
	// final Limit. No-tracking: callers must not mutate and save the
	// resulting rows back through this query.
	CandidateQuery(ctx context.Context) *gorm.DB

	// CountActive returns the number of active profiles, used by the
	// strategy resolver's Auto mode (§4.5).
	CountActive(ctx context.Context) (int64, error)

	// SelectForRefresh returns up to limit profiles in staleness-first
	// order: profiles with no valid PrecomputedScore row first, then by
	// oldest calculatedAt, tie-broken by userId. Implemented as a single
	// left-outer join against precomputed_scores.
	SelectForRefresh(ctx context.Context, limit int, onlyActive bool) ([]entities.Profile, error)

	// ListActiveUserIDs returns every active userId, used by the
	// daily-pick generator to build its batches.
	ListActiveUserIDs(ctx context.Context) ([]int64, error)

	UpdateLastActive(ctx context.Context, userID int64, at time.Time) error

	// BatchUpdateLastActive updates lastActiveAt for every existing userId
	// in ids, silently ignoring unknown ones, and reports how many rows
	// matched.
	BatchUpdateLastActive(ctx context.Context, ids []int64, at time.Time) (updated int, total int, err error)

	// DeleteCascade soft-deletes the profile and hard-deletes its Matches
	// and UserInteractions, per the account-deletion cascade (§3).
	DeleteCascade(ctx context.Context, userID int64) error
}
