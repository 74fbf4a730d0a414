package repositories

import (
	"context"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
)

// UserInteractionRepository owns the append-only swipe log.
type UserInteractionRepository interface {
	Record(ctx context.Context, interaction *entities.UserInteraction) error
}

// AlgorithmMetricRepository owns the periodic per-user summaries the
// desirability calculator's batch recalculation reads.
type AlgorithmMetricRepository interface {
	// LatestForUsers returns, for each userId that has at least one row,
	// its most recent AlgorithmMetric by calculatedAt.
	LatestForUsers(ctx context.Context, userIDs []int64) (map[int64]*entities.AlgorithmMetric, error)
}
