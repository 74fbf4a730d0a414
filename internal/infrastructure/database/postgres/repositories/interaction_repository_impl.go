package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

// UserInteractionRepositoryImpl implements repositories.UserInteractionRepository using GORM.
type UserInteractionRepositoryImpl struct {
	db *gorm.DB
}

// NewUserInteractionRepository creates a new UserInteractionRepository instance.
func NewUserInteractionRepository(db *gorm.DB) repositories.UserInteractionRepository {
	return &UserInteractionRepositoryImpl{db: db}
}

func (r *UserInteractionRepositoryImpl) Record(ctx context.Context, interaction *entities.UserInteraction) error {
	if err := r.db.WithContext(ctx).Create(interaction).Error; err != nil {
		logger.Errorf("failed to record interaction (%d -> %d): %v", interaction.UserID, interaction.TargetUserID, err)
		return fmt.Errorf("failed to record interaction: %w", err)
	}
	return nil
}

// AlgorithmMetricRepositoryImpl implements repositories.AlgorithmMetricRepository using GORM.
type AlgorithmMetricRepositoryImpl struct {
	db *gorm.DB
}

// NewAlgorithmMetricRepository creates a new AlgorithmMetricRepository instance.
func NewAlgorithmMetricRepository(db *gorm.DB) repositories.AlgorithmMetricRepository {
	return &AlgorithmMetricRepositoryImpl{db: db}
}

// LatestForUsers reads the most recent AlgorithmMetric per userId via a
// correlated subquery, matching the staleness-first idiom used elsewhere.
func (r *AlgorithmMetricRepositoryImpl) LatestForUsers(ctx context.Context, userIDs []int64) (map[int64]*entities.AlgorithmMetric, error) {
	result := make(map[int64]*entities.AlgorithmMetric, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []entities.AlgorithmMetric
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND id = (SELECT id FROM algorithm_metrics m2 WHERE m2.user_id = algorithm_metrics.user_id ORDER BY calculated_at DESC LIMIT 1)", userIDs).
		Find(&rows).Error
	if err != nil {
		logger.Errorf("failed to load latest algorithm metrics: %v", err)
		return nil, fmt.Errorf("failed to load latest algorithm metrics: %w", err)
	}

	for i := range rows {
		result[rows[i].UserID] = &rows[i]
	}
	return result, nil
}
