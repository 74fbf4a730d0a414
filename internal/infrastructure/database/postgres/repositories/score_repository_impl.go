package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

// PrecomputedScoreRepositoryImpl implements repositories.PrecomputedScoreRepository using GORM.
type PrecomputedScoreRepositoryImpl struct {
	db *gorm.DB
}

// NewPrecomputedScoreRepository creates a new PrecomputedScoreRepository instance.
func NewPrecomputedScoreRepository(db *gorm.DB) repositories.PrecomputedScoreRepository {
	return &PrecomputedScoreRepositoryImpl{db: db}
}

func (r *PrecomputedScoreRepositoryImpl) GetFresh(ctx context.Context, userID, targetUserID int64, ttl time.Duration, now time.Time) (*entities.PrecomputedScore, error) {
	var row entities.PrecomputedScore
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_user_id = ? AND is_valid = ? AND calculated_at > ?",
			userID, targetUserID, true, now.Add(-ttl)).
		First(&row).Error

	switch {
	case err == nil:
		return &row, nil
	case err == gorm.ErrRecordNotFound:
		return nil, nil
	default:
		logger.Errorf("failed to read precomputed score (%d -> %d): %v", userID, targetUserID, err)
		return nil, fmt.Errorf("failed to read precomputed score: %w", err)
	}
}

// Upsert writes a fresh row for (userID, targetUserID) via the unique pair
// index, overwriting any existing row (ON CONFLICT DO UPDATE).
func (r *PrecomputedScoreRepositoryImpl) Upsert(ctx context.Context, score *entities.PrecomputedScore) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "target_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"overall_score", "location_score", "age_score", "interests_score",
				"education_score", "lifestyle_score", "activity_score",
				"calculated_at", "is_valid",
			}),
		}).
		Create(score).Error
	if err != nil {
		logger.Errorf("failed to upsert precomputed score (%d -> %d): %v", score.UserID, score.TargetUserID, err)
		return fmt.Errorf("failed to upsert precomputed score: %w", err)
	}
	return nil
}

func (r *PrecomputedScoreRepositoryImpl) TopNForUser(ctx context.Context, userID int64, limit int, ttl time.Duration, now time.Time) ([]entities.PrecomputedScore, error) {
	var rows []entities.PrecomputedScore
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_valid = ? AND calculated_at > ?", userID, true, now.Add(-ttl)).
		Order("overall_score DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		logger.Errorf("failed to read top precomputed scores for user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to read top precomputed scores: %w", err)
	}
	return rows, nil
}

func (r *PrecomputedScoreRepositoryImpl) InvalidateForTarget(ctx context.Context, targetUserID int64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entities.PrecomputedScore{}).
		Where("target_user_id = ?", targetUserID).
		Update("is_valid", false)
	if result.Error != nil {
		logger.Errorf("failed to invalidate precomputed scores for target %d: %v", targetUserID, result.Error)
		return 0, fmt.Errorf("failed to invalidate precomputed scores: %w", result.Error)
	}
	return result.RowsAffected, nil
}
