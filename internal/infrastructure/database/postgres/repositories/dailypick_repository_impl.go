package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

// dailyPickRun is the single-row marker table recording when the generator
// last completed a full run, guarding against double-generation near a
// restart (§4.7 step 5, §9 supplemented behavior).
type dailyPickRun struct {
	ID          int64 `gorm:"primaryKey"`
	GeneratedAt time.Time
}

func (dailyPickRun) TableName() string { return "daily_pick_runs" }

const dailyPickRunMarkerID = 1

// DailyPickRepositoryImpl implements repositories.DailyPickRepository using GORM.
type DailyPickRepositoryImpl struct {
	db *gorm.DB
}

// NewDailyPickRepository creates a new DailyPickRepository instance.
func NewDailyPickRepository(db *gorm.DB) repositories.DailyPickRepository {
	return &DailyPickRepositoryImpl{db: db}
}

func (r *DailyPickRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&entities.DailyPick{})
	if result.Error != nil {
		logger.Errorf("failed to delete expired daily picks: %v", result.Error)
		return 0, fmt.Errorf("failed to delete expired daily picks: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *DailyPickRepositoryImpl) InsertBatch(ctx context.Context, picks []entities.DailyPick) error {
	if len(picks) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(picks, 100).Error; err != nil {
		logger.Errorf("failed to insert daily pick batch: %v", err)
		return fmt.Errorf("failed to insert daily pick batch: %w", err)
	}
	return nil
}

func (r *DailyPickRepositoryImpl) GetServable(ctx context.Context, userID int64, now time.Time, limit int) ([]entities.DailyPick, error) {
	var rows []entities.DailyPick
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ? AND acted = ?", userID, now, false).
		Order("rank ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		logger.Errorf("failed to get servable daily picks for user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to get servable daily picks: %w", err)
	}
	return rows, nil
}

func (r *DailyPickRepositoryImpl) CountUnseenToday(ctx context.Context, userID int64, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.DailyPick{}).
		Where("user_id = ? AND expires_at > ? AND acted = ? AND seen = ?", userID, now, false, false).
		Count(&count).Error
	if err != nil {
		logger.Errorf("failed to count unseen daily picks for user %d: %v", userID, err)
		return 0, fmt.Errorf("failed to count unseen daily picks: %w", err)
	}
	return count, nil
}

func (r *DailyPickRepositoryImpl) MarkSeen(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&entities.DailyPick{}).
		Where("id IN ?", ids).
		Update("seen", true).Error; err != nil {
		logger.Errorf("failed to mark daily picks seen: %v", err)
		return fmt.Errorf("failed to mark daily picks seen: %w", err)
	}
	return nil
}

func (r *DailyPickRepositoryImpl) LastGeneratedAt(ctx context.Context) (time.Time, bool, error) {
	var marker dailyPickRun
	err := r.db.WithContext(ctx).First(&marker, dailyPickRunMarkerID).Error
	switch {
	case err == nil:
		return marker.GeneratedAt, true, nil
	case err == gorm.ErrRecordNotFound:
		return time.Time{}, false, nil
	default:
		logger.Errorf("failed to read daily pick generation marker: %v", err)
		return time.Time{}, false, fmt.Errorf("failed to read daily pick generation marker: %w", err)
	}
}

func (r *DailyPickRepositoryImpl) RecordGeneratedAt(ctx context.Context, at time.Time) error {
	marker := dailyPickRun{ID: dailyPickRunMarkerID, GeneratedAt: at}
	err := r.db.WithContext(ctx).Save(&marker).Error
	if err != nil {
		logger.Errorf("failed to record daily pick generation marker: %v", err)
		return fmt.Errorf("failed to record daily pick generation marker: %w", err)
	}
	return nil
}
