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

// ProfileRepositoryImpl implements repositories.ProfileRepository using GORM.
type ProfileRepositoryImpl struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository instance.
func NewProfileRepository(db *gorm.DB) repositories.ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

func (r *ProfileRepositoryImpl) GetByUserID(ctx context.Context, userID int64) (*entities.Profile, error) {
	var profile entities.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.Errorf("failed to get profile for user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) GetByUserIDs(ctx context.Context, userIDs []int64) ([]entities.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []entities.Profile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		logger.Errorf("failed to batch get profiles: %v", err)
		return nil, fmt.Errorf("failed to batch get profiles: %w", err)
	}
	return profiles, nil
}

func (r *ProfileRepositoryImpl) Create(ctx context.Context, profile *entities.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		logger.Errorf("failed to create profile for user %d: %v", profile.UserID, err)
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *ProfileRepositoryImpl) Update(ctx context.Context, profile *entities.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		logger.Errorf("failed to update profile for user %d: %v", profile.UserID, err)
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (r *ProfileRepositoryImpl) Deactivate(ctx context.Context, userID int64) error {
	if err := r.db.WithContext(ctx).Model(&entities.Profile{}).
		Where("user_id = ?", userID).
		Update("is_active", false).Error; err != nil {
		logger.Errorf("failed to deactivate profile for user %d: %v", userID, err)
		return fmt.Errorf("failed to deactivate profile: %w", err)
	}
	return nil
}

// CandidateQuery returns the base unscoped query the filter pipeline
// extends. No rows are enumerated here.
func (r *ProfileRepositoryImpl) CandidateQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&entities.Profile{})
}

func (r *ProfileRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Profile{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
		logger.Errorf("failed to count active profiles: %v", err)
		return 0, fmt.Errorf("failed to count active profiles: %w", err)
	}
	return count, nil
}

// SelectForRefresh implements the §4.6 staleness-first selection: a single
// left-outer join against precomputed_scores, ordering rows with no valid
// score first, then by oldest calculatedAt, tie-broken by userId.
func (r *ProfileRepositoryImpl) SelectForRefresh(ctx context.Context, limit int, onlyActive bool) ([]entities.Profile, error) {
	query := r.db.WithContext(ctx).
		Table("profiles AS p").
		Select("p.*").
		Joins(`LEFT JOIN precomputed_scores ps
			ON ps.user_id = p.user_id AND ps.is_valid = true
			AND ps.id = (
				SELECT id FROM precomputed_scores
				WHERE user_id = p.user_id AND is_valid = true
				ORDER BY calculated_at DESC LIMIT 1
			)`).
		Order("ps.calculated_at IS NOT NULL, ps.calculated_at ASC, p.user_id ASC").
		Limit(limit)

	if onlyActive {
		query = query.Where("p.is_active = ?", true)
	}

	var profiles []entities.Profile
	if err := query.Find(&profiles).Error; err != nil {
		logger.Errorf("failed to select profiles for refresh: %v", err)
		return nil, fmt.Errorf("failed to select profiles for refresh: %w", err)
	}
	return profiles, nil
}

func (r *ProfileRepositoryImpl) ListActiveUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).Model(&entities.Profile{}).
		Where("is_active = ?", true).
		Pluck("user_id", &ids).Error; err != nil {
		logger.Errorf("failed to list active user ids: %v", err)
		return nil, fmt.Errorf("failed to list active user ids: %w", err)
	}
	return ids, nil
}

func (r *ProfileRepositoryImpl) UpdateLastActive(ctx context.Context, userID int64, at time.Time) error {
	if err := r.db.WithContext(ctx).Model(&entities.Profile{}).
		Where("user_id = ?", userID).
		Update("last_active_at", at).Error; err != nil {
		logger.Errorf("failed to update last_active_at for user %d: %v", userID, err)
		return fmt.Errorf("failed to update last active at: %w", err)
	}
	return nil
}

func (r *ProfileRepositoryImpl) BatchUpdateLastActive(ctx context.Context, ids []int64, at time.Time) (int, int, error) {
	total := len(ids)
	if total == 0 {
		return 0, 0, nil
	}

	result := r.db.WithContext(ctx).Model(&entities.Profile{}).
		Where("user_id IN ?", ids).
		Update("last_active_at", at)
	if result.Error != nil {
		logger.Errorf("failed to batch update last_active_at: %v", result.Error)
		return 0, total, fmt.Errorf("failed to batch update last active at: %w", result.Error)
	}
	return int(result.RowsAffected), total, nil
}

// DeleteCascade soft-deletes the profile and hard-deletes its Matches and
// UserInteractions, in a single transaction (§3 account-deletion cascade).
func (r *ProfileRepositoryImpl) DeleteCascade(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Profile{}).Where("user_id = ?", userID).Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate profile: %w", err)
		}
		if err := tx.Where("user1_id = ? OR user2_id = ?", userID, userID).Delete(&entities.Match{}).Error; err != nil {
			return fmt.Errorf("failed to delete matches: %w", err)
		}
		if err := tx.Where("user_id = ? OR target_user_id = ?", userID, userID).Delete(&entities.UserInteraction{}).Error; err != nil {
			return fmt.Errorf("failed to delete interactions: %w", err)
		}
		return nil
	})
}
