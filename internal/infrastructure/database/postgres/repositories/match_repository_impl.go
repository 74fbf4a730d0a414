package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

// MatchRepositoryImpl implements repositories.MatchRepository using GORM.
type MatchRepositoryImpl struct {
	db *gorm.DB
}

// NewMatchRepository creates a new MatchRepository instance.
func NewMatchRepository(db *gorm.DB) repositories.MatchRepository {
	return &MatchRepositoryImpl{db: db}
}

// Upsert canonicalizes the pair via entities.NewMatch, then inserts unless
// the pair already exists — mutual-match submissions are idempotent.
func (r *MatchRepositoryImpl) Upsert(ctx context.Context, userA, userB int64, compatibilityScore float64, source string) (*entities.Match, bool, error) {
	candidate := entities.NewMatch(userA, userB, compatibilityScore, source)

	var existing entities.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", candidate.User1ID, candidate.User2ID).
		First(&existing).Error

	switch {
	case err == nil:
		return &existing, false, nil
	case err != gorm.ErrRecordNotFound:
		logger.Errorf("failed to look up match for pair (%d, %d): %v", candidate.User1ID, candidate.User2ID, err)
		return nil, false, fmt.Errorf("failed to look up match: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(candidate).Error; err != nil {
		logger.Errorf("failed to create match for pair (%d, %d): %v", candidate.User1ID, candidate.User2ID, err)
		return nil, false, fmt.Errorf("failed to create match: %w", err)
	}
	return candidate, true, nil
}

func (r *MatchRepositoryImpl) Stats(ctx context.Context, userID int64) (repositories.MatchStats, error) {
	var stats repositories.MatchStats

	base := r.db.WithContext(ctx).Model(&entities.Match{}).Where("user1_id = ? OR user2_id = ?", userID, userID)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalMatches).Error; err != nil {
		return stats, fmt.Errorf("failed to count total matches: %w", err)
	}
	if err := base.Session(&gorm.Session{}).Where("is_active = ?", true).Count(&stats.ActiveMatches).Error; err != nil {
		return stats, fmt.Errorf("failed to count active matches: %w", err)
	}

	var avg *float64
	if err := base.Session(&gorm.Session{}).Select("AVG(compatibility_score)").Scan(&avg).Error; err != nil {
		return stats, fmt.Errorf("failed to average compatibility score: %w", err)
	}
	if avg != nil {
		stats.AverageCompatibilityScore = *avg
	}

	var latest entities.Match
	if err := base.Session(&gorm.Session{}).Order("created_at DESC").First(&latest).Error; err == nil {
		stats.LastMatchAt = &latest.CreatedAt
	} else if err != gorm.ErrRecordNotFound {
		return stats, fmt.Errorf("failed to load last match: %w", err)
	}

	return stats, nil
}

func (r *MatchRepositoryImpl) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("user1_id = ? OR user2_id = ?", userID, userID).Delete(&entities.Match{})
	if result.Error != nil {
		logger.Errorf("failed to delete matches for user %d: %v", userID, result.Error)
		return 0, fmt.Errorf("failed to delete matches: %w", result.Error)
	}
	return result.RowsAffected, nil
}
