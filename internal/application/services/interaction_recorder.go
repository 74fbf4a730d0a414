package services

import (
	"context"
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

// InteractionRecorder ingests swipe outcomes the external swipe service
// reports (this engine owns no swipe storage of its own — §1 excludes the
// swipe store as a collaborator consumed only through its read API). Each
// recorded swipe appends a UserInteraction row, invalidates the target's
// cached compatibility scores (§4.3's invalidation rule), and applies the
// real-time Elo-style desirability adjustment (§4.8).
type InteractionRecorder struct {
	interactions repositories.UserInteractionRepository
	scores       repositories.PrecomputedScoreRepository
	profiles     repositories.ProfileRepository
}

// NewInteractionRecorder builds a recorder over the candidate store.
func NewInteractionRecorder(interactions repositories.UserInteractionRepository, scores repositories.PrecomputedScoreRepository, profiles repositories.ProfileRepository) *InteractionRecorder {
	return &InteractionRecorder{interactions: interactions, scores: scores, profiles: profiles}
}

// Record persists the interaction, invalidates stale cached scores against
// the target, and nudges the target's desirability score in real time.
// Missing profiles degrade gracefully: the interaction is still logged, but
// no desirability adjustment is possible without both sides.
func (r *InteractionRecorder) Record(ctx context.Context, swiperID, targetID int64, isLike bool) error {
	interactionType := entities.InteractionPass
	if isLike {
		interactionType = entities.InteractionLike
	}

	if err := r.interactions.Record(ctx, &entities.UserInteraction{
		UserID:       swiperID,
		TargetUserID: targetID,
		Type:         interactionType,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		return err
	}

	if _, err := r.scores.InvalidateForTarget(ctx, targetID); err != nil {
		logger.Warnf("interaction recorder: failed to invalidate scores for target %d: %v", targetID, err)
	}

	swiper, err := r.profiles.GetByUserID(ctx, swiperID)
	if err != nil {
		logger.Warnf("interaction recorder: failed to load swiper %d for desirability adjustment: %v", swiperID, err)
		return nil
	}
	target, err := r.profiles.GetByUserID(ctx, targetID)
	if err != nil {
		logger.Warnf("interaction recorder: failed to load target %d for desirability adjustment: %v", targetID, err)
		return nil
	}
	if swiper == nil || target == nil {
		return nil
	}

	target.DesirabilityScore = AdjustElo(swiper.DesirabilityScore, target.DesirabilityScore, isLike)
	if err := r.profiles.Update(ctx, target); err != nil {
		logger.Warnf("interaction recorder: failed to persist desirability adjustment for user %d: %v", targetID, err)
	}
	return nil
}
