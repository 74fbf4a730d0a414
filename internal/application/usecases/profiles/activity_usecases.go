// Package profiles holds the internal, API-key-gated profile maintenance
// use cases of §6: activity pings and cascade account deletion.
package profiles

import (
	"context"
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/repositories"
)

// UpdateActivityUseCase records lastActiveAt pings, single or batched (§6
// "Activity-ping endpoints"). Unknown userIds are silently ignored.
type UpdateActivityUseCase struct {
	profiles repositories.ProfileRepository
}

func NewUpdateActivityUseCase(profiles repositories.ProfileRepository) *UpdateActivityUseCase {
	return &UpdateActivityUseCase{profiles: profiles}
}

func (uc *UpdateActivityUseCase) ExecuteOne(ctx context.Context, userID int64) error {
	return uc.profiles.UpdateLastActive(ctx, userID, time.Now().UTC())
}

func (uc *UpdateActivityUseCase) ExecuteBatch(ctx context.Context, userIDs []int64) (updated, total int, err error) {
	return uc.profiles.BatchUpdateLastActive(ctx, userIDs, time.Now().UTC())
}

// DeleteAccountUseCase soft-deletes a profile and cascades its Matches and
// UserInteractions (§6 "Cascade account-delete endpoint").
type DeleteAccountUseCase struct {
	profiles repositories.ProfileRepository
}

func NewDeleteAccountUseCase(profiles repositories.ProfileRepository) *DeleteAccountUseCase {
	return &DeleteAccountUseCase{profiles: profiles}
}

func (uc *DeleteAccountUseCase) Execute(ctx context.Context, userID int64) error {
	return uc.profiles.DeleteCascade(ctx, userID)
}
