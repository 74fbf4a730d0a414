package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
)

// memoryProfileRepository is an in-memory ProfileRepository fake exercising
// only the activity-ping and cascade-delete methods these use cases call.
type memoryProfileRepository struct {
	lastActiveUserID int64
	lastActiveAt     time.Time
	updateErr        error

	batchIDs      []int64
	batchUpdated  int
	batchTotal    int
	batchErr      error

	deletedUserID int64
	deleteErr     error
}

func (m *memoryProfileRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Profile, error) {
	panic("not used")
}
func (m *memoryProfileRepository) GetByUserIDs(ctx context.Context, userIDs []int64) ([]entities.Profile, error) {
	panic("not used")
}
func (m *memoryProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	panic("not used")
}
func (m *memoryProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	panic("not used")
}
func (m *memoryProfileRepository) Deactivate(ctx context.Context, userID int64) error {
	panic("not used")
}
func (m *memoryProfileRepository) CandidateQuery(ctx context.Context) *gorm.DB { panic("not used") }
func (m *memoryProfileRepository) CountActive(ctx context.Context) (int64, error) {
	panic("not used")
}
func (m *memoryProfileRepository) SelectForRefresh(ctx context.Context, limit int, onlyActive bool) ([]entities.Profile, error) {
	panic("not used")
}
func (m *memoryProfileRepository) ListActiveUserIDs(ctx context.Context) ([]int64, error) {
	panic("not used")
}
func (m *memoryProfileRepository) UpdateLastActive(ctx context.Context, userID int64, at time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.lastActiveUserID = userID
	m.lastActiveAt = at
	return nil
}
func (m *memoryProfileRepository) BatchUpdateLastActive(ctx context.Context, ids []int64, at time.Time) (int, int, error) {
	if m.batchErr != nil {
		return 0, 0, m.batchErr
	}
	m.batchIDs = ids
	return m.batchUpdated, m.batchTotal, nil
}
func (m *memoryProfileRepository) DeleteCascade(ctx context.Context, userID int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedUserID = userID
	return nil
}

func TestUpdateActivityUseCase_ExecuteOneRecordsCurrentTime(t *testing.T) {
	repo := &memoryProfileRepository{}
	uc := NewUpdateActivityUseCase(repo)

	before := time.Now().UTC()
	err := uc.ExecuteOne(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, int64(42), repo.lastActiveUserID)
	assert.False(t, repo.lastActiveAt.Before(before))
}

func TestUpdateActivityUseCase_ExecuteOnePropagatesError(t *testing.T) {
	repo := &memoryProfileRepository{updateErr: errors.New("db down")}
	uc := NewUpdateActivityUseCase(repo)
	err := uc.ExecuteOne(context.Background(), 42)
	assert.Error(t, err)
}

func TestUpdateActivityUseCase_ExecuteBatchReportsUpdatedAndTotal(t *testing.T) {
	repo := &memoryProfileRepository{batchUpdated: 2, batchTotal: 3}
	uc := NewUpdateActivityUseCase(repo)

	updated, total, err := uc.ExecuteBatch(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Equal(t, 3, total)
	assert.Equal(t, []int64{1, 2, 3}, repo.batchIDs)
}

func TestDeleteAccountUseCase_ExecuteCascadesDelete(t *testing.T) {
	repo := &memoryProfileRepository{}
	uc := NewDeleteAccountUseCase(repo)

	err := uc.Execute(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), repo.deletedUserID)
}

func TestDeleteAccountUseCase_ExecutePropagatesError(t *testing.T) {
	repo := &memoryProfileRepository{deleteErr: errors.New("fk violation")}
	uc := NewDeleteAccountUseCase(repo)
	err := uc.Execute(context.Background(), 7)
	assert.Error(t, err)
}
