package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/best-koder-ever/matchmaking-service/internal/application/usecases/profiles"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
)

// handlerProfileRepository serves only the activity-ping/cascade-delete
// methods these handler tests exercise; everything else panics.
type handlerProfileRepository struct {
	lastActiveUserID int64
	batchUpdated     int
	batchTotal       int
	deletedUserID    int64
}

func (m *handlerProfileRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Profile, error) {
	panic("not used")
}
func (m *handlerProfileRepository) GetByUserIDs(ctx context.Context, userIDs []int64) ([]entities.Profile, error) {
	panic("not used")
}
func (m *handlerProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	panic("not used")
}
func (m *handlerProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	panic("not used")
}
func (m *handlerProfileRepository) Deactivate(ctx context.Context, userID int64) error {
	panic("not used")
}
func (m *handlerProfileRepository) CandidateQuery(ctx context.Context) *gorm.DB { panic("not used") }
func (m *handlerProfileRepository) CountActive(ctx context.Context) (int64, error) {
	panic("not used")
}
func (m *handlerProfileRepository) SelectForRefresh(ctx context.Context, limit int, onlyActive bool) ([]entities.Profile, error) {
	panic("not used")
}
func (m *handlerProfileRepository) ListActiveUserIDs(ctx context.Context) ([]int64, error) {
	panic("not used")
}
func (m *handlerProfileRepository) UpdateLastActive(ctx context.Context, userID int64, at time.Time) error {
	m.lastActiveUserID = userID
	return nil
}
func (m *handlerProfileRepository) BatchUpdateLastActive(ctx context.Context, ids []int64, at time.Time) (int, int, error) {
	return m.batchUpdated, m.batchTotal, nil
}
func (m *handlerProfileRepository) DeleteCascade(ctx context.Context, userID int64) error {
	m.deletedUserID = userID
	return nil
}

func newProfilesHandlerForTest() (*ProfilesHandler, *handlerProfileRepository) {
	repo := &handlerProfileRepository{}
	activity := profiles.NewUpdateActivityUseCase(repo)
	del := profiles.NewDeleteAccountUseCase(repo)
	return NewProfilesHandler(activity, del), repo
}

func TestProfilesHandler_PingActivity_RecordsUserID(t *testing.T) {
	h, repo := newProfilesHandlerForTest()
	router := gin.New()
	router.POST("/api/v1/internal/users/:userId/activity", h.PingActivity)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/internal/users/42/activity", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), repo.lastActiveUserID)
}

func TestProfilesHandler_PingActivity_NonNumericUserIDReturnsValidationError(t *testing.T) {
	h, _ := newProfilesHandlerForTest()
	router := gin.New()
	router.POST("/api/v1/internal/users/:userId/activity", h.PingActivity)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/internal/users/nope/activity", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestProfilesHandler_PingActivityBatch_ReportsUpdatedAndTotal(t *testing.T) {
	h, repo := newProfilesHandlerForTest()
	repo.batchUpdated, repo.batchTotal = 2, 3
	router := gin.New()
	router.POST("/api/v1/internal/users/activity/batch", h.PingActivityBatch)

	body, _ := json.Marshal(map[string]any{"userIds": []int64{1, 2, 3}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/internal/users/activity/batch", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Updated int `json:"updated"`
			Total   int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Updated)
	assert.Equal(t, 3, resp.Data.Total)
}

func TestProfilesHandler_PingActivityBatch_InvalidJSONReturnsBadRequest(t *testing.T) {
	h, _ := newProfilesHandlerForTest()
	router := gin.New()
	router.POST("/api/v1/internal/users/activity/batch", h.PingActivityBatch)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/internal/users/activity/batch", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfilesHandler_DeleteAccount_CascadesDelete(t *testing.T) {
	h, repo := newProfilesHandlerForTest()
	router := gin.New()
	router.DELETE("/api/v1/internal/users/:userId", h.DeleteAccount)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/internal/users/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), repo.deletedUserID)
}
