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
	"gorm.io/gorm"

	"github.com/best-koder-ever/matchmaking-service/internal/application/services"
	"github.com/best-koder-ever/matchmaking-service/internal/domain/entities"
)

type interactionHandlerInteractionRepository struct {
	recorded []entities.UserInteraction
}

func (m *interactionHandlerInteractionRepository) Record(ctx context.Context, interaction *entities.UserInteraction) error {
	m.recorded = append(m.recorded, *interaction)
	return nil
}

type interactionHandlerScoreRepository struct{}

func (interactionHandlerScoreRepository) GetFresh(ctx context.Context, userID, targetUserID int64, ttl time.Duration, now time.Time) (*entities.PrecomputedScore, error) {
	return nil, nil
}
func (interactionHandlerScoreRepository) Upsert(ctx context.Context, score *entities.PrecomputedScore) error {
	return nil
}
func (interactionHandlerScoreRepository) TopNForUser(ctx context.Context, userID int64, limit int, ttl time.Duration, now time.Time) ([]entities.PrecomputedScore, error) {
	panic("not used")
}
func (interactionHandlerScoreRepository) InvalidateForTarget(ctx context.Context, targetUserID int64) (int64, error) {
	return 0, nil
}

type interactionHandlerProfileRepository struct {
	byUser map[int64]*entities.Profile
}

func (m *interactionHandlerProfileRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Profile, error) {
	if p, ok := m.byUser[userID]; ok {
		return p, nil
	}
	return nil, nil
}
func (m *interactionHandlerProfileRepository) GetByUserIDs(ctx context.Context, userIDs []int64) ([]entities.Profile, error) {
	panic("not used")
}
func (m *interactionHandlerProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	panic("not used")
}
func (m *interactionHandlerProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	return nil
}
func (m *interactionHandlerProfileRepository) Deactivate(ctx context.Context, userID int64) error {
	panic("not used")
}
func (m *interactionHandlerProfileRepository) CandidateQuery(ctx context.Context) *gorm.DB {
	panic("not used")
}
func (m *interactionHandlerProfileRepository) CountActive(ctx context.Context) (int64, error) {
	panic("not used")
}
func (m *interactionHandlerProfileRepository) SelectForRefresh(ctx context.Context, limit int, onlyActive bool) ([]entities.Profile, error) {
	panic("not used")
}
func (m *interactionHandlerProfileRepository) ListActiveUserIDs(ctx context.Context) ([]int64, error) {
	panic("not used")
}
func (m *interactionHandlerProfileRepository) UpdateLastActive(ctx context.Context, userID int64, at time.Time) error {
	panic("not used")
}
func (m *interactionHandlerProfileRepository) BatchUpdateLastActive(ctx context.Context, ids []int64, at time.Time) (int, int, error) {
	panic("not used")
}
func (m *interactionHandlerProfileRepository) DeleteCascade(ctx context.Context, userID int64) error {
	panic("not used")
}

func newInteractionsHandlerForTest() (*InteractionsHandler, *interactionHandlerInteractionRepository) {
	interactions := &interactionHandlerInteractionRepository{}
	profiles := &interactionHandlerProfileRepository{byUser: map[int64]*entities.Profile{
		1: {UserID: 1, DesirabilityScore: 50},
		2: {UserID: 2, DesirabilityScore: 50},
	}}
	recorder := services.NewInteractionRecorder(interactions, interactionHandlerScoreRepository{}, profiles)
	return NewInteractionsHandler(recorder), interactions
}

func TestInteractionsHandler_Record_PersistsInteraction(t *testing.T) {
	h, interactions := newInteractionsHandlerForTest()
	router := gin.New()
	router.POST("/api/v1/interactions", h.Record)

	body, _ := json.Marshal(map[string]any{"swiperId": 1, "targetId": 2, "isLike": true})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interactions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, interactions.recorded, 1)
	assert.True(t, interactions.recorded[0].Type.IsLike())
}

func TestInteractionsHandler_Record_InvalidJSONReturnsBadRequest(t *testing.T) {
	h, _ := newInteractionsHandlerForTest()
	router := gin.New()
	router.POST("/api/v1/interactions", h.Record)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interactions", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
