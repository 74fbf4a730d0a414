package swipe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/best-koder-ever/matchmaking-service/pkg/config"
)

func testConfig(baseURL string) config.SwipeServiceConfig {
	return config.SwipeServiceConfig{
		BaseURL:        baseURL,
		Timeout:        time.Second,
		PageSize:       50,
		BreakerTimeout: time.Second,
	}
}

func TestClient_SwipedUserIDs_PagesUntilShortPage(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "1" {
			json.NewEncoder(w).Encode(swipedPage{TargetUserIDs: []int64{1, 2}, HasMore: true})
			return
		}
		json.NewEncoder(w).Encode(swipedPage{TargetUserIDs: []int64{3}, HasMore: false})
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.PageSize = 2 // page 1 is full, page 2 is short
	client := NewClient(cfg)
	ids := client.SwipedUserIDs(context.Background(), 100)

	assert.Len(t, ids, 3)
	for _, id := range []int64{1, 2, 3} {
		_, ok := ids[id]
		assert.True(t, ok, "expected id %d in result", id)
	}
}

func TestClient_SwipedUserIDs_DegradesToEmptySetOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	ids := client.SwipedUserIDs(context.Background(), 100)

	assert.Empty(t, ids, "an upstream failure must degrade to an empty set, never an error")
}

func TestClient_TrustScore_DefaultsTo100OnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	score := client.TrustScore(context.Background(), 1)

	assert.True(t, score.Equal(decimal.NewFromInt(100)))
}

func TestClient_TrustScore_ReturnsUpstreamValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(trustScoreResponse{UserID: 1, TrustScore: decimal.NewFromFloat(42.5)})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	score := client.TrustScore(context.Background(), 1)

	assert.True(t, score.Equal(decimal.NewFromFloat(42.5)))
}

func TestClient_BatchTrustScores_MissingIDsDefaultTo100(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(batchTrustScoresResponse{Scores: []trustScoreResponse{
			{UserID: 1, TrustScore: decimal.NewFromInt(80)},
		}})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	scores := client.BatchTrustScores(context.Background(), []int64{1, 2})

	assert.True(t, scores[1].Equal(decimal.NewFromInt(80)))
	assert.True(t, scores[2].Equal(decimal.NewFromInt(100)), "ids missing from the upstream response default to trust=100")
}

func TestClient_BatchTrustScores_EmptyInputShortCircuits(t *testing.T) {
	client := NewClient(testConfig("http://127.0.0.1:0"))
	scores := client.BatchTrustScores(context.Background(), nil)
	assert.Empty(t, scores)
}

func TestShadowRestrictMultiplier_MonotoneNonDecreasingInTrust(t *testing.T) {
	low := ShadowRestrictMultiplier(decimal.NewFromInt(0))
	mid := ShadowRestrictMultiplier(decimal.NewFromInt(50))
	high := ShadowRestrictMultiplier(decimal.NewFromInt(100))

	assert.Equal(t, 0.5, low)
	assert.Equal(t, 0.75, mid)
	assert.Equal(t, 1.0, high)
	assert.LessOrEqual(t, low, mid)
	assert.LessOrEqual(t, mid, high)
}

func TestShadowRestrictMultiplier_ClampsOutOfRangeTrust(t *testing.T) {
	assert.Equal(t, 0.5, ShadowRestrictMultiplier(decimal.NewFromInt(-10)))
	assert.Equal(t, 1.0, ShadowRestrictMultiplier(decimal.NewFromInt(150)))
}
