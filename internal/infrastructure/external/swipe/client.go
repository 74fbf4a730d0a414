// Package swipe is the outbound client to the external swipe/interaction
// store (§1 excluded collaborator, §6 "External clients consumed"). It is
// read-only: swiped-target ids and trust scores, never writes.
package swipe

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/best-koder-ever/matchmaking-service/pkg/config"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

// Client is the swipe service's HTTP client, circuit-broken so an
// unavailable upstream degrades gracefully rather than blocking candidate
// requests (§7 UpstreamUnavailable).
type Client struct {
	http     *resty.Client
	breaker  *gobreaker.CircuitBreaker
	pageSize int
}

// NewClient builds a Client from configuration, grounded on the teacher
// pack's resty+gobreaker wiring idiom.
func NewClient(cfg config.SwipeServiceConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "swipe_service",
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures > 5 },
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("swipe service circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &Client{http: httpClient, breaker: breaker, pageSize: cfg.PageSize}
}

type swipedPage struct {
	TargetUserIDs []int64 `json:"targetUserIds"`
	HasMore       bool    `json:"hasMore"`
}

// SwipedUserIDs pages through GET /swipes/user/{id} until a short page.
// Any failure degrades to an empty set (§6, §7): a candidate request must
// never fail because this upstream is down.
func (c *Client) SwipedUserIDs(ctx context.Context, userID int64) map[int64]struct{} {
	result := make(map[int64]struct{})
	page := 1

	for {
		var body swipedPage
		_, err := c.breaker.Execute(func() (interface{}, error) {
			resp, err := c.http.R().
				SetContext(ctx).
				SetQueryParams(map[string]string{
					"page":     fmt.Sprintf("%d", page),
					"pageSize": fmt.Sprintf("%d", c.pageSize),
				}).
				SetResult(&body).
				Get(fmt.Sprintf("/swipes/user/%d", userID))
			if err != nil {
				return nil, err
			}
			if resp.IsError() {
				return nil, fmt.Errorf("swipe service returned %d", resp.StatusCode())
			}
			return nil, nil
		})
		if err != nil {
			logger.Warnf("swipe service: SwipedUserIDs(%d) failed, degrading to empty set: %v", userID, err)
			return result
		}

		for _, id := range body.TargetUserIDs {
			result[id] = struct{}{}
		}
		if !body.HasMore || len(body.TargetUserIDs) < c.pageSize {
			return result
		}
		page++
	}
}

type trustScoreResponse struct {
	UserID     int64           `json:"userId"`
	TrustScore decimal.Decimal `json:"trustScore"`
}

// defaultTrust is the §7/§9 fallback: on failure, treat trust as 100 (full
// trust), so shadow-restrict never penalizes a user for our own outage.
var defaultTrust = decimal.NewFromInt(100)

// TrustScore fetches one user's trust score. On failure it returns 100,
// kept as decimal.Decimal end to end per §9's open question ("keep full
// precision when multiplying").
func (c *Client) TrustScore(ctx context.Context, userID int64) decimal.Decimal {
	var body trustScoreResponse
	_, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&body).
			Get(fmt.Sprintf("/internal/swipe-behavior/%d/trust-score", userID))
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("swipe service returned %d", resp.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		logger.Warnf("swipe service: TrustScore(%d) failed, defaulting to 100: %v", userID, err)
		return defaultTrust
	}
	return body.TrustScore
}

type batchTrustScoresResponse struct {
	Scores []trustScoreResponse `json:"scores"`
}

// BatchTrustScores fetches trust scores for many users in one call. Any
// userId missing from the upstream's response (including total failure)
// defaults to trust=100.
func (c *Client) BatchTrustScores(ctx context.Context, userIDs []int64) map[int64]decimal.Decimal {
	result := make(map[int64]decimal.Decimal, len(userIDs))
	for _, id := range userIDs {
		result[id] = defaultTrust
	}
	if len(userIDs) == 0 {
		return result
	}

	var body batchTrustScoresResponse
	_, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(map[string]interface{}{"userIds": userIDs}).
			SetResult(&body).
			Post("/internal/swipe-behavior/batch-trust-scores")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("swipe service returned %d", resp.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		logger.Warnf("swipe service: BatchTrustScores failed, defaulting all to 100: %v", err)
		return result
	}

	for _, s := range body.Scores {
		result[s.UserID] = s.TrustScore
	}
	return result
}

// shadowRestrictMultiplier maps trust ∈ [0,100] to a multiplier ∈ [0.5,1.0],
// monotone non-decreasing in trust (§8 testable property).
func ShadowRestrictMultiplier(trust decimal.Decimal) float64 {
	t, _ := trust.Float64()
	if t < 0 {
		t = 0
	}
	if t > 100 {
		t = 100
	}
	return 0.5 + t/200
}
