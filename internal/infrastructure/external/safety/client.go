// Package safety is the outbound client to the external block/safety store
// (§1 excluded collaborator, §6 "Safety service"). Read-only; failures
// "fail open" per §7.
package safety

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/best-koder-ever/matchmaking-service/pkg/config"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

// Client is the safety service's HTTP client.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
}

// NewClient builds a Client from configuration.
func NewClient(cfg config.SafetyServiceConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "safety_service",
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures > 5 },
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("safety service circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &Client{http: httpClient, breaker: breaker}
}

type blockedResponse struct {
	// BlockedUserIDs may arrive string-encoded per §6; non-parseable
	// entries are dropped rather than failing the whole call.
	BlockedUserIDs []string `json:"blockedUserIds"`
}

// BlockedUserIDs returns the caller's blocked-user set. On failure, "fail
// open": returns an empty set (§7 UpstreamUnavailable).
func (c *Client) BlockedUserIDs(ctx context.Context) map[int64]struct{} {
	result := make(map[int64]struct{})

	var body blockedResponse
	_, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&body).
			Get("/safety/blocked")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("safety service returned %d", resp.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		logger.Warnf("safety service: BlockedUserIDs failed, degrading to empty set: %v", err)
		return result
	}

	for _, raw := range body.BlockedUserIDs {
		id, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			continue
		}
		result[id] = struct{}{}
	}
	return result
}

type isBlockedResponse struct {
	Blocked bool `json:"blocked"`
}

// IsBlocked reports whether target is blocked relative to the authenticated
// caller. On failure, "fail open": returns false.
func (c *Client) IsBlocked(ctx context.Context, targetUserID int64) bool {
	var body isBlockedResponse
	_, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&body).
			Get(fmt.Sprintf("/safety/is-blocked/%d", targetUserID))
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("safety service returned %d", resp.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		logger.Warnf("safety service: IsBlocked(%d) failed, defaulting to false: %v", targetUserID, err)
		return false
	}
	return body.Blocked
}
