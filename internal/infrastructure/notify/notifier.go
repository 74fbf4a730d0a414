// Package notify is the fire-and-forget match-event sink (§9 "Replacing
// notification pattern"): candidate/matching success is never coupled to
// notification success.
package notify

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/best-koder-ever/matchmaking-service/pkg/config"
	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

// MatchEvent is published whenever a Match row is created or reactivated.
type MatchEvent struct {
	EventID            string    `json:"eventId"`
	User1ID            int64     `json:"user1Id"`
	User2ID            int64     `json:"user2Id"`
	CompatibilityScore float64   `json:"compatibilityScore"`
	OccurredAt         time.Time `json:"occurredAt"`
}

// Notifier publishes MatchEvents to NATS. A Notifier with a nil connection
// (notification.enabled=false) is a valid no-op, matching the disabled
// path other ambient integrations in the teacher pack take.
type Notifier struct {
	conn    *nats.Conn
	subject string
	timeout time.Duration
}

// NewNotifier connects to NATS per cfg. If cfg.Enabled is false, returns a
// Notifier that silently drops every publish.
func NewNotifier(cfg config.NotificationConfig) *Notifier {
	if !cfg.Enabled {
		return &Notifier{subject: cfg.Subject, timeout: cfg.Timeout}
	}

	conn, err := nats.Connect(cfg.URL, nats.Timeout(cfg.Timeout))
	if err != nil {
		logger.Warnf("notifier: failed to connect to NATS at %s, notifications disabled: %v", cfg.URL, err)
		return &Notifier{subject: cfg.Subject, timeout: cfg.Timeout}
	}

	return &Notifier{conn: conn, subject: cfg.Subject, timeout: cfg.Timeout}
}

// NotifyMatch publishes a MatchEvent. Failures are logged at warn level and
// never returned to the caller — notification is strictly best-effort.
func (n *Notifier) NotifyMatch(user1ID, user2ID int64, compatibilityScore float64) {
	if n.conn == nil {
		return
	}

	event := MatchEvent{
		EventID:            uuid.NewString(),
		User1ID:            user1ID,
		User2ID:            user2ID,
		CompatibilityScore: compatibilityScore,
		OccurredAt:         time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Warnf("notifier: failed to marshal match event: %v", err)
		return
	}

	if err := n.conn.Publish(n.subject, payload); err != nil {
		logger.Warnf("notifier: failed to publish match event: %v", err)
	}
}

// Close releases the underlying NATS connection, if any.
func (n *Notifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
