// Package audit implements the append-only action log as a fire-and-forget
// side channel over RabbitMQ.  Every state-mutating operation records an
// Entry; a failure anywhere in this package is logged and swallowed, never
// surfaced to the primary operation.
package audit

import (
	"context"
	"time"
)

const auditQueueName = "audit.log"

// Entry describes one mutating action.  ActorID is nil for customer and
// system actions.  Payload carries the change diff, e.g.
// {"old_status": "pending", "new_status": "cooking"}.
type Entry struct {
	ActorID    *int64         `json:"actor_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	IP         string         `json:"ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	At         string         `json:"at"` // RFC3339 UTC
}

// NewEntry stamps an entry with the current UTC time.
func NewEntry(action, entityType, entityID string) Entry {
	return Entry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		At:         time.Now().UTC().Format(time.RFC3339),
	}
}

// Recorder is the side-channel the order service writes to.  Record must
// never block the caller on failure and never return an error; a lost
// audit entry is acceptable, a failed order is not.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// Noop discards every entry.  Used in tests and when no broker is
// configured.
type Noop struct{}

// Record implements Recorder by doing nothing.
func (Noop) Record(context.Context, Entry) {}
