package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const QueueAudit = "jobs:audit"

// AuditEvent is the wire format for the async audit trail. Services emit one
// after every successful state-changing operation; the worker pool persists
// them append-only. The emitting side never reads the trail back.
type AuditEvent struct {
	TenantID   string                 `json:"tenant_id"`
	BranchID   string                 `json:"branch_id"`
	UserID     string                 `json:"user_id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Dispatcher enqueues audit events into a Redis list.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueAudit pushes an audit event to Redis.
func (d *Dispatcher) EnqueueAudit(ctx context.Context, ev AuditEvent) error {
	encoded, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueAudit, encoded).Err()
}
