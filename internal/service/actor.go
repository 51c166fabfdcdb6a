package service

import (
	"context"

	"github.com/frpatino6/parkingHub/internal/worker"

	"github.com/rs/zerolog/log"
)

// Actor is the tenant/branch/operator context of the authenticated caller,
// extracted from JWT claims at the HTTP boundary and threaded explicitly
// into every service call. Never ambient state: each operation validates
// the target entity against these fields before mutating.
type Actor struct {
	TenantID   string
	BranchID   string
	OperatorID string
	Role       string
}

// AuditSink receives an event after every successful state-changing
// operation. The production sink is the Redis-backed worker.Dispatcher;
// tests plug in fakes.
type AuditSink interface {
	EnqueueAudit(ctx context.Context, ev worker.AuditEvent) error
}

// emitAudit is best-effort: the operation already succeeded, so a failed
// enqueue is logged, not surfaced to the caller.
func emitAudit(ctx context.Context, sink AuditSink, ev worker.AuditEvent) {
	if sink == nil {
		return
	}
	if err := sink.EnqueueAudit(ctx, ev); err != nil {
		log.Error().Err(err).Str("action", ev.Action).Msg("failed to enqueue audit event")
	}
}
