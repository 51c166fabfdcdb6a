package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/frpatino6/parkingHub/internal/model"
	"github.com/frpatino6/parkingHub/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// StartWorkerPool launches numWorkers goroutines consuming the audit queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, auditRepo repository.AuditLogRepository, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, auditRepo, i)
	}
	log.Info().Msgf("audit worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, auditRepo repository.AuditLogRepository, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueAudit).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processAuditEvent(ctx, rdb, auditRepo, result[1])
		}
	}
}

func processAuditEvent(ctx context.Context, rdb *redis.Client, auditRepo repository.AuditLogRepository, raw string) {
	var ev AuditEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal audit event")
		return
	}

	var metadata []byte
	if ev.Metadata != nil {
		metadata, _ = json.Marshal(ev.Metadata)
	}

	entry := &model.AuditLog{
		TenantID:   ev.TenantID,
		BranchID:   ev.BranchID,
		UserID:     ev.UserID,
		Action:     model.AuditAction(ev.Action),
		EntityType: ev.EntityType,
		EntityID:   ev.EntityID,
		Metadata:   metadata,
	}
	if err := auditRepo.Create(ctx, entry); err != nil {
		// The business operation already committed; park the event in the
		// DLQ for manual replay instead of failing anything.
		log.Error().Err(err).Str("action", ev.Action).Msg("failed to persist audit event")
		SendToDLQ(ctx, rdb, QueueAudit, ev.Action, json.RawMessage(raw), err.Error(), 1)
	}
}
