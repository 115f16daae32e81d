package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budgetbook/internal/amqp"
	"budgetbook/internal/storage"
)

// EventRecorder appends one audit row per change event.
// *storage.SQLiteRepository satisfies it.
type EventRecorder interface {
	InsertEvent(ctx context.Context, ev storage.Event) error
}

// AuditWorker consumes change events from the broker and appends them
// to the audit log. Events are idempotent rows; a redelivered message
// simply produces a duplicate entry with a later recorded_at.
type AuditWorker struct {
	recorder EventRecorder
}

func NewAuditWorker(recorder EventRecorder) *AuditWorker {
	return &AuditWorker{recorder: recorder}
}

// HandleChange processes a single change event from AMQP. Returning an
// error makes the consumer requeue the message.
func (w *AuditWorker) HandleChange(ctx context.Context, ev *amqp.ChangeEvent) error {
	slog.InfoContext(ctx, "Processing change event",
		"entity", ev.Entity,
		"action", ev.Action,
		"id", ev.ID)

	err := w.recorder.InsertEvent(ctx, storage.Event{
		Entity:     ev.Entity,
		Action:     ev.Action,
		EntityID:   ev.ID,
		OccurredAt: ev.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("record change event: %w", err)
	}
	return nil
}
