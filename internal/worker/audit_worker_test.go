package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgetbook/internal/amqp"
	"budgetbook/internal/storage"
)

type fakeRecorder struct {
	events []storage.Event
	err    error
}

func (f *fakeRecorder) InsertEvent(ctx context.Context, ev storage.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func TestHandleChangeRecordsEvent(t *testing.T) {
	rec := &fakeRecorder{}
	w := NewAuditWorker(rec)

	occurred := time.Date(2025, 5, 10, 12, 30, 0, 0, time.UTC)
	ev := &amqp.ChangeEvent{Entity: amqp.EntityExpense, Action: amqp.ActionCreated, ID: 42, Timestamp: occurred}

	if err := w.HandleChange(context.Background(), ev); err != nil {
		t.Fatalf("HandleChange() error = %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(rec.events))
	}
	got := rec.events[0]
	if got.Entity != "expense" || got.Action != "created" || got.EntityID != 42 {
		t.Errorf("recorded %+v", got)
	}
	if !got.OccurredAt.Equal(occurred) {
		t.Errorf("OccurredAt = %v, want %v", got.OccurredAt, occurred)
	}
}

func TestHandleChangeReturnsRecorderError(t *testing.T) {
	w := NewAuditWorker(&fakeRecorder{err: errors.New("db locked")})

	ev := &amqp.ChangeEvent{Entity: amqp.EntityPlan, Action: amqp.ActionDeleted, ID: 1, Timestamp: time.Now()}
	if err := w.HandleChange(context.Background(), ev); err == nil {
		t.Fatal("expected error so the message gets requeued")
	}
}
