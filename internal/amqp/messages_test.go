package amqp

import "testing"

func TestChangeEventRoundTrip(t *testing.T) {
	ev := NewChangeEvent(EntityExpense, ActionCreated, 42)
	if ev.Timestamp.IsZero() {
		t.Error("NewChangeEvent should stamp the event")
	}

	body, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := ChangeEventFromJSON(body)
	if err != nil {
		t.Fatalf("ChangeEventFromJSON() error = %v", err)
	}
	if got.Entity != "expense" || got.Action != "created" || got.ID != 42 {
		t.Errorf("round trip = %+v", got)
	}
	if !got.Timestamp.Equal(ev.Timestamp) {
		t.Errorf("timestamp changed: %v -> %v", ev.Timestamp, got.Timestamp)
	}
}

func TestChangeEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := ChangeEventFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for invalid payload")
	}
}
