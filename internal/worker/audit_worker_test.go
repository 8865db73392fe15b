package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"titipsini/internal/amqp"
	"titipsini/internal/storage"
)

type fakeRecorder struct {
	seen map[string]storage.LoginEventRow
	err  error
}

func (f *fakeRecorder) RecordLoginEvent(_ context.Context, ev storage.LoginEventRow) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen == nil {
		f.seen = map[string]storage.LoginEventRow{}
	}
	if _, ok := f.seen[ev.ID]; ok {
		return false, nil
	}
	f.seen[ev.ID] = ev
	return true, nil
}

func TestHandleLoginEvent(t *testing.T) {
	rec := &fakeRecorder{}
	w := NewAuditWorker(rec)
	ctx := context.Background()

	ev := &amqp.LoginEvent{
		ID:         "ev-1",
		Email:      "admin@titipsini.com",
		RemoteAddr: "10.0.0.1",
		Success:    true,
		Timestamp:  time.Date(2025, 4, 6, 8, 0, 0, 0, time.UTC),
	}
	if err := w.HandleLoginEvent(ctx, ev); err != nil {
		t.Fatalf("HandleLoginEvent() error = %v", err)
	}
	if err := w.HandleLoginEvent(ctx, ev); err != nil {
		t.Fatalf("redelivery error = %v", err)
	}

	got := rec.seen["ev-1"]
	if got.Email != ev.Email || got.RemoteAddr != ev.RemoteAddr || !got.OccurredAt.Equal(ev.Timestamp) {
		t.Errorf("stored row = %+v", got)
	}
	if recorded, dups := w.Stats(); recorded != 1 || dups != 1 {
		t.Errorf("Stats() = %d, %d; want 1, 1", recorded, dups)
	}
}

func TestHandleLoginEvent_DropsEventsWithoutID(t *testing.T) {
	rec := &fakeRecorder{}
	w := NewAuditWorker(rec)
	if err := w.HandleLoginEvent(context.Background(), &amqp.LoginEvent{Email: "x"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(rec.seen) != 0 {
		t.Errorf("nothing should be recorded, got %v", rec.seen)
	}
}

func TestHandleLoginEvent_StorageError(t *testing.T) {
	boom := errors.New("database is locked")
	w := NewAuditWorker(&fakeRecorder{err: boom})
	err := w.HandleLoginEvent(context.Background(), &amqp.LoginEvent{ID: "ev-2"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}
