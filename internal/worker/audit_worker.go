package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"titipsini/internal/amqp"
	"titipsini/internal/storage"
)

// LoginRecorder persists login audit events.
type LoginRecorder interface {
	RecordLoginEvent(ctx context.Context, ev storage.LoginEventRow) (bool, error)
}

// AuditWorker stores login events consumed from the broker.
type AuditWorker struct {
	recorder   LoginRecorder
	recorded   atomic.Int64
	duplicates atomic.Int64
}

func NewAuditWorker(recorder LoginRecorder) *AuditWorker {
	return &AuditWorker{recorder: recorder}
}

// HandleLoginEvent processes a single login event from AMQP. Returning an
// error requeues the delivery.
func (w *AuditWorker) HandleLoginEvent(ctx context.Context, msg *amqp.LoginEvent) error {
	if msg == nil || msg.ID == "" {
		slog.WarnContext(ctx, "Dropping login event without ID")
		return nil
	}

	inserted, err := w.recorder.RecordLoginEvent(ctx, storage.LoginEventRow{
		ID:         msg.ID,
		Email:      msg.Email,
		RemoteAddr: msg.RemoteAddr,
		UserAgent:  msg.UserAgent,
		RequestID:  msg.RequestID,
		Success:    msg.Success,
		OccurredAt: msg.Timestamp,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("record login event: %w", err)
	}

	if !inserted {
		w.duplicates.Add(1)
		slog.DebugContext(ctx, "Login event already recorded", "event_id", msg.ID)
		return nil
	}
	w.recorded.Add(1)
	slog.InfoContext(ctx, "Login event recorded",
		"event_id", msg.ID,
		"email", msg.Email,
		"success", msg.Success)
	return nil
}

// Stats reports how many events were stored and how many were redeliveries.
func (w *AuditWorker) Stats() (recorded, duplicates int64) {
	return w.recorded.Load(), w.duplicates.Load()
}
