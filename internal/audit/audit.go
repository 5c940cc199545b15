// Package audit records every write to the dataset as a VerdictEvent.
//
// The dataset itself lives in memory and is rebuilt on restart; the audit
// trail is what survives. A Sink decides where events go: the process log,
// a MongoDB collection, or a Redis stream.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tguardian/monitor-api/internal/domain"
	"tguardian/monitor-api/internal/logging"
)

// Event sources.
const (
	SourceVerdict = "verdict_update"
	SourceReview  = "review_approval"
	SourceLLM     = "llm_analyze"
)

// Sink persists audit events.
type Sink interface {
	Record(ctx context.Context, ev domain.VerdictEvent) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
	Name() string
}

// StatusChanged builds the event for a verdict transition.
func StatusChanged(rec domain.TransactionRecord, previous, action, reason, source string, at time.Time) domain.VerdictEvent {
	return domain.VerdictEvent{
		ID:             uuid.NewString(),
		Kind:           domain.EventStatusChanged,
		TransactionID:  rec.TransactionID,
		PreviousStatus: previous,
		NewStatus:      rec.Status,
		Action:         action,
		Reason:         reason,
		Source:         source,
		EnsembleScore:  rec.EnsembleScore,
		OccurredAt:     at.UTC(),
	}
}

// AnalysisAttached builds the event for a stored LLM analysis.
func AnalysisAttached(rec domain.TransactionRecord, reason string, at time.Time) domain.VerdictEvent {
	return domain.VerdictEvent{
		ID:            uuid.NewString(),
		Kind:          domain.EventAnalysisAttached,
		TransactionID: rec.TransactionID,
		Reason:        reason,
		Source:        SourceLLM,
		EnsembleScore: rec.EnsembleScore,
		OccurredAt:    at.UTC(),
	}
}

// ─── Log sink ─────────────────────────────────────────────────────────────────

// LogSink writes events to the logger found in the context.
type LogSink struct{}

func (LogSink) Name() string { return "log" }

func (LogSink) Ping(context.Context) error { return nil }

func (LogSink) Record(ctx context.Context, ev domain.VerdictEvent) error {
	logging.FromContext(ctx).InfoContext(ctx, "audit event",
		slog.String("event_id", ev.ID),
		slog.String("kind", ev.Kind),
		slog.String("transaction_id", ev.TransactionID),
		slog.String("previous_status", ev.PreviousStatus),
		slog.String("new_status", ev.NewStatus),
		slog.String("action", ev.Action),
		slog.String("source", ev.Source),
	)
	return nil
}

// ─── Tee ──────────────────────────────────────────────────────────────────────

// Tee fans every event out to all sinks and joins their errors.
type Tee []Sink

func (t Tee) Name() string {
	if len(t) == 0 {
		return "none"
	}
	name := t[0].Name()
	for _, s := range t[1:] {
		name += "+" + s.Name()
	}
	return name
}

func (t Tee) Record(ctx context.Context, ev domain.VerdictEvent) error {
	var errs []error
	for _, s := range t {
		if err := s.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t Tee) Ping(ctx context.Context) error {
	var errs []error
	for _, s := range t {
		if err := s.Ping(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
