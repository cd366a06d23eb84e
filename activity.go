package accounts

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventAccountProvisioned   ActivityEventType = "account.provisioned"
	ActivityEventAccountRegistered    ActivityEventType = "account.registered"
	ActivityEventAccountActivated     ActivityEventType = "account.activated"
	ActivityEventAccountArchived      ActivityEventType = "account.archived"
	ActivityEventStatusChanged        ActivityEventType = "account.status.changed"
	ActivityEventPasswordChanged      ActivityEventType = "credential.password.changed"
	ActivityEventPasswordResetIssued  ActivityEventType = "credential.password.reset.issued"
	ActivityEventPasswordResetSuccess ActivityEventType = "credential.password.reset"
	ActivityEventAvatarUpdated        ActivityEventType = "account.avatar.updated"
)

// ActorRef identifies who or what triggered an event.
type ActorRef struct {
	ID   string
	Type string
}

// ActivityEvent captures audit-friendly information about an action.
type ActivityEvent struct {
	EventType  ActivityEventType
	Actor      ActorRef
	UserID     string
	FromStatus Status
	ToStatus   Status
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
// Sinks run best-effort: errors are logged by the emitter, never propagated.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
