package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const (
	textCodeInvalidTransition = "INVALID_STATUS_TRANSITION"
	textCodeTerminalStatus    = "TERMINAL_STATUS"
)

// ErrInvalidTransition is returned when a requested status change is not allowed.
var ErrInvalidTransition = goerrors.New("invalid identity status transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// ErrTerminalStatus is returned when attempting to move away from archived.
var ErrTerminalStatus = goerrors.New("identity status is terminal", goerrors.CategoryConflict).
	WithTextCode(textCodeTerminalStatus).
	WithCode(goerrors.CodeConflict)

// Transitions are one-directional: unverified goes to active, active goes to
// archived, and archived is terminal. There is no reactivation path.
var statusTransitions = map[Status][]Status{
	StatusUnverified: {StatusActive, StatusArchived},
	StatusActive:     {StatusArchived},
	StatusArchived:   {},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Status) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type statusUpdater interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Identity, error)
}

// IdentityStateMachine validates and persists identity status transitions,
// emitting an activity event per change.
type IdentityStateMachine struct {
	repo     statusUpdater
	activity ActivitySink
	logger   Logger
	now      func() time.Time
}

// StateMachineOption customizes the machine.
type StateMachineOption func(*IdentityStateMachine)

// WithStateMachineActivitySink attaches an audit sink.
func WithStateMachineActivitySink(sink ActivitySink) StateMachineOption {
	return func(m *IdentityStateMachine) {
		m.activity = normalizeActivitySink(sink)
	}
}

// WithStateMachineLogger overrides the default logger.
func WithStateMachineLogger(logger Logger) StateMachineOption {
	return func(m *IdentityStateMachine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStateMachineClock overrides the clock, for tests.
func WithStateMachineClock(now func() time.Time) StateMachineOption {
	return func(m *IdentityStateMachine) {
		if now != nil {
			m.now = now
		}
	}
}

// NewIdentityStateMachine builds a machine persisting through the given repo.
func NewIdentityStateMachine(repo statusUpdater, opts ...StateMachineOption) *IdentityStateMachine {
	m := &IdentityStateMachine{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Transition moves identity to the target status, persisting the change and
// recording who asked for it.
func (m *IdentityStateMachine) Transition(ctx context.Context, actor ActorRef, identity *Identity, to Status) (*Identity, error) {
	if identity == nil {
		return nil, ErrDataNotFound("identity")
	}

	from := identity.Status
	if from == StatusArchived {
		return nil, ErrTerminalStatus
	}
	if !CanTransition(from, to) {
		return nil, ErrInvalidTransition
	}

	updated, err := m.repo.UpdateStatus(ctx, identity.ID, to)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrDataCannotSave("identity")
	}

	event := ActivityEvent{
		EventType:  ActivityEventStatusChanged,
		Actor:      actor,
		UserID:     identity.ID.String(),
		FromStatus: from,
		ToStatus:   to,
		OccurredAt: m.now(),
	}
	if to == StatusArchived {
		event.EventType = ActivityEventAccountArchived
	}
	if err := m.activity.Record(ctx, event); err != nil {
		m.logger.Warn("activity sink error during status transition: %v", err)
	}

	return updated, nil
}
