package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

type ActivateAccountMessage struct {
	Email      string `json:"email"`
	Key        string `json:"key"`
	OnResponse func(resp *ActivateAccountResponse)
}

func (e ActivateAccountMessage) Type() string { return "account.activate" }

type ActivateAccountResponse struct {
	Identity *Identity
	Success  bool
}

// ActivateAccountHandler consumes an activation key: the status flip and the
// key clearing happen in the same write, so a key can only ever be used once.
type ActivateAccountHandler struct {
	repo     RepositoryManager
	activity ActivitySink
	logger   Logger
}

// NewActivateAccountHandler creates a handler with sane defaults.
func NewActivateAccountHandler(repo RepositoryManager) *ActivateAccountHandler {
	return &ActivateAccountHandler{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

// WithActivitySink sets the sink used to emit activation events.
func (h *ActivateAccountHandler) WithActivitySink(sink ActivitySink) *ActivateAccountHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *ActivateAccountHandler) WithLogger(logger Logger) *ActivateAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ActivateAccountHandler) Execute(ctx context.Context, event ActivateAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account activation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ActivateAccountHandler) execute(ctx context.Context, event ActivateAccountMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	identity, err := h.repo.Identities().GetByEmail(ctx, event.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrDataNotFound("identity")
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve identity for activation")
	}

	if !CanTransition(identity.Status, StatusActive) {
		return ErrInvalidTransition
	}

	if err := VerifySecurityKey("active key", identity.ActiveKey, identity.ActiveExpire, event.Key, time.Now()); err != nil {
		return err
	}

	if err := h.repo.Identities().Activate(ctx, identity.ID, event.Key); err != nil {
		return err
	}

	h.recordActivity(ctx, identity)

	if event.OnResponse != nil {
		event.OnResponse(&ActivateAccountResponse{
			Identity: identity,
			Success:  true,
		})
	}

	return nil
}

func (h *ActivateAccountHandler) recordActivity(ctx context.Context, identity *Identity) {
	event := ActivityEvent{
		EventType: ActivityEventAccountActivated,
		Actor: ActorRef{
			ID:   identity.ID.String(),
			Type: "user",
		},
		UserID:     identity.ID.String(),
		FromStatus: identity.Status,
		ToStatus:   StatusActive,
		OccurredAt: time.Now(),
	}

	if err := normalizeActivitySink(h.activity).Record(ctx, event); err != nil {
		h.logger.Warn("activity sink error during activation: %v", err)
	}
}
