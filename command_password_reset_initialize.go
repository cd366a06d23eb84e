package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

type InitializePasswordResetMessage struct {
	Email      string `json:"email"`
	OnResponse func(resp *InitializePasswordResetResponse)
}

func (e InitializePasswordResetMessage) Type() string { return "credential.password_reset" }

type InitializePasswordResetResponse struct {
	Key     string
	Expire  time.Time
	Success bool
}

// InitializePasswordResetHandler issues a forgot-password key: a fresh
// single-use random value with a fixed TTL, persisted on the credential and
// handed to the notifier for out-of-band delivery.
type InitializePasswordResetHandler struct {
	repo     RepositoryManager
	notifier Notifier
	activity ActivitySink
	logger   Logger
}

// NewInitializePasswordResetHandler creates a handler with sane defaults.
func NewInitializePasswordResetHandler(repo RepositoryManager) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		repo:     repo,
		notifier: noopNotifier{},
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

// WithNotifier sets the out-of-band message dispatcher.
func (h *InitializePasswordResetHandler) WithNotifier(n Notifier) *InitializePasswordResetHandler {
	h.notifier = normalizeNotifier(n)
	return h
}

// WithActivitySink sets the sink used to emit reset events.
func (h *InitializePasswordResetHandler) WithActivitySink(sink ActivitySink) *InitializePasswordResetHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	identity, err := h.repo.Identities().GetByEmail(ctx, event.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrDataNotFound("identity")
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve identity for password reset")
	}

	credential, err := h.repo.Credentials().GetByUsername(ctx, identity.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrDataNotFound("credential")
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve credential for password reset")
	}

	key, expire, err := NewSecurityKey()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint forgot key")
	}

	if err := h.repo.Credentials().SetForgotKey(ctx, credential.ID, key, expire); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist forgot key")
	}

	// best-effort after the write
	if err := h.notifier.SendForgotPassword(ctx, ForgotPasswordNotification{
		Name:  identity.FullName(),
		Email: identity.Email,
		Token: key,
	}); err != nil {
		h.logger.Warn("forgot password notification error: %v", err)
	}

	h.recordActivity(ctx, identity)

	if event.OnResponse != nil {
		event.OnResponse(&InitializePasswordResetResponse{
			Key:     key,
			Expire:  expire,
			Success: true,
		})
	}

	return nil
}

func (h *InitializePasswordResetHandler) recordActivity(ctx context.Context, identity *Identity) {
	event := ActivityEvent{
		EventType: ActivityEventPasswordResetIssued,
		Actor: ActorRef{
			ID:   identity.ID.String(),
			Type: "user",
		},
		UserID:     identity.ID.String(),
		OccurredAt: time.Now(),
	}

	if err := normalizeActivitySink(h.activity).Record(ctx, event); err != nil {
		h.logger.Warn("activity sink error during password reset initialization: %v", err)
	}
}
