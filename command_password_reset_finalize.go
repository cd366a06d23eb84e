package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type FinalizePasswordResetMessage struct {
	Username string `json:"username"`
	Key      string `json:"key"`
	Password string `json:"password"`
}

func (e FinalizePasswordResetMessage) Type() string { return "credential.password_reset.finalize" }

// FinalizePasswordResetHandler consumes a forgot-password key. The new
// digest lands and the key fields clear in the same write; a second attempt
// with the same key matches nothing and fails.
type FinalizePasswordResetHandler struct {
	repo     RepositoryManager
	activity ActivitySink
	logger   Logger
}

// NewFinalizePasswordResetHandler creates a handler with sane defaults.
func NewFinalizePasswordResetHandler(repo RepositoryManager) *FinalizePasswordResetHandler {
	return &FinalizePasswordResetHandler{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

// WithActivitySink sets the sink used to emit password reset events.
func (h *FinalizePasswordResetHandler) WithActivitySink(sink ActivitySink) *FinalizePasswordResetHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *FinalizePasswordResetHandler) WithLogger(logger Logger) *FinalizePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	credential := &Credential{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var err error

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		credential, err = h.repo.Credentials().GetByUsernameTx(ctx, tx, event.Username)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrDataNotFound("credential")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not retrieve credential for password reset")
		}

		if err := VerifySecurityKey("forgot key", credential.ForgotKey, credential.ForgotExpire, event.Key, time.Now()); err != nil {
			return err
		}

		passwordHash, err := HashPassword(event.Password)
		if err != nil {
			return err
		}

		return h.repo.Credentials().ConsumeForgotKeyTx(ctx, tx, credential.ID, event.Key, passwordHash)
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to finalize password reset")
	}

	h.recordActivity(ctx, credential)

	return nil
}

func (h *FinalizePasswordResetHandler) recordActivity(ctx context.Context, credential *Credential) {
	if credential == nil {
		return
	}

	event := ActivityEvent{
		EventType: ActivityEventPasswordResetSuccess,
		Actor: ActorRef{
			ID:   credential.UserID.String(),
			Type: "user",
		},
		UserID: credential.UserID.String(),
		Metadata: map[string]any{
			"credential_id": credential.ID.String(),
		},
		OccurredAt: time.Now(),
	}

	if err := normalizeActivitySink(h.activity).Record(ctx, event); err != nil {
		h.logger.Warn("activity sink error during password reset: %v", err)
	}
}
