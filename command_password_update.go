package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type UpdatePasswordMessage struct {
	UserID      uuid.UUID `json:"user_id"`
	OldPassword string    `json:"old_password"`
	NewPassword string    `json:"new_password"`
}

func (e UpdatePasswordMessage) Type() string { return "credential.password_update" }

// UpdatePasswordHandler changes a password for a caller who knows the
// current one. The write that lands the new digest also clears any
// outstanding forgot key.
type UpdatePasswordHandler struct {
	repo     RepositoryManager
	activity ActivitySink
	logger   Logger
}

// NewUpdatePasswordHandler creates a handler with sane defaults.
func NewUpdatePasswordHandler(repo RepositoryManager) *UpdatePasswordHandler {
	return &UpdatePasswordHandler{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

// WithActivitySink sets the sink used to emit password change events.
func (h *UpdatePasswordHandler) WithActivitySink(sink ActivitySink) *UpdatePasswordHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *UpdatePasswordHandler) WithLogger(logger Logger) *UpdatePasswordHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *UpdatePasswordHandler) Execute(ctx context.Context, event UpdatePasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdatePasswordHandler) execute(ctx context.Context, event UpdatePasswordMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	records, err := h.repo.Credentials().GetAllByUser(ctx, event.UserID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve credentials for password update")
	}

	var credential *Credential
	for _, record := range records {
		if record.Type == CredentialTypePersonalEmail {
			credential = record
			break
		}
	}
	if credential == nil {
		return ErrDataNotFound("credential")
	}

	if !credential.Verify(event.OldPassword) {
		return ErrParamIncorrect("old password")
	}

	passwordHash, err := HashPassword(event.NewPassword)
	if err != nil {
		return err
	}

	if err := h.repo.Credentials().SetPassword(ctx, credential.ID, passwordHash); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password")
	}

	h.recordActivity(ctx, credential)

	return nil
}

func (h *UpdatePasswordHandler) recordActivity(ctx context.Context, credential *Credential) {
	event := ActivityEvent{
		EventType: ActivityEventPasswordChanged,
		Actor: ActorRef{
			ID:   credential.UserID.String(),
			Type: "user",
		},
		UserID:     credential.UserID.String(),
		OccurredAt: time.Now(),
	}

	if err := normalizeActivitySink(h.activity).Record(ctx, event); err != nil {
		h.logger.Warn("activity sink error during password update: %v", err)
	}
}
