package accounts

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

type UpdateAvatarMessage struct {
	UserID      uuid.UUID `json:"user_id"`
	Data        []byte    `json:"-"`
	ContentType string    `json:"content_type"`
	OnResponse  func(resp *UpdateAvatarResponse)
}

func (e UpdateAvatarMessage) Type() string { return "account.avatar_update" }

type UpdateAvatarResponse struct {
	Path string
	URL  string
}

// UpdateAvatarHandler uploads an avatar through the storage contract and
// patches the identity's avatar path. File-format handling belongs to the
// provider, not to this package.
type UpdateAvatarHandler struct {
	repo     RepositoryManager
	storage  Storage
	activity ActivitySink
	logger   Logger
}

// NewUpdateAvatarHandler creates a handler with sane defaults.
func NewUpdateAvatarHandler(repo RepositoryManager, storage Storage) *UpdateAvatarHandler {
	return &UpdateAvatarHandler{
		repo:     repo,
		storage:  storage,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

// WithActivitySink sets the sink used to emit avatar events.
func (h *UpdateAvatarHandler) WithActivitySink(sink ActivitySink) *UpdateAvatarHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *UpdateAvatarHandler) WithLogger(logger Logger) *UpdateAvatarHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *UpdateAvatarHandler) Execute(ctx context.Context, event UpdateAvatarMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during avatar update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdateAvatarHandler) execute(ctx context.Context, event UpdateAvatarMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if h.storage == nil {
		return goerrors.New("missing storage provider", goerrors.CategoryInternal)
	}

	if len(event.Data) == 0 {
		return ErrParamRequired("avatar")
	}

	identity, err := h.repo.Identities().GetByID(ctx, event.UserID.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrDataNotFound("identity")
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve identity for avatar update")
	}

	path := fmt.Sprintf("avatars/%s", identity.ID)

	if err := h.storage.Upload(ctx, path, event.Data, UploadInfo{
		ContentType: event.ContentType,
		Size:        int64(len(event.Data)),
	}); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to upload avatar")
	}

	patch := IdentityPatch{AvatarPath: &path}
	record, err := patch.Record(identity.ID)
	if err != nil {
		return err
	}

	if _, err := h.repo.Identities().Update(ctx, record, repository.UpdateByID(identity.ID.String())); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist avatar path")
	}

	h.recordActivity(ctx, identity)

	if event.OnResponse != nil {
		event.OnResponse(&UpdateAvatarResponse{
			Path: path,
			URL:  h.storage.MapURL(path),
		})
	}

	return nil
}

func (h *UpdateAvatarHandler) recordActivity(ctx context.Context, identity *Identity) {
	event := ActivityEvent{
		EventType: ActivityEventAvatarUpdated,
		Actor: ActorRef{
			ID:   identity.ID.String(),
			Type: "user",
		},
		UserID:     identity.ID.String(),
		OccurredAt: time.Now(),
	}

	if err := normalizeActivitySink(h.activity).Record(ctx, event); err != nil {
		h.logger.Warn("activity sink error during avatar update: %v", err)
	}
}
