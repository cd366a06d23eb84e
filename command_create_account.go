package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/hashid/pkg/hashid"
)

type CreateAccountMessage struct {
	ActorRole  Role       `json:"actor_role"`
	Role       Role       `json:"role"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone_number"`
	Gender     string     `json:"gender"`
	Birthday   *time.Time `json:"birthday"`
	Address    string     `json:"address"`
	Locale     string     `json:"locale"`
	Currency   string     `json:"currency"`
	Password   string     `json:"password"`
	UseHashid  bool
	OnResponse func(resp *CreateAccountResponse)
}

func (e CreateAccountMessage) Type() string { return "account.create" }

type CreateAccountResponse struct {
	Identity *Identity
}

// CreateAccountHandler runs the privileged provisioning path. Only the top
// authority rank may create accounts; the new identity comes up active with
// no activation key.
type CreateAccountHandler struct {
	repo     RepositoryManager
	activity ActivitySink
	logger   Logger
	debug    bool
}

// NewCreateAccountHandler creates a handler with sane defaults.
func NewCreateAccountHandler(repo RepositoryManager) *CreateAccountHandler {
	return &CreateAccountHandler{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

// WithActivitySink sets the sink used to emit provisioning events.
func (h *CreateAccountHandler) WithActivitySink(sink ActivitySink) *CreateAccountHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *CreateAccountHandler) WithLogger(logger Logger) *CreateAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithDebug enables message dumps.
func (h *CreateAccountHandler) WithDebug(debug bool) *CreateAccountHandler {
	h.debug = debug
	return h
}

func (h *CreateAccountHandler) Execute(ctx context.Context, event CreateAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account creation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *CreateAccountHandler) execute(ctx context.Context, event CreateAccountMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if h.debug {
		h.logger.Debug("create account message: %s", print.MaybePrettyJSON(event))
	}

	if event.ActorRole != TopAuthority() {
		return ErrAccessDenied()
	}

	identity, err := NewIdentity(IdentityInput{
		Role:      event.Role,
		Status:    StatusActive,
		FirstName: event.FirstName,
		LastName:  event.LastName,
		Email:     event.Email,
		Phone:     event.Phone,
		Gender:    event.Gender,
		Birthday:  event.Birthday,
		Address:   event.Address,
		Locale:    event.Locale,
		Currency:  event.Currency,
	})
	if err != nil {
		return err
	}

	if event.UseHashid {
		if id, err := hashid.NewUUID(identity.Email); err == nil {
			identity.ID = id
		}
	}

	identity, _, err = provisionAccount(ctx, h.repo, identity, event.Password)
	if err != nil {
		return err
	}

	h.recordActivity(ctx, identity, event.ActorRole)

	if event.OnResponse != nil {
		event.OnResponse(&CreateAccountResponse{
			Identity: identity,
		})
	}

	return nil
}

func (h *CreateAccountHandler) recordActivity(ctx context.Context, identity *Identity, actorRole Role) {
	event := ActivityEvent{
		EventType: ActivityEventAccountProvisioned,
		Actor: ActorRef{
			Type: actorRole,
		},
		UserID:     identity.ID.String(),
		ToStatus:   identity.Status,
		OccurredAt: time.Now(),
	}

	if err := normalizeActivitySink(h.activity).Record(ctx, event); err != nil {
		h.logger.Warn("activity sink error during account creation: %v", err)
	}
}
