package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

type RegisterAccountMessage struct {
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone_number"`
	Gender     string     `json:"gender"`
	Birthday   *time.Time `json:"birthday"`
	Locale     string     `json:"locale"`
	Currency   string     `json:"currency"`
	Password   string     `json:"password"`
	OnResponse func(resp *RegisterAccountResponse)
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

type RegisterAccountResponse struct {
	Identity *Identity
	Success  bool
}

// RegisterAccountHandler runs the self-registration path: the identity is
// forced to unverified, a single-use activation key is minted, and the
// activation notification goes out after the transaction commits.
type RegisterAccountHandler struct {
	repo     RepositoryManager
	notifier Notifier
	activity ActivitySink
	logger   Logger
	debug    bool
}

// NewRegisterAccountHandler creates a handler with sane defaults.
func NewRegisterAccountHandler(repo RepositoryManager) *RegisterAccountHandler {
	return &RegisterAccountHandler{
		repo:     repo,
		notifier: noopNotifier{},
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

// WithNotifier sets the out-of-band message dispatcher.
func (h *RegisterAccountHandler) WithNotifier(n Notifier) *RegisterAccountHandler {
	h.notifier = normalizeNotifier(n)
	return h
}

// WithActivitySink sets the sink used to emit registration events.
func (h *RegisterAccountHandler) WithActivitySink(sink ActivitySink) *RegisterAccountHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *RegisterAccountHandler) WithLogger(logger Logger) *RegisterAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithDebug enables message dumps.
func (h *RegisterAccountHandler) WithDebug(debug bool) *RegisterAccountHandler {
	h.debug = debug
	return h
}

func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, event RegisterAccountMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if h.debug {
		h.logger.Debug("register account message: %s", print.MaybePrettyJSON(event))
	}

	identity, err := NewIdentity(IdentityInput{
		Role:      RoleUser,
		Status:    StatusUnverified,
		FirstName: event.FirstName,
		LastName:  event.LastName,
		Email:     event.Email,
		Phone:     event.Phone,
		Gender:    event.Gender,
		Birthday:  event.Birthday,
		Locale:    event.Locale,
		Currency:  event.Currency,
	})
	if err != nil {
		return err
	}

	key, expire, err := NewSecurityKey()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint activation key")
	}
	identity.ActiveKey = key
	identity.ActiveExpire = &expire

	identity, _, err = provisionAccount(ctx, h.repo, identity, event.Password)
	if err != nil {
		return err
	}

	// best-effort after commit: a failed send never unwinds the writes
	if err := h.notifier.SendActivation(ctx, ActivationNotification{
		Name:  identity.FullName(),
		Email: identity.Email,
		Token: key,
	}); err != nil {
		h.logger.Warn("activation notification error: %v", err)
	}

	h.recordActivity(ctx, identity)

	if event.OnResponse != nil {
		event.OnResponse(&RegisterAccountResponse{
			Identity: identity,
			Success:  true,
		})
	}

	return nil
}

func (h *RegisterAccountHandler) recordActivity(ctx context.Context, identity *Identity) {
	event := ActivityEvent{
		EventType: ActivityEventAccountRegistered,
		Actor: ActorRef{
			ID:   identity.ID.String(),
			Type: "user",
		},
		UserID:     identity.ID.String(),
		ToStatus:   identity.Status,
		OccurredAt: time.Now(),
	}

	if err := normalizeActivitySink(h.activity).Record(ctx, event); err != nil {
		h.logger.Warn("activity sink error during registration: %v", err)
	}
}
