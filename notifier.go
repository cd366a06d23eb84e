package accounts

import "context"

// ActivationNotification carries what the activation message needs.
type ActivationNotification struct {
	Name  string
	Email string
	Token string
}

// ForgotPasswordNotification carries what the reset message needs.
type ForgotPasswordNotification struct {
	Name  string
	Email string
	Token string
}

// Notifier delivers out-of-band messages. Dispatch is fire-and-forget: a
// failed send is logged by the caller and never rolls back or fails the
// operation that triggered it.
type Notifier interface {
	SendActivation(ctx context.Context, msg ActivationNotification) error
	SendForgotPassword(ctx context.Context, msg ForgotPasswordNotification) error
}

type noopNotifier struct{}

func (noopNotifier) SendActivation(context.Context, ActivationNotification) error { return nil }

func (noopNotifier) SendForgotPassword(context.Context, ForgotPasswordNotification) error {
	return nil
}

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
