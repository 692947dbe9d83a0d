package adapter

import "context"

// Mailer delivers transactional mail. Delivery failures are logged, never
// surfaced to the request path.
type Mailer interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordReset(ctx context.Context, to, resetToken string) error
}
