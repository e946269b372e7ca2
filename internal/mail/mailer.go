package mail

import "context"

// Mailer delivers transactional email. Delivery is best-effort everywhere in
// this codebase: callers log and report failures but never roll back the
// state change that triggered the send.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
