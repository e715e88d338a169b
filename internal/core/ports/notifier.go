package ports

import "context"

// Notifier delivers outbound mail. The core treats delivery as
// fire-and-forget: a failed send never rolls back the operation that
// triggered it.
type Notifier interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

// Mail is a single outbound message, as queued for the dispatcher.
type Mail struct {
	To      string
	Subject string
	Body    string
}
