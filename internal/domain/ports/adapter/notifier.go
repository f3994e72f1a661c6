package adapter

import "context"

// EmailNotifier sends transactional mail. Delivery is best effort: callers
// log and swallow failures, they never surface to the subscriber.
type EmailNotifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
