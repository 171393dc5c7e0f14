package notification

import "context"

// Notifier delivers plain-text notifications to an external sink. The
// message format is display-only and carries no durable contract.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
