package ports

import "context"

// Notifier publishes an event to every subscriber of a room. Delivery is
// best-effort and at-least-once.
type Notifier interface {
	Publish(ctx context.Context, room, event string, payload any) error
}
