// Package broadcast defines the port for pushing live chat events out to
// connected WebSocket clients.
package broadcast

import "context"

// Broadcaster fans a typed event out to connected clients. Implementations
// that understand the payload may scope delivery to the conversation the
// event belongs to; everything else goes to every client. Delivery is best
// effort and must never block the caller.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}
