// Package transport pushes wire events to the frontend.
package transport

import (
	"context"

	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/events"
)

// Sender delivers a single event to the frontend. Implementations must be
// safe for concurrent use; the renderer and the orchestrator may send from
// different goroutines during one turn.
type Sender interface {
	Send(ctx context.Context, event events.Event) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, event events.Event) error

func (f SenderFunc) Send(ctx context.Context, event events.Event) error {
	return f(ctx, event)
}

// BestEffort wraps a sender into a notify function that never fails.
// Transport errors are recorded on the active span and otherwise dropped:
// UI hints must not affect turn outcome.
func BestEffort(sender Sender) func(ctx context.Context, event events.Event) {
	return func(ctx context.Context, event events.Event) {
		if sender == nil {
			return
		}
		if err := sender.Send(ctx, event); err != nil {
			logger.WarnContext(ctx, "dropped frontend event",
				"event_type", string(event.EventType()), "error", err)
		}
	}
}
