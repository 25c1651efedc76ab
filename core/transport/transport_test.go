package transport

import (
	"context"
	"fmt"
	"testing"

	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/events"
)

func TestBestEffortSwallowsTransportFailures(t *testing.T) {
	failing := SenderFunc(func(context.Context, events.Event) error {
		return fmt.Errorf("websocket gone")
	})

	notify := BestEffort(failing)
	// Must not panic or propagate anything.
	notify(context.Background(), events.NewTextEvent("hello"))
	notify(context.Background(), events.NewErrorEvent("boom"))
}

func TestBestEffortToleratesNilSender(t *testing.T) {
	notify := BestEffort(nil)
	notify(context.Background(), events.NewSynthCompleteEvent())
}

func TestBestEffortDeliversWhenTransportWorks(t *testing.T) {
	delivered := 0
	sender := SenderFunc(func(_ context.Context, event events.Event) error {
		delivered++
		if event.EventType() != events.TypeFullText {
			t.Fatalf("expected full-text event, got %s", event.EventType())
		}
		return nil
	})

	BestEffort(sender)(context.Background(), events.NewFullTextEvent("Thinking..."))
	if delivered != 1 {
		t.Fatalf("expected one delivery, got %d", delivered)
	}
}
