package events

import (
	"encoding/json"
	"testing"
)

// The frontend dispatches on the serialized "type" field, so the wire
// shapes documented in the package comment are a contract.
func TestEventWireShapes(t *testing.T) {
	cases := []struct {
		event    Event
		expected string
	}{
		{NewTextEvent("hi"), `{"type":"text","text":"hi"}`},
		{NewFullTextEvent("Thinking..."), `{"type":"full-text","text":"Thinking..."}`},
		{NewControlEvent(ControlConversationChainStart), `{"type":"control","text":"conversation-chain-start"}`},
		{NewControlEvent(ControlConversationChainEnd), `{"type":"control","text":"conversation-chain-end"}`},
		{NewSynthCompleteEvent(), `{"type":"backend-synth-complete"}`},
		{NewForceNewMessageEvent(), `{"type":"force-new-message"}`},
		{NewErrorEvent("boom"), `{"type":"error","message":"boom"}`},
	}

	for _, c := range cases {
		serialized, err := json.Marshal(c.event)
		if err != nil {
			t.Fatalf("failed to marshal %T: %v", c.event, err)
		}
		if string(serialized) != c.expected {
			t.Fatalf("expected %s, got %s", c.expected, serialized)
		}
		if string(c.event.EventType()) == "" {
			t.Fatalf("expected a type discriminator for %T", c.event)
		}
	}
}

func TestAudioEventOmitsEmptyActions(t *testing.T) {
	event := NewAudioEvent("QUJD", DisplayText{Text: "Hi.", Name: "Shizuku"}, Actions{})
	serialized, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal audio event: %v", err)
	}

	expected := `{"type":"audio","audio":"QUJD","display_text":{"text":"Hi.","name":"Shizuku"}}`
	if string(serialized) != expected {
		t.Fatalf("expected %s, got %s", expected, serialized)
	}
}
