package events

type Type string

const (
	TypeText            Type = "text"
	TypeFullText        Type = "full-text"
	TypeControl         Type = "control"
	TypeAudio           Type = "audio"
	TypeSynthComplete   Type = "backend-synth-complete"
	TypeForceNewMessage Type = "force-new-message"
	TypeError           Type = "error"
)

// Event is any payload that can be pushed to the frontend. EventType is
// the JSON "type" discriminator and must match the struct's tagged field.
type Event interface {
	EventType() Type
}

// DisplayText carries the text shown to the user together with the
// speaking character's identity.
type DisplayText struct {
	Text   string `json:"text"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Actions describes avatar-side effects attached to a response segment.
// Empty by default; the responder may start sending expressions later.
type Actions struct {
	Expressions []string `json:"expressions,omitempty"`
}

func (a Actions) IsZero() bool { return len(a.Expressions) == 0 }

type TextEvent struct {
	Type Type   `json:"type"`
	Text string `json:"text"`
}

func (e TextEvent) EventType() Type { return TypeText }

func NewTextEvent(text string) TextEvent {
	return TextEvent{Type: TypeText, Text: text}
}

type FullTextEvent struct {
	Type Type   `json:"type"`
	Text string `json:"text"`
}

func (e FullTextEvent) EventType() Type { return TypeFullText }

func NewFullTextEvent(text string) FullTextEvent {
	return FullTextEvent{Type: TypeFullText, Text: text}
}

type ControlSignal string

const (
	ControlConversationChainStart ControlSignal = "conversation-chain-start"
	ControlConversationChainEnd   ControlSignal = "conversation-chain-end"
)

type ControlEvent struct {
	Type Type          `json:"type"`
	Text ControlSignal `json:"text"`
}

func (e ControlEvent) EventType() Type { return TypeControl }

func NewControlEvent(signal ControlSignal) ControlEvent {
	return ControlEvent{Type: TypeControl, Text: signal}
}

// AudioEvent carries one base64-encoded synthesized speech segment.
type AudioEvent struct {
	Type        Type        `json:"type"`
	Audio       string      `json:"audio"`
	DisplayText DisplayText `json:"display_text"`
	Actions     *Actions    `json:"actions,omitempty"`
}

func (e AudioEvent) EventType() Type { return TypeAudio }

func NewAudioEvent(audio string, displayText DisplayText, actions Actions) AudioEvent {
	event := AudioEvent{Type: TypeAudio, Audio: audio, DisplayText: displayText}
	if !actions.IsZero() {
		event.Actions = &actions
	}
	return event
}

type SynthCompleteEvent struct {
	Type Type `json:"type"`
}

func (e SynthCompleteEvent) EventType() Type { return TypeSynthComplete }

func NewSynthCompleteEvent() SynthCompleteEvent {
	return SynthCompleteEvent{Type: TypeSynthComplete}
}

// ForceNewMessageEvent tells the frontend to start a fresh message
// bubble for whatever comes next.
type ForceNewMessageEvent struct {
	Type Type `json:"type"`
}

func (e ForceNewMessageEvent) EventType() Type { return TypeForceNewMessage }

func NewForceNewMessageEvent() ForceNewMessageEvent {
	return ForceNewMessageEvent{Type: TypeForceNewMessage}
}

type ErrorEvent struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

func (e ErrorEvent) EventType() Type { return TypeError }

func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{Type: TypeError, Message: message}
}
