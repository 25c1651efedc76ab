package conversation

import (
	"github.com/google/uuid"

	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/audio"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/events"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/internal/utils"
)

// Turn is the unit of work for one user utterance. It is created by the
// caller, mutated only by the pipeline while processing, and discarded
// when processing returns.
type Turn struct {
	ID        string
	SessionID string
	// HistoryUID selects the history thread; empty disables persistence
	// for this turn.
	HistoryUID string
	// Emoji labels this turn's log lines; chosen per turn when empty.
	Emoji string

	// TextInput, when set, is used verbatim. Otherwise AudioInput is
	// transcribed.
	TextInput     *string
	AudioInput    []byte
	AudioEncoding audio.EncodingInfo

	Images   []Image
	Metadata Metadata
}

// Image is an attachment forwarded alongside the utterance.
type Image struct {
	Source   string
	Data     string
	MimeType string
}

type Metadata struct {
	// SkipHistory suppresses the user-side history write, used for
	// proactive speech the user never typed.
	SkipHistory bool
}

type TurnOption func(*Turn)

func WithHistoryUID(historyUID string) TurnOption {
	return func(t *Turn) { t.HistoryUID = historyUID }
}

func WithEmoji(emoji string) TurnOption {
	return func(t *Turn) { t.Emoji = emoji }
}

func WithImages(images []Image) TurnOption {
	return func(t *Turn) { t.Images = images }
}

func WithMetadata(metadata Metadata) TurnOption {
	return func(t *Turn) { t.Metadata = metadata }
}

func WithAudioEncoding(encoding audio.EncodingInfo) TurnOption {
	return func(t *Turn) { t.AudioEncoding = encoding }
}

func NewTextTurn(sessionID string, text string, opts ...TurnOption) *Turn {
	turn := &Turn{ID: uuid.NewString(), SessionID: sessionID, TextInput: utils.Ptr(text)}
	for _, opt := range opts {
		opt(turn)
	}
	return turn
}

func NewAudioTurn(sessionID string, samples []byte, opts ...TurnOption) *Turn {
	turn := &Turn{ID: uuid.NewString(), SessionID: sessionID, AudioInput: samples}
	for _, opt := range opts {
		opt(turn)
	}
	return turn
}

// TurnOutput is the structured object handed to the output renderer.
// Exactly one is built per turn; it is immutable once constructed.
type TurnOutput struct {
	DisplayText   events.DisplayText
	SynthesisText string
	Actions       events.Actions
}
