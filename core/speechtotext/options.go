// Package speechtotext defines the transcription contract for audio user
// input.
package speechtotext

import (
	"context"

	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/audio"
)

// Transcriber turns one complete utterance into text. A transcription
// failure is fatal for the turn: no fallback text is invented for the
// user's own words.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []byte, opts ...TranscriptionOption) (string, error)
}

type TranscriptionOptions struct {
	// PartialTranscriptionCallback is called for each finalized transcript
	// segment as it arrives, before the full transcript is assembled.
	PartialTranscriptionCallback func(transcript string)

	EncodingInfo audio.EncodingInfo
}

type TranscriptionOption func(*TranscriptionOptions)

func WithPartialTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.PartialTranscriptionCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EncodingInfo = encodingInfo
	}
}
