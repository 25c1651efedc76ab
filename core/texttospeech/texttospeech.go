// Package texttospeech defines the speech synthesis contract used by the
// output renderer.
package texttospeech

import "context"

// Synthesizer produces one audio segment for one piece of text. A failed
// synthesis only loses that segment; it must not take the turn down.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts ...SynthesizeOption) ([]byte, error)
}

type SynthesizeOptions struct {
	// Voice overrides the synthesizer's configured voice for this segment.
	Voice string
}

type SynthesizeOption func(*SynthesizeOptions)

func WithVoice(voice string) SynthesizeOption {
	return func(o *SynthesizeOptions) {
		if voice != "" {
			o.Voice = voice
		}
	}
}
