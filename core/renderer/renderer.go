// Package renderer turns a structured turn output into frontend events
// and speech-synthesis tasks.
package renderer

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/jinzhu/copier"
	"go.opentelemetry.io/otel/attribute"

	conversation "github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/events"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/texttospeech"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/transport"
)

// Config carries the presentation defaults applied to every segment.
type Config struct {
	CharacterName   string
	CharacterAvatar string
	Voice           string
}

type Renderer struct {
	synthesizer texttospeech.Synthesizer
	config      Config
}

func New(synthesizer texttospeech.Synthesizer, config Config) *Renderer {
	return &Renderer{synthesizer: synthesizer, config: config}
}

// Render pushes the full display text to the frontend, then spawns one
// synthesis task per sentence into the group. It returns the display
// text as its contribution to the turn's response; draining the group is
// the caller's job.
func (r *Renderer) Render(ctx context.Context, output conversation.TurnOutput, send transport.Sender, group *conversation.TaskGroup) (string, error) {
	ctx, span := tracer.Start(ctx, "render turn output")
	defer span.End()

	cfg := r.configFor(output)
	notify := transport.BestEffort(send)
	notify(ctx, events.NewFullTextEvent(output.DisplayText.Text))

	if r.synthesizer == nil {
		logger.DebugContext(ctx, "no synthesizer configured, skipping speech")
		return output.DisplayText.Text, nil
	}

	sentences := SplitSentences(output.SynthesisText)
	span.SetAttributes(attribute.Int("render.sentences", len(sentences)))

	for _, sentence := range sentences {
		display := events.DisplayText{
			Text:   sentence,
			Name:   cfg.CharacterName,
			Avatar: cfg.CharacterAvatar,
		}
		actions := output.Actions

		if err := group.Go("speech synthesis", func() error {
			return r.synthesizeSegment(ctx, sentence, display, actions, send, cfg)
		}); err != nil {
			return "", fmt.Errorf("failed to spawn synthesis task: %w", err)
		}
	}

	return output.DisplayText.Text, nil
}

func (r *Renderer) synthesizeSegment(
	ctx context.Context,
	sentence string,
	display events.DisplayText,
	actions events.Actions,
	send transport.Sender,
	cfg Config,
) error {
	speech, err := r.synthesizer.Synthesize(ctx, sentence, texttospeech.WithVoice(cfg.Voice))
	if err != nil {
		return fmt.Errorf("failed to synthesize %q: %w", sentence, err)
	}

	encoded := base64.StdEncoding.EncodeToString(speech)
	if err := send.Send(ctx, events.NewAudioEvent(encoded, display, actions)); err != nil {
		return fmt.Errorf("failed to push synthesized segment: %w", err)
	}
	return nil
}

// configFor clones the renderer defaults and overlays the identity
// carried by the output, so a responder-supplied name/avatar wins for
// this turn without mutating the shared defaults.
func (r *Renderer) configFor(output conversation.TurnOutput) Config {
	cfg := Config{}
	if err := copier.Copy(&cfg, &r.config); err != nil {
		cfg = r.config
	}

	if output.DisplayText.Name != "" {
		cfg.CharacterName = output.DisplayText.Name
	}
	if output.DisplayText.Avatar != "" {
		cfg.CharacterAvatar = output.DisplayText.Avatar
	}
	return cfg
}
