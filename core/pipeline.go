// Package conversation orchestrates one conversation turn: it resolves
// the user's input, fetches a reply from the external responder, drives
// the output renderer and its speech-synthesis tasks, and signals the
// frontend in a fixed order no matter which step fails.
package conversation

import (
	"context"

	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/config"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/history"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/responder"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/responder/n8n"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/speechtotext"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/transport"
)

// Renderer consumes one turn output, pushes its own frontend events and
// spawns speech-synthesis tasks into the group. It returns the partial
// response text it contributed. It is given the group only to append:
// draining it is the pipeline's job.
type Renderer interface {
	Render(ctx context.Context, output TurnOutput, send transport.Sender, group *TaskGroup) (string, error)
}

// Finalizer emits the authoritative end-of-turn signal to the frontend.
// It is called exactly once per turn, after the synthesis barrier.
type Finalizer func(ctx context.Context, group *TaskGroup, send transport.Sender, sessionID string) error

// Pipeline holds the collaborators shared by all turns. It is safe for
// concurrent use; all per-turn state lives in the Turn and the TaskGroup.
type Pipeline struct {
	responder   responder.Client
	transcriber speechtotext.Transcriber
	renderer    Renderer
	history     history.Store
	finalize    Finalizer
	character   config.CharacterConfig

	chooseEmoji func() string
}

type PipelineOption func(*Pipeline)

func WithResponder(client responder.Client) PipelineOption {
	return func(p *Pipeline) {
		if client != nil {
			p.responder = client
		}
	}
}

func WithTranscriber(transcriber speechtotext.Transcriber) PipelineOption {
	return func(p *Pipeline) { p.transcriber = transcriber }
}

func WithRenderer(renderer Renderer) PipelineOption {
	return func(p *Pipeline) { p.renderer = renderer }
}

func WithHistoryStore(store history.Store) PipelineOption {
	return func(p *Pipeline) { p.history = store }
}

func WithFinalizer(finalize Finalizer) PipelineOption {
	return func(p *Pipeline) {
		if finalize != nil {
			p.finalize = finalize
		}
	}
}

func WithCharacterConfig(character config.CharacterConfig) PipelineOption {
	return func(p *Pipeline) { p.character = character }
}

// WithEmojiChooser replaces the per-turn session emoji choice, mostly so
// tests can pin it.
func WithEmojiChooser(choose func() string) PipelineOption {
	return func(p *Pipeline) {
		if choose != nil {
			p.chooseEmoji = choose
		}
	}
}

func NewPipeline(opts ...PipelineOption) *Pipeline {
	pipeline := &Pipeline{
		responder:   n8n.NewClient(),
		finalize:    FinalizeTurn,
		chooseEmoji: chooseSessionEmoji,
	}
	for _, opt := range opts {
		opt(pipeline)
	}
	return pipeline
}
