package conversation

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/events"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/history"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/responder"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/speechtotext"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/transport"
)

// ProcessTurn runs one conversation turn end to end and returns the
// accumulated response text.
//
// Failure handling is layered: responder failures degrade into visible
// fallback text, render failures degrade into a raw-text event, frontend
// push failures are always dropped. Only input resolution failures and
// genuinely unexpected errors escape, after a best-effort error event.
// Cancellation is re-raised unchanged so callers can tell "interrupted"
// apart from "failed". The task group is released on every exit path.
func (p *Pipeline) ProcessTurn(ctx context.Context, send transport.Sender, turn *Turn) (string, error) {
	ctx, span := tracer.Start(ctx, "process conversation turn")
	defer span.End()

	if turn.Emoji == "" {
		turn.Emoji = p.chooseEmoji()
	}
	span.SetAttributes(
		attribute.String("turn.id", turn.ID),
		attribute.String("turn.session_id", turn.SessionID),
	)

	group := NewTaskGroup()
	notify := transport.BestEffort(send)
	defer func() {
		group.Release()
		logger.DebugContext(ctx, "conversation turn cleaned up", "emoji", turn.Emoji)
	}()

	response, err := p.processTurn(ctx, send, notify, group, turn)
	if err != nil {
		if isCancellation(err) {
			logger.InfoContext(ctx, "conversation turn cancelled", "emoji", turn.Emoji)
			span.AddEvent("turn cancelled")
			return "", err
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "unhandled error in conversation turn",
			"emoji", turn.Emoji, "error", err)
		notify(ctx, events.NewErrorEvent(fmt.Sprintf("Conversation error: %v", err)))
		return "", err
	}

	return response, nil
}

func (p *Pipeline) processTurn(
	ctx context.Context,
	send transport.Sender,
	notify func(context.Context, events.Event),
	group *TaskGroup,
	turn *Turn,
) (string, error) {
	fullResponse := ""

	// Start signals go out before any heavy work. Best effort: a frontend
	// that missed them still gets the authoritative finalize signal.
	notify(ctx, events.NewControlEvent(events.ControlConversationChainStart))
	notify(ctx, events.NewFullTextEvent("Thinking..."))
	logger.InfoContext(ctx, "new conversation chain started", "emoji", turn.Emoji)

	inputText, err := p.resolveInput(ctx, turn)
	if err != nil {
		return "", err
	}

	sessionKeys := history.SessionKeys{ConfUID: p.character.ConfUID, HistoryUID: turn.HistoryUID}
	if turn.Metadata.SkipHistory {
		logger.DebugContext(ctx, "skipping user input history write (proactive speak)")
	} else if p.history != nil && turn.HistoryUID != "" {
		if err := p.history.Write(ctx, sessionKeys, history.Entry{
			Role:    history.RoleHuman,
			Content: inputText,
			Name:    p.character.HumanName,
		}); err != nil {
			return "", fmt.Errorf("failed to store user message: %w", err)
		}
	}

	logger.InfoContext(ctx, "user input resolved",
		"input", inputText, "images", len(turn.Images))

	// The reply fetch cannot fail the turn: every responder failure mode
	// collapses into displayable text. Only cancellation passes through.
	raw, err := p.responder.Fetch(ctx, inputText)
	if err != nil {
		return "", err
	}
	reply := responder.Normalize(raw, nil)
	logger.InfoContext(ctx, "responder reply normalized", "display_text", reply.DisplayText)

	output := TurnOutput{
		DisplayText: events.DisplayText{
			Text:   reply.DisplayText,
			Name:   p.character.Name,
			Avatar: p.character.Avatar,
		},
		SynthesisText: reply.SynthesisText,
	}

	partial, err := p.dispatchRender(ctx, output, send, group)
	if err != nil {
		if isCancellation(err) {
			return "", err
		}
		// Degrade to a raw-text event; the turn keeps going so history
		// and finalization still happen.
		logger.ErrorContext(ctx, "output render pipeline failed", "error", err)
		notify(ctx, events.NewTextEvent(output.DisplayText.Text))
		fullResponse += output.DisplayText.Text
	} else {
		fullResponse += partial
	}

	if group.Len() > 0 {
		taskErrs, err := group.Wait(ctx)
		if err != nil {
			return "", err
		}
		if len(taskErrs) > 0 {
			// A lost synthesis segment is not worth failing the turn over;
			// the user already has the text.
			logger.WarnContext(ctx, "some synthesis tasks failed",
				"failed", len(taskErrs), "error", errors.Join(taskErrs...))
		}
		notify(ctx, events.NewSynthCompleteEvent())
	}

	if err := p.finalize(ctx, group, send, turn.SessionID); err != nil {
		return "", fmt.Errorf("failed to finalize conversation turn: %w", err)
	}

	if p.history != nil && turn.HistoryUID != "" && fullResponse != "" {
		if err := p.history.Write(ctx, sessionKeys, history.Entry{
			Role:    history.RoleAI,
			Content: fullResponse,
			Name:    p.character.Name,
			Avatar:  p.character.Avatar,
		}); err != nil {
			return "", fmt.Errorf("failed to store assistant message: %w", err)
		}
		logger.InfoContext(ctx, "assistant response stored", "response", fullResponse)
	}

	return fullResponse, nil
}

// resolveInput turns the raw user input into text. Transcription
// failures are fatal for the turn: no fallback text is invented for the
// user's own words.
func (p *Pipeline) resolveInput(ctx context.Context, turn *Turn) (string, error) {
	if turn.TextInput != nil {
		return *turn.TextInput, nil
	}

	if len(turn.AudioInput) == 0 {
		return "", fmt.Errorf("turn has neither text nor audio input")
	}
	if p.transcriber == nil {
		return "", fmt.Errorf("audio input received but no transcriber is configured")
	}

	ctx, span := tracer.Start(ctx, "transcribe user input")
	defer span.End()

	var opts []speechtotext.TranscriptionOption
	if !turn.AudioEncoding.IsZero() {
		opts = append(opts, speechtotext.WithEncodingInfo(turn.AudioEncoding))
	}

	text, err := p.transcriber.Transcribe(ctx, turn.AudioInput, opts...)
	if err != nil {
		err = fmt.Errorf("failed to transcribe user input: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return text, nil
}

func (p *Pipeline) dispatchRender(ctx context.Context, output TurnOutput, send transport.Sender, group *TaskGroup) (string, error) {
	if p.renderer == nil {
		return "", fmt.Errorf("no output renderer configured")
	}

	ctx, span := tracer.Start(ctx, "dispatch turn output")
	defer span.End()

	partial, err := p.renderer.Render(ctx, output, send, group)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("render.spawned_tasks", group.Len()))
	return partial, nil
}

// FinalizeTurn is the default finalizer: the end-of-chain control signal
// followed by a force-new-message hint. This is the single authoritative
// "turn is over" signal, so unlike the hint events its failures are not
// swallowed.
func FinalizeTurn(ctx context.Context, _ *TaskGroup, send transport.Sender, sessionID string) error {
	if send == nil {
		return nil
	}

	if err := send.Send(ctx, events.NewForceNewMessageEvent()); err != nil {
		return fmt.Errorf("failed to send force-new-message signal: %w", err)
	}
	if err := send.Send(ctx, events.NewControlEvent(events.ControlConversationChainEnd)); err != nil {
		return fmt.Errorf("failed to send end-of-chain signal: %w", err)
	}
	logger.DebugContext(ctx, "conversation turn finalized", "session_id", sessionID)
	return nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
