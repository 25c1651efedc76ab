// Package events defines the wire events pushed to the frontend over the
// UI transport.
//
// Every event serializes to a JSON object with a "type" discriminator:
//
//   - text: raw text fallback shown directly in the chat log.
//   - full-text: full display text for the current response, shown above
//     the avatar while speech plays.
//   - control: lifecycle signals (conversation-chain-start,
//     conversation-chain-end).
//   - audio: one synthesized speech segment with its display text and
//     avatar actions.
//   - backend-synth-complete: all speech synthesis for the turn has
//     settled.
//   - force-new-message: start a fresh message bubble for whatever
//     comes next.
//   - error: the turn failed in a way the user must see.
package events
