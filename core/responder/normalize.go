package responder

import (
	"fmt"
	"strings"
)

// FallbackReply is substituted when the responder produced nothing usable.
const FallbackReply = "Sorry, I cannot answer right now."

// NormalizedReply is the single non-empty text derived from a raw
// response. DisplayText is always non-empty and whitespace-trimmed.
type NormalizedReply struct {
	DisplayText   string
	SynthesisText string
}

// Normalize maps a raw response (or a fetch error) into a NormalizedReply.
// It never fails; every variant degrades into visible text:
//
//  1. transport/timeout and non-2xx failures become bracketed error strings,
//  2. a "reply" field is used verbatim,
//  3. other structured bodies are used in serialized form,
//  4. plain text bodies are used as-is,
//  5. anything empty or all-whitespace becomes FallbackReply.
func Normalize(raw RawResponse, err error) NormalizedReply {
	text := rawText(raw, err)

	text = strings.TrimSpace(text)
	if text == "" {
		text = FallbackReply
	}

	return NormalizedReply{DisplayText: text, SynthesisText: text}
}

func rawText(raw RawResponse, err error) string {
	if err != nil {
		return fmt.Sprintf("[Failed to reach n8n: %v]", err)
	}

	switch raw.Kind {
	case KindReply:
		return raw.Reply
	case KindStructured:
		return raw.Structured
	case KindText:
		return raw.Text
	case KindHTTPError:
		return fmt.Sprintf("[n8n error %d]", raw.StatusCode)
	case KindTransportError:
		return fmt.Sprintf("[Failed to reach n8n: %v]", raw.Err)
	}

	return ""
}
