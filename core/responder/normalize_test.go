package responder

import (
	"fmt"
	"strings"
	"testing"
)

func TestNormalizeUsesReplyFieldVerbatim(t *testing.T) {
	reply := Normalize(RawResponse{Kind: KindReply, Reply: "hi there"}, nil)
	if reply.DisplayText != "hi there" {
		t.Fatalf("expected reply field verbatim, got %q", reply.DisplayText)
	}
	if reply.SynthesisText != reply.DisplayText {
		t.Fatalf("expected synthesis text to match display text, got %q", reply.SynthesisText)
	}
}

func TestNormalizeSerializesStructuredResponses(t *testing.T) {
	reply := Normalize(RawResponse{Kind: KindStructured, Structured: `{"mood":"happy"}`}, nil)
	if reply.DisplayText != `{"mood":"happy"}` {
		t.Fatalf("expected serialized structure, got %q", reply.DisplayText)
	}
}

func TestNormalizeKeepsPlainText(t *testing.T) {
	reply := Normalize(RawResponse{Kind: KindText, Text: "  plain answer \n"}, nil)
	if reply.DisplayText != "plain answer" {
		t.Fatalf("expected trimmed plain text, got %q", reply.DisplayText)
	}
}

func TestNormalizeHTTPErrorBecomesBracketedStatus(t *testing.T) {
	reply := Normalize(RawResponse{Kind: KindHTTPError, StatusCode: 500}, nil)
	if reply.DisplayText != "[n8n error 500]" {
		t.Fatalf("expected bracketed status fallback, got %q", reply.DisplayText)
	}
}

func TestNormalizeTransportErrorBecomesBracketedReason(t *testing.T) {
	reply := Normalize(RawResponse{Kind: KindTransportError, Err: fmt.Errorf("connection refused")}, nil)
	if reply.DisplayText != "[Failed to reach n8n: connection refused]" {
		t.Fatalf("expected bracketed transport failure, got %q", reply.DisplayText)
	}
}

func TestNormalizeFetchErrorBecomesBracketedReason(t *testing.T) {
	reply := Normalize(RawResponse{}, fmt.Errorf("request timed out"))
	if reply.DisplayText != "[Failed to reach n8n: request timed out]" {
		t.Fatalf("expected bracketed fetch failure, got %q", reply.DisplayText)
	}
}

func TestNormalizeNeverReturnsEmptyText(t *testing.T) {
	emptyInputs := []RawResponse{
		{Kind: KindReply, Reply: ""},
		{Kind: KindReply, Reply: "   \t\n"},
		{Kind: KindText, Text: ""},
		{Kind: KindStructured, Structured: " "},
		{},
	}

	for _, raw := range emptyInputs {
		reply := Normalize(raw, nil)
		if strings.TrimSpace(reply.DisplayText) == "" {
			t.Fatalf("expected non-empty display text for %+v", raw)
		}
		if reply.DisplayText != FallbackReply {
			t.Fatalf("expected fallback sentinel for %+v, got %q", raw, reply.DisplayText)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []RawResponse{
		{Kind: KindReply, Reply: "hi there"},
		{Kind: KindHTTPError, StatusCode: 404},
		{Kind: KindText, Text: "plain"},
		{},
	}

	for _, raw := range inputs {
		first := Normalize(raw, nil)
		second := Normalize(raw, nil)
		if first != second {
			t.Fatalf("expected identical results for %+v, got %+v and %+v", raw, first, second)
		}
	}
}
