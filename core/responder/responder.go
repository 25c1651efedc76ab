// Package responder defines the contract with the external reply service
// and the normalization of its responses into usable text.
package responder

import "context"

// Client performs one request/response exchange with the external
// responder. Implementations never panic and never return an error for
// responder-side failures: those are encoded in the RawResponse variant
// so the turn can degrade gracefully. The only error returned is the
// context's, so cancellation can propagate unchanged.
type Client interface {
	Fetch(ctx context.Context, text string) (RawResponse, error)
}

type ResponseKind string

const (
	// KindReply is a 2xx response whose JSON body carries a "reply" field.
	KindReply ResponseKind = "reply"
	// KindStructured is a 2xx JSON response without a "reply" field.
	KindStructured ResponseKind = "structured"
	// KindText is a 2xx response that is not a JSON document.
	KindText ResponseKind = "text"
	// KindHTTPError is a non-2xx response.
	KindHTTPError ResponseKind = "http_error"
	// KindTransportError is a network failure or request timeout.
	KindTransportError ResponseKind = "transport_error"
)

// RawResponse is a tagged variant of everything the external responder
// can produce. Exactly the fields implied by Kind are meaningful.
type RawResponse struct {
	Kind ResponseKind

	// Reply is the verbatim "reply" field value (KindReply).
	Reply string
	// Structured is the compacted JSON body (KindStructured).
	Structured string
	// Text is the raw body (KindText).
	Text string
	// StatusCode is the HTTP status (KindHTTPError).
	StatusCode int
	// Err is the underlying failure (KindTransportError).
	Err error
}
