// Package n8n implements the external responder contract against an n8n
// webhook.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/responder"
)

const (
	DefaultWebhookURL = "http://103.171.85.170/webhook/vtuber"
	// DefaultTimeout bounds the whole exchange; exceeding it is a
	// transport failure, not a turn failure.
	DefaultTimeout = 15 * time.Second
)

type Client struct {
	webhookURL string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithWebhookURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.webhookURL = url
		}
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		webhookURL: DefaultWebhookURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
					return operationName + " " + request.URL.Path
				}),
			),
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type requestBody struct {
	Text string `json:"text"`
}

// Fetch posts the user text to the webhook and classifies the outcome.
// All responder-side failures are returned inside the RawResponse; the
// error return is reserved for context cancellation so the caller can
// tell "interrupted" apart from "the responder misbehaved".
func (c *Client) Fetch(ctx context.Context, text string) (responder.RawResponse, error) {
	ctx, span := tracer.Start(ctx, "fetch n8n reply")
	defer span.End()

	payload, err := json.Marshal(requestBody{Text: text})
	if err != nil {
		// Marshalling a plain string cannot realistically fail, but the
		// contract is that nothing escapes as a turn failure.
		return responder.RawResponse{Kind: responder.KindTransportError, Err: err}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		span.RecordError(err)
		return responder.RawResponse{Kind: responder.KindTransportError, Err: err}, nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return responder.RawResponse{}, ctxErr
		}
		span.RecordError(err)
		logger.ErrorContext(ctx, "failed to reach n8n webhook", "error", err)
		return responder.RawResponse{Kind: responder.KindTransportError, Err: err}, nil
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return responder.RawResponse{}, ctxErr
		}
		span.RecordError(err)
		return responder.RawResponse{Kind: responder.KindTransportError, Err: fmt.Errorf("failed to read n8n response body: %w", err)}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.WarnContext(ctx, "n8n replied with an error status", "status_code", resp.StatusCode)
		return responder.RawResponse{Kind: responder.KindHTTPError, StatusCode: resp.StatusCode}, nil
	}

	return classifyBody(body), nil
}

// classifyBody turns a 2xx body into the tagged response variant. Parse
// failures fall through to the plain-text kind.
func classifyBody(body []byte) responder.RawResponse {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return responder.RawResponse{Kind: responder.KindText, Text: string(body)}
	}

	switch value := decoded.(type) {
	case map[string]any:
		if reply, ok := value["reply"]; ok {
			if replyText, ok := reply.(string); ok {
				return responder.RawResponse{Kind: responder.KindReply, Reply: replyText}
			}
		}
	case string:
		// A bare JSON string is used directly, not re-serialized.
		return responder.RawResponse{Kind: responder.KindText, Text: value}
	}

	compacted := &bytes.Buffer{}
	if err := json.Compact(compacted, body); err != nil {
		return responder.RawResponse{Kind: responder.KindText, Text: string(body)}
	}
	return responder.RawResponse{Kind: responder.KindStructured, Structured: strings.TrimSpace(compacted.String())}
}
