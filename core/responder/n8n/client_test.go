package n8n

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/responder"
)

func TestFetchSendsUserTextAsJSON(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"reply":"hi there"}`))
	}))
	defer server.Close()

	client := NewClient(WithWebhookURL(server.URL))
	raw, err := client.Fetch(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected fetch to succeed, got %v", err)
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("expected JSON request body, got %q: %v", gotBody, err)
	}
	if payload.Text != "hello" {
		t.Fatalf("expected user text in request body, got %q", payload.Text)
	}

	if raw.Kind != responder.KindReply || raw.Reply != "hi there" {
		t.Fatalf("expected reply variant, got %+v", raw)
	}
}

func TestFetchClassifiesStructuredResponseWithoutReplyField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"mood": "happy", "energy": 3}`))
	}))
	defer server.Close()

	raw, err := NewClient(WithWebhookURL(server.URL)).Fetch(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected fetch to succeed, got %v", err)
	}
	if raw.Kind != responder.KindStructured {
		t.Fatalf("expected structured variant, got %+v", raw)
	}
	if raw.Structured != `{"mood": "happy", "energy": 3}` && raw.Structured != `{"mood":"happy","energy":3}` {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(raw.Structured), &decoded); err != nil {
			t.Fatalf("expected serialized JSON structure, got %q", raw.Structured)
		}
	}
}

func TestFetchUnquotesBareJSONString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`"just a string"`))
	}))
	defer server.Close()

	raw, err := NewClient(WithWebhookURL(server.URL)).Fetch(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected fetch to succeed, got %v", err)
	}
	if raw.Kind != responder.KindText || raw.Text != "just a string" {
		t.Fatalf("expected unquoted text variant, got %+v", raw)
	}
}

func TestFetchClassifiesPlainTextResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	raw, err := NewClient(WithWebhookURL(server.URL)).Fetch(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected fetch to succeed, got %v", err)
	}
	if raw.Kind != responder.KindText || raw.Text != "not json at all" {
		t.Fatalf("expected text variant, got %+v", raw)
	}
}

func TestFetchClassifiesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	raw, err := NewClient(WithWebhookURL(server.URL)).Fetch(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected http errors to be absorbed, got %v", err)
	}
	if raw.Kind != responder.KindHTTPError || raw.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected http error variant with status 500, got %+v", raw)
	}
}

func TestFetchTimeoutBecomesTransportError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(WithWebhookURL(server.URL), WithTimeout(20*time.Millisecond))
	raw, err := client.Fetch(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected timeout to be absorbed, got %v", err)
	}
	if raw.Kind != responder.KindTransportError || raw.Err == nil {
		t.Fatalf("expected transport error variant, got %+v", raw)
	}
}

func TestFetchConnectionFailureBecomesTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	raw, err := NewClient(WithWebhookURL(server.URL)).Fetch(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected connection failure to be absorbed, got %v", err)
	}
	if raw.Kind != responder.KindTransportError || raw.Err == nil {
		t.Fatalf("expected transport error variant, got %+v", raw)
	}
}

func TestFetchCancellationPropagates(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := NewClient(WithWebhookURL(server.URL)).Fetch(ctx, "hello")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation to propagate unchanged, got %v", err)
	}
}
