// Package deepgram transcribes one utterance at a time over the Deepgram
// listen websocket.
package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"

	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/audio"
	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/speechtotext"
)

const listenURL = "wss://api.deepgram.com/v1/listen"

// chunkSize keeps single websocket frames small enough for Deepgram to
// start processing before the whole utterance is uploaded.
const chunkSize = 8192

type TranscriptionClient struct {
	model    string
	language string
}

type TranscriptionClientOption func(*TranscriptionClient)

func WithModel(model string) TranscriptionClientOption {
	return func(c *TranscriptionClient) {
		if model != "" {
			c.model = model
		}
	}
}

func WithLanguage(language string) TranscriptionClientOption {
	return func(c *TranscriptionClient) {
		if language != "" {
			c.language = language
		}
	}
}

func NewTranscriptionClient(opts ...TranscriptionClientOption) *TranscriptionClient {
	client := &TranscriptionClient{model: "nova-3", language: "en-US"}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Transcribe uploads a complete utterance, closes the stream and collects
// the finalized transcript segments until Deepgram closes the connection.
func (c *TranscriptionClient) Transcribe(ctx context.Context, samples []byte, opts ...speechtotext.TranscriptionOption) (string, error) {
	options := &speechtotext.TranscriptionOptions{EncodingInfo: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(options)
	}

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return "", fmt.Errorf("invalid encoding: %w", err)
	}

	conn, err := c.connectWebsocket(*encoding)
	if err != nil {
		return "", fmt.Errorf("failed to open websocket: %w", err)
	}
	defer conn.Close()

	// Force pending reads to fail when the turn is cancelled.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-watchDone:
		}
	}()

	for offset := 0; offset < len(samples); offset += chunkSize {
		end := min(offset+chunkSize, len(samples))
		if err := conn.WriteMessage(websocket.BinaryMessage, samples[offset:end]); err != nil {
			return "", fmt.Errorf("failed to send audio to deepgram: %w", err)
		}
	}

	if err := conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
		return "", fmt.Errorf("failed to close deepgram stream: %w", err)
	}

	transcript, err := c.collectTranscript(conn, *options)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		return "", err
	}
	return transcript, nil
}

func (c *TranscriptionClient) collectTranscript(conn *websocket.Conn, options speechtotext.TranscriptionOptions) (string, error) {
	var segments []string
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return strings.TrimSpace(strings.Join(segments, " ")), nil
			}
			return "", fmt.Errorf("failed to read deepgram websocket message: %w", err)
		}
		if msgType == websocket.BinaryMessage {
			continue
		}

		var parsedMsg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &parsedMsg); err != nil {
			logger.Warn("failed to unmarshal deepgram message", "error", err)
			continue
		}

		switch api.TypeResponse(parsedMsg.Type) {
		case api.TypeMetadataResponse:
			// Metadata is the flush marker after CloseStream; no further
			// transcript segments will follow.
			return strings.TrimSpace(strings.Join(segments, " ")), nil
		case api.TypeMessageResponse:
		default:
			continue
		}

		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			logger.Warn("failed to unmarshal deepgram transcript message", "error", err)
			continue
		}
		if !msgResp.IsFinal || len(msgResp.Channel.Alternatives) == 0 {
			continue
		}

		segment := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
		if segment == "" {
			continue
		}
		if options.PartialTranscriptionCallback != nil {
			options.PartialTranscriptionCallback(segment)
		}
		segments = append(segments, segment)
	}
}

func (c *TranscriptionClient) connectWebsocket(encoding encodingInfo) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	listenUrl, _ := url.Parse(listenURL)
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", encoding.Format.Name())
	queryParams.Set("sample_rate", strconv.Itoa(encoding.SampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", c.model)
	queryParams.Set("language", c.language)
	queryParams.Set("smart_format", "true")

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}
