package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/events"
)

// WebsocketSender sends events over a single frontend websocket
// connection. Writes are serialized with a mutex since gorilla/websocket
// supports only one concurrent writer.
type WebsocketSender struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewWebsocketSender(conn *websocket.Conn) *WebsocketSender {
	return &WebsocketSender{conn: conn}
}

func (s *WebsocketSender) Send(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("websocket connection closed")
	}
	if err := s.conn.WriteJSON(event); err != nil {
		return fmt.Errorf("failed to write event to frontend websocket: %w", err)
	}
	return nil
}

func (s *WebsocketSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	conn := s.conn
	s.conn = nil
	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close frontend websocket: %w", err)
	}
	return nil
}
