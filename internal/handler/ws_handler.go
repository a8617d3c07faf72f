/*
Package handler provides the WebSocket transport for the assistant chat widget.

This file upgrades the connection and runs the read/write pumps. The socket
speaks the same events as the REST endpoints, but replies are pushed as they
resolve, so a slow reply lands after any messages the user sent in the
meantime.
*/
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"lexdraft/internal/app/chat"
	"lexdraft/internal/pkg/logx"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// pingPeriod is the interval for sending pings. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxSocketMessageSize limits inbound frames.
	maxSocketMessageSize = 8192
)

// socketEvent is one inbound frame from the client.
type socketEvent struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Action string `json:"action,omitempty"`
}

// socketPush is one outbound frame to the client.
type socketPush struct {
	Type    string          `json:"type"`
	Message *chat.Message   `json:"message,omitempty"`
	Panel   chat.PanelState `json:"panel,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// assistantSocket binds one connection to the session's chat widget.
type assistantSocket struct {
	conn   *websocket.Conn
	widget *chat.Widget
	send   chan socketPush
	done   chan struct{}
}

// HandleAssistantSocket upgrades the connection and runs the widget socket
// until either side goes away.
func HandleAssistantSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, manager := deps.sessionManager(r)
		if manager == nil || manager.CurrentUser() == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		sock := &assistantSocket{
			conn:   conn,
			widget: deps.Assistant.Widget(sessionID),
			send:   make(chan socketPush, 16),
			done:   make(chan struct{}),
		}

		logx.Info("Assistant socket established", "session_id", sessionID)

		go sock.writePump()
		sock.readPump()
	}
}

// push queues an outbound frame unless the socket is already closing.
func (s *assistantSocket) push(p socketPush) {
	select {
	case s.send <- p:
	case <-s.done:
	}
}

// readPump reads client events until the connection drops. Runs on the
// handler's goroutine; closing done stops the write pump.
func (s *assistantSocket) readPump() {
	defer func() {
		close(s.done)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxSocketMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var event socketEvent
		if err := s.conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logx.Warn("Assistant socket closed unexpectedly", "error", err)
			}
			return
		}

		s.handleEvent(event)
	}
}

func (s *assistantSocket) handleEvent(event socketEvent) {
	switch event.Type {
	case "send":
		text := strings.TrimSpace(event.Text)
		if text == "" {
			s.push(socketPush{Type: "error", Error: "empty message"})
			return
		}
		if utf8.RuneCountInString(text) > MaxMessageRunes {
			s.push(socketPush{Type: "error", Error: "message too long"})
			return
		}

		userMsg, replyCh := s.widget.Send(context.Background(), text)
		s.push(socketPush{Type: "message", Message: &userMsg})

		// The reply resolves on its own time and is pushed when it lands.
		go func() {
			if reply, ok := <-replyCh; ok {
				s.push(socketPush{Type: "message", Message: &reply})
			}
		}()

	case "panel":
		switch event.Action {
		case "open":
			s.widget.Open()
		case "minimize":
			s.widget.Minimize()
		case "restore":
			s.widget.Restore()
		case "close":
			s.widget.Close()
		default:
			s.push(socketPush{Type: "error", Error: "unknown panel action"})
			return
		}
		s.push(socketPush{Type: "panel", Panel: s.widget.Panel()})

	default:
		s.push(socketPush{Type: "error", Error: "unknown event type"})
	}
}

// writePump forwards queued frames to the peer and keeps the connection alive
// with pings.
func (s *assistantSocket) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case p := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(p); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
