package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/fusion2048/internal/engine"
	"github.com/vovakirdan/fusion2048/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamMessage is one frame sent to a WebSocket client.
type streamMessage struct {
	Kind      string            `json:"kind"`
	SessionID string            `json:"session_id"`
	State     *engine.GameState `json:"state,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// clientMessage is a frame received from a client. Only moves are accepted.
type clientMessage struct {
	Direction string `json:"direction"`
}

// handleWebSocket streams the game's state: a snapshot on connect, then
// every change. Clients may send {"direction": "..."} to move.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sess, err := s.sessions.Resume(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	watcher, err := s.sessions.Subscribe(id)
	if err != nil {
		s.fail(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.sessions.Unsubscribe(watcher)
		s.logger.Warn("websocket upgrade failed", "id", id, "err", err)
		return
	}
	s.logger.Debug("websocket connected", "id", id)

	replies := make(chan streamMessage, 8)
	done := make(chan struct{})
	go s.readPump(r.Context(), conn, id, replies, done)
	s.writePump(conn, watcher, sess.State(), replies)
	close(done)
}

// readPump applies client moves until the connection fails, then closes
// replies. done closes once the writer is gone.
func (s *Server) readPump(ctx context.Context, conn *websocket.Conn, id string, replies chan<- streamMessage, done <-chan struct{}) {
	defer close(replies)

	reply := func(msg streamMessage) {
		select {
		case replies <- msg:
		case <-done:
		}
	}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("websocket read failed", "id", id, "err", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			reply(streamMessage{Kind: "error", SessionID: id, Error: "invalid message"})
			continue
		}
		dir, err := engine.ParseDirection(msg.Direction)
		if err == nil {
			_, err = s.sessions.Move(ctx, id, dir)
		}
		if err != nil {
			reply(streamMessage{Kind: "error", SessionID: id, Error: err.Error()})
		}
	}
}

// writePump is the only writer on conn.
func (s *Server) writePump(conn *websocket.Conn, watcher *session.Watcher, snapshot *engine.GameState, replies <-chan streamMessage) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.sessions.Unsubscribe(watcher)
		conn.Close()
	}()

	id := watcher.SessionID()
	if err := writeMessage(conn, streamMessage{Kind: "snapshot", SessionID: id, State: snapshot}); err != nil {
		return
	}

	for {
		select {
		case evt := <-watcher.Events():
			msg := streamMessage{Kind: string(evt.Kind), SessionID: evt.SessionID, State: evt.State}
			if err := writeMessage(conn, msg); err != nil {
				return
			}
			if evt.Kind == session.EventDeleted {
				closeConn(conn, "game deleted")
				return
			}

		case <-watcher.Done():
			closeConn(conn, "game deleted")
			return

		case msg, ok := <-replies:
			if !ok {
				return
			}
			if err := writeMessage(conn, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeMessage(conn *websocket.Conn, msg streamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func closeConn(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
		time.Now().Add(writeWait))
}
