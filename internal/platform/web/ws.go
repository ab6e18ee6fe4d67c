package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/bubble-pop/internal/bubble"
	"github.com/vovakirdan/bubble-pop/internal/core"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 1024
)

// Inbound message types.
const (
	msgPop    = "pop"    // By id, or by x/y when id is empty
	msgResize = "resize" // Field size in field units
	msgAbort  = "abort"
)

type clientMessage struct {
	Type   string   `json:"type"`
	ID     string   `json:"id,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  float64  `json:"width,omitempty"`
	Height float64  `json:"height,omitempty"`
}

type serverMessage struct {
	Type     string           `json:"type"` // "snapshot", "popped" or "error"
	Snapshot *bubble.Snapshot `json:"snapshot,omitempty"`
	Points   int              `json:"points,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// handleWS upgrades the connection and runs one session for it. The
// session ends on timeout, on an abort message or when the socket closes;
// the last snapshot sent carries the committed result.
func (s *Server) handleWS(c *gin.Context) {
	player := strings.TrimSpace(c.Query("player"))
	if player == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player is required"})
		return
	}

	session, err := bubble.NewSession(player, s.deps.Settings, s.deps.Store, bubble.Options{
		Tuning:   s.deps.Tuning,
		Seed:     s.deps.Seed,
		Logger:   s.logger,
		Observer: s.deps.Observer,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allowed := s.deps.AllowedOrigin
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowed == "" {
				return true
			}
			return r.Header.Get("Origin") == allowed
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "player", player, "err", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	bubble.NewRunner(session, nil).Start(ctx)

	cl := &client{
		conn:    conn,
		session: session,
		send:    make(chan serverMessage, 16),
		server:  s,
	}
	go cl.writePump(cancel)
	go cl.readPump(cancel)
}

type client struct {
	conn    *websocket.Conn
	session *bubble.Session
	send    chan serverMessage // Replies to inbound messages
	server  *Server
}

// readPump applies inbound messages until the socket fails. Closing the
// socket aborts the session.
func (c *client) readPump(cancel context.CancelFunc) {
	defer cancel()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Debug("websocket read failed", "player", c.session.Player(), "err", err)
			}
			return
		}

		reply, ok := c.handle(data)
		if !ok {
			continue
		}
		select {
		case c.send <- reply:
		default:
			// Writer is behind; the next snapshot carries the state anyway
		}
	}
}

// handle applies one inbound message and returns the reply, if any.
func (c *client) handle(data []byte) (serverMessage, bool) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return serverMessage{Type: "error", Error: "invalid message"}, true
	}

	switch msg.Type {
	case msgPop:
		var (
			points int
			err    error
		)
		switch {
		case msg.ID != "":
			points, err = c.session.PopAt(msg.ID)
		case msg.X != nil && msg.Y != nil:
			points, err = c.session.PopAtPoint(core.Pt(*msg.X, *msg.Y))
		default:
			return serverMessage{Type: "error", Error: "pop needs id or x/y"}, true
		}
		if errors.Is(err, bubble.ErrNotFound) || errors.Is(err, bubble.ErrInvalidState) {
			return serverMessage{}, false
		}
		if err != nil {
			return serverMessage{Type: "error", Error: err.Error()}, true
		}
		return serverMessage{Type: "popped", Points: points}, true

	case msgResize:
		c.session.FieldSizeChanged(msg.Width, msg.Height)
		return serverMessage{}, false

	case msgAbort:
		c.session.Abort()
		return serverMessage{}, false
	}

	return serverMessage{Type: "error", Error: "unknown message type " + msg.Type}, true
}

// writePump streams snapshots at the frame interval and replies as they
// come. After the session ends it sends the final snapshot and closes.
func (c *client) writePump(cancel context.CancelFunc) {
	frames := time.NewTicker(c.server.deps.FrameInterval)
	pings := time.NewTicker(pingPeriod)
	defer func() {
		frames.Stop()
		pings.Stop()
		cancel()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			if err := c.write(msg); err != nil {
				return
			}

		case <-frames.C:
			snap := c.session.Snapshot()
			if err := c.write(serverMessage{Type: "snapshot", Snapshot: &snap}); err != nil {
				return
			}

		case <-c.session.Done():
			snap := c.session.Snapshot()
			if err := c.write(serverMessage{Type: "snapshot", Snapshot: &snap}); err != nil {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
			return

		case <-pings.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) write(msg serverMessage) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}
