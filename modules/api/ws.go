package api

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/example/roomchat/modules/chat"
)

// Rate limiting constants
const (
	messagesPerSecond = 10
	burstSize         = 20
)

// rateLimiter implements a simple token bucket rate limiter.
type rateLimiter struct {
	tokens     int
	maxTokens  int
	refillRate int // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

func newRateLimiter(maxTokens, refillRate int) *rateLimiter {
	return &rateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

func (r *rateLimiter) allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(r.lastRefill)
	tokensToAdd := int(elapsed.Seconds()) * r.refillRate
	if tokensToAdd > 0 {
		r.tokens += tokensToAdd
		if r.tokens > r.maxTokens {
			r.tokens = r.maxTokens
		}
		r.lastRefill = now
	}

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}

// wsConn bundles a WebSocket connection with its chat session and serializes
// writes: the pump goroutine and the control-frame replies share the socket.
type wsConn struct {
	conn    *websocket.Conn
	sess    *chat.Session
	limiter *rateLimiter
	logger  *slog.Logger

	writeMu sync.Mutex
}

// handleWebSocket handles WebSocket connections at /ws.
func (m *APIModule) handleWebSocket(c *websocket.Conn) {
	w := &wsConn{
		conn:    c,
		sess:    chat.NewSession(uuid.New().String()),
		limiter: newRateLimiter(burstSize, messagesPerSecond),
		logger:  slog.Default(),
	}

	// Pump notifications from the session queue to the socket. The channel
	// is closed on disconnect, which ends the goroutine.
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		for n := range w.sess.Out() {
			if err := w.writeJSON(n); err != nil {
				w.logger.Error("notification write failed", "session", w.sess.ID(), "error", err)
				return
			}
		}
	}()

	defer func() {
		m.hub.Disconnect(w.sess)
		<-pumpDone
		log.Printf("[api] WebSocket client disconnected: %s", w.sess.ID())
	}()

	log.Printf("[api] WebSocket client connected: %s", w.sess.ID())

	// A token in the query string authenticates the connection up front;
	// otherwise the client must send an auth frame before anything else.
	if token := c.Query("token"); token != "" {
		if !m.authenticate(w, token) {
			return
		}
	}

	for {
		_, msgBytes, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.logger.Error("WebSocket read error", "session", w.sess.ID(), "error", err)
			}
			break
		}

		var frame ClientFrame
		if err := json.Unmarshal(msgBytes, &frame); err != nil {
			w.sendError("Invalid frame format")
			continue
		}

		m.handleFrame(w, frame)
	}
}

// handleFrame dispatches one inbound client frame.
func (m *APIModule) handleFrame(w *wsConn, frame ClientFrame) {
	switch frame.Type {
	case FrameAuth:
		if frame.Token == "" {
			w.sendError("Token is required")
			return
		}
		m.authenticate(w, frame.Token)
	case FrameJoin:
		if frame.Room == "" {
			w.sendError("Room is required")
			return
		}
		if err := m.hub.OnJoin(w.sess, frame.Room); err != nil {
			w.sendError(err.Error())
		}
	case FrameMessage:
		if !w.limiter.allow() {
			w.sendError("Rate limit exceeded, please slow down")
			return
		}
		if frame.Room == "" {
			w.sendError("Room is required")
			return
		}
		if err := m.hub.OnMessage(context.Background(), w.sess, frame.Room, frame.Content); err != nil {
			w.sendError(err.Error())
		}
	case FrameLeave:
		if frame.Room == "" {
			w.sendError("Room is required")
			return
		}
		if err := m.hub.OnLeave(w.sess, frame.Room); err != nil {
			w.sendError(err.Error())
		}
	default:
		w.sendError("Unknown frame type: " + frame.Type)
	}
}

// authenticate validates the token and binds the verified username to the
// session. Reports whether the session is now authenticated.
func (m *APIModule) authenticate(w *wsConn, token string) bool {
	if _, ok := w.sess.Username(); ok {
		w.sendError("Already authenticated")
		return true
	}

	resp, err := m.authAdapter.ValidateToken(context.Background(), token)
	if err != nil {
		w.logger.Error("token validation failed", "session", w.sess.ID(), "error", err)
		w.sendError("Authentication unavailable")
		return false
	}
	if !resp.Valid {
		w.sendError("Invalid token: " + resp.Error)
		return false
	}

	w.sess.Authenticate(resp.Username)
	_ = w.writeJSON(ServerFrame{
		Kind:     KindAuthenticated,
		Username: resp.Username,
	})
	log.Printf("[api] WebSocket client authenticated: %s (%s)", w.sess.ID(), resp.Username)
	return true
}

// writeJSON writes one value to the socket under the write lock.
func (w *wsConn) writeJSON(v any) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	return w.conn.WriteJSON(v)
}

// sendError sends an error frame to the client.
func (w *wsConn) sendError(message string) {
	if err := w.writeJSON(ServerFrame{
		Kind:  KindError,
		Error: message,
	}); err != nil {
		w.logger.Error("error frame write failed", "session", w.sess.ID(), "error", err)
	}
}
