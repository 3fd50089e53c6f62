package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const (
	actionSubscribe   = "subscribe"
	actionUnsubscribe = "unsubscribe"
	actionEvent       = "event"
	actionError       = "error"

	sendBuffer = 64
	writeWait  = 10 * time.Second
)

// Message - envelope for everything sent over the socket in either direction.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type subscribePayload struct {
	SessionID entity.SessionID `json:"session_id"`
}

type client struct {
	conn *websocket.Conn
	send chan Message

	mu       sync.RWMutex
	sessions map[entity.SessionID]struct{}
}

// wants - a client with no subscriptions receives every event.
func (that *client) wants(id entity.SessionID) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if len(that.sessions) == 0 {
		return true
	}

	_, ok := that.sessions[id]

	return ok
}

// Hub - fans game events out to connected websocket clients.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}

	handlers map[string]func(c *client, payload json.RawMessage) error
}

func NewHub(logger *slog.Logger) *Hub {
	hub := &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}

	hub.handlers = map[string]func(*client, json.RawMessage) error{
		actionSubscribe:   hub.handleSubscribe,
		actionUnsubscribe: hub.handleUnsubscribe,
	}

	return hub
}

// Notify - queues the event for every interested client. Never blocks: a client
// whose buffer is full misses the event.
func (that *Hub) Notify(_ context.Context, event entity.Event) {
	log := that.logger.With("method", "Notify")

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("failed to marshal event", "error", err)
		return
	}

	message := Message{Action: actionEvent, Payload: payload}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for c := range that.clients {
		if !c.wants(event.SessionID) {
			continue
		}

		select {
		case c.send <- message:
		default:
			log.Warn("client too slow, event dropped", "event", event.ID)
		}
	}
}

// HandleWS - upgrades the request and serves the client until it disconnects.
func (that *Hub) HandleWS(ctx *gin.Context) {
	log := that.logger.With("method", "HandleWS")

	conn, err := that.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{
		conn:     conn,
		send:     make(chan Message, sendBuffer),
		sessions: make(map[entity.SessionID]struct{}),
	}

	that.register(c)
	defer that.unregister(c)

	go that.writeLoop(c)

	log.Info("websocket connection established", "remote", conn.RemoteAddr().String())

	that.readLoop(c)
}

func (that *Hub) readLoop(c *client) {
	log := that.logger.With("method", "readLoop")

	for {
		var message Message
		if err := c.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("failed to read message", "error", err)
			}

			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			that.sendError(c, "unknown action: "+message.Action)
			continue
		}

		if err := handler(c, message.Payload); err != nil {
			that.sendError(c, err.Error())
		}
	}
}

func (that *Hub) writeLoop(c *client) {
	log := that.logger.With("method", "writeLoop")

	for message := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Error("failed to set write deadline", "error", err)
			return
		}

		if err := c.conn.WriteJSON(message); err != nil {
			log.Error("failed to send message", "error", err)
			return
		}
	}
}

func (that *Hub) handleSubscribe(c *client, payload json.RawMessage) error {
	var req subscribePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return err
	}

	c.mu.Lock()
	c.sessions[req.SessionID] = struct{}{}
	c.mu.Unlock()

	return nil
}

func (that *Hub) handleUnsubscribe(c *client, payload json.RawMessage) error {
	var req subscribePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.sessions, req.SessionID)
	c.mu.Unlock()

	return nil
}

func (that *Hub) sendError(c *client, text string) {
	payload, _ := json.Marshal(map[string]string{"error": text}) //nolint: errchkjson // map of strings

	select {
	case c.send <- Message{Action: actionError, Payload: payload}:
	default:
	}
}

func (that *Hub) register(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[c] = struct{}{}
}

func (that *Hub) unregister(c *client) {
	that.mu.Lock()
	delete(that.clients, c)
	that.mu.Unlock()

	close(c.send)
	_ = c.conn.Close()
}
