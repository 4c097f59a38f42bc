package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adrusia/voxgate/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The voice provider connects from its own origin.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of active transcript-relay connections. Connections
// share nothing with each other; the registry exists for lifecycle logging
// and shutdown accounting.
type Hub struct {
	// Registered clients keyed by connection id.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	relay *usecase.RelayService

	logger *zap.Logger
}

// NewHub creates a new transcript relay hub
func NewHub(relay *usecase.RelayService, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		relay:      relay,
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.connID] = client
			h.mu.Unlock()
			h.logger.Info("Transcript stream connected", zap.String("conn_id", client.connID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.connID]; ok {
				delete(h.clients, client.connID)
				client.closeSend()
			}
			h.mu.Unlock()
			h.logger.Info("Transcript stream disconnected", zap.String("conn_id", client.connID))
		}
	}
}

// ConnectionCount reports the number of live transcript streams.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Client is a middleman between one websocket connection and the relay.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	// Connection id for this stream
	connID string

	// Guards send against frames arriving after unregister; a relay reply
	// can land well after the peer disconnected.
	mu     sync.Mutex
	closed bool

	logger *zap.Logger
}

// HandleWebSocket upgrades the request and starts the relay pumps for it.
func HandleWebSocket(hub *Hub, c echo.Context, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		connID: uuid.NewString(),
		logger: logger,
	}

	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work
	// in new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps transcript frames from the websocket connection through
// the relay.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		if messageType != websocket.TextMessage {
			c.logger.Warn("Ignoring non-text frame", zap.Int("type", messageType))
			continue
		}

		c.processMessage(message)
	}
}

// writePump pumps outbound frames to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage handles one inbound frame. Each transcript turn is one
// relay call; failures come back as error frames on the same connection.
func (c *Client) processMessage(message []byte) {
	var base BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		c.logger.Error("Failed to parse message", zap.Error(err))
		c.sendJSON(NewErrorMessage("invalid_message", "Malformed JSON frame"))
		return
	}

	switch base.Type {
	case MessageTypePing:
		c.sendJSON(BaseMessage{Type: MessageTypePong})

	case MessageTypeTranscript:
		transcript, err := ParseTranscript(message)
		if err != nil {
			c.logger.Warn("Rejected transcript frame", zap.Error(err))
			c.sendJSON(NewErrorMessage("invalid_transcript", err.Error()))
			return
		}

		// Forward off the read pump so a slow backend does not stall
		// ping/pong handling. Each frame is exactly one backend call.
		go c.forwardTranscript(transcript)

	default:
		c.logger.Warn("Received unknown message type", zap.String("type", string(base.Type)))
		c.sendJSON(NewErrorMessage("unknown_type", "Unsupported message type"))
	}
}

// forwardTranscript relays one turn to the backend and writes the reply or
// an error frame back on the same connection.
func (c *Client) forwardTranscript(transcript *TranscriptMessage) {
	reply, err := c.hub.relay.Forward(context.Background(), usecase.VoiceTurn{
		TranscribedText: transcript.TranscribedText,
		SessionID:       transcript.SessionID,
	})
	if err != nil {
		c.logger.Error("Transcript relay failed",
			zap.String("session_id", transcript.SessionID),
			zap.Error(err))
		c.sendJSON(NewErrorMessage("backend_error", "Error from backend agent"))
		return
	}

	c.sendJSON(NewAgentResponse(reply.Response, reply.SessionID))
}

// closeSend closes the send channel exactly once and marks the client so
// late frames are dropped instead of hitting the closed channel.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) sendJSON(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to encode frame", zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		c.logger.Debug("Dropping frame: connection closed", zap.String("conn_id", c.connID))
		return
	}

	select {
	case c.send <- payload:
	default:
		c.logger.Warn("Dropping frame: send buffer full", zap.String("conn_id", c.connID))
	}
}
