package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yourusername/handcricket/pkg/engine"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a message from the client.
type WSMessage struct {
	Type    string          `json:"type"`              // "ball", "select", "state", "ping"
	ID      string          `json:"id,omitempty"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload,omitempty"` // Type-specific payload
}

// WSResponse is a message to the client. "state" messages are pushed to
// every client watching the match after each change.
type WSResponse struct {
	Type    string      `json:"type"`              // "ball", "state", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
	Code    string      `json:"code,omitempty"`    // Error code if any
}

// WSClient is one websocket connection watching a match.
type WSClient struct {
	conn    *websocket.Conn
	session *Session
	send    chan []byte
	done    chan struct{} // Closed when the write pump stops
}

// WebSocket handles GET /api/matches/{id}/ws. The client receives the
// current state on connect and every state change after that, and may
// play balls and answer selections over the same connection.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	c := &WSClient{
		conn:    conn,
		session: s,
		send:    make(chan []byte, 256),
		done:    make(chan struct{}),
	}
	s.Subscribe(c.send)
	go c.writePump()
	c.reply(WSResponse{Type: "state", Payload: s.State()})
	c.readPump()
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

func (c *WSClient) readPump() {
	defer func() {
		c.session.Unsubscribe(c.send)
		close(c.send)
	}()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		c.handleMessage(msg)
	}
}

// reply queues a message for this client only.
func (c *WSClient) reply(resp WSResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	}
}

func (c *WSClient) replyErr(id string, err error) {
	_, code := errorStatus(err)
	c.reply(WSResponse{Type: "error", ID: id, Error: err.Error(), Code: code})
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "ball":
		c.handleBall(msg)
	case "select":
		c.handleSelect(msg)
	case "state":
		c.reply(WSResponse{Type: "state", ID: msg.ID, Payload: c.session.State()})
	case "ping":
		c.reply(WSResponse{Type: "pong", ID: msg.ID})
	default:
		c.reply(WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type", Code: "UNKNOWN_TYPE"})
	}
}

func (c *WSClient) handleBall(msg WSMessage) {
	var req BallRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.reply(WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "INVALID_JSON"})
		return
	}
	resp, err := playBall(c.session, req.Choice)
	if err != nil {
		c.replyErr(msg.ID, err)
		return
	}
	c.reply(WSResponse{Type: "ball", ID: msg.ID, Payload: resp.Ball})
}

func (c *WSClient) handleSelect(msg WSMessage) {
	var req SelectionRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.reply(WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "INVALID_JSON"})
		return
	}
	resp, err := c.session.Do(func(e *engine.Engine) error {
		if req.Auto {
			return e.AutoSelect()
		}
		return e.ConfirmSelection(req.Players)
	})
	if err != nil {
		c.replyErr(msg.ID, err)
		return
	}
	c.reply(WSResponse{Type: "state", ID: msg.ID, Payload: resp})
}
