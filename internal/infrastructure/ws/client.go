package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one connection's session with the relay. The ID is assigned by
// the server at upgrade time and is the identity every contract payload
// refers to (callerId, socketId). A client belongs to at most one room.
type Client struct {
	conn     *connWrapper
	Message  chan *WSMessage
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	JoinedAt time.Time

	// roomID and left are guarded by the hub's mutex.
	roomID string
	left   bool
}

func NewClient(conn *websocket.Conn, id, username string, sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Client{
		conn:     newConnWrapper(conn),
		Message:  make(chan *WSMessage, sendBuffer), // buffered so slow clients never stall a fan-out
		ID:       id,
		Username: username,
		JoinedAt: time.Now(),
	}
}

// ReadMessage pumps inbound frames into the hub's dispatch table until the
// transport closes, then triggers lifecycle teardown.
func (c *Client) ReadMessage(hub *Hub) {
	defer func() {
		hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				hub.log.Infow("ws read error", "client", c.ID, "error", err)
			}
			break
		}

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			hub.log.Warnw("dropping malformed frame", "client", c.ID, "error", err)
			continue
		}

		hub.Dispatch(c, msg)
	}
}

// WriteMessage drains the send buffer onto the socket until the channel is
// closed by teardown or a write fails.
func (c *Client) WriteMessage() {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.Message {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
