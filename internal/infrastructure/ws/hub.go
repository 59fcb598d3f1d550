package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub owns connection lifecycle: it registers clients, walks them through
// join/leave transitions against the RoomDirectory, and routes every
// inbound event through an explicit dispatch table. Signal forwarding and
// media-state fan-out are delegated to Relay and Broadcaster.
type Hub struct {
	directory   *RoomDirectory
	relay       *Relay
	broadcaster *Broadcaster
	log         *zap.SugaredLogger
	upgrader    websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*Client

	handlers map[string]func(*Client, json.RawMessage)
}

func NewHub(directory *RoomDirectory, logger *zap.SugaredLogger, allowedOrigins []string) *Hub {
	h := &Hub{
		directory: directory,
		log:       logger,
		clients:   make(map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
	h.relay = &Relay{directory: directory, hub: h, log: logger}
	h.broadcaster = &Broadcaster{directory: directory, hub: h}

	h.handlers = map[string]func(*Client, json.RawMessage){
		JoinRoomEvent:         h.handleJoinRoom,
		SendingSignalEvent:    h.handleSendingSignal,
		ReturningSignalEvent:  h.handleReturningSignal,
		ToggleCameraEvent:     h.handleToggleCamera,
		ToggleMicEvent:        h.handleToggleMic,
		RecordingStatusEvent:  h.handleRecordingStatus,
		ChatMessageEvent:      h.handleChatMessage,
		UserDisconnectedEvent: h.handleUserDisconnected,
	}

	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.Header.Get("Origin")]
		return ok
	}
}

func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return h.upgrader.Upgrade(w, r, nil)
}

func (h *Hub) Directory() *RoomDirectory {
	return h.directory
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
}

// Unregister tears a connection down exactly once, however many close
// signals arrive: the remaining members get one user-disconnected each and
// an emptied room disappears from the directory.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if c.left {
		h.mu.Unlock()
		return
	}
	c.left = true
	roomID := c.roomID
	delete(h.clients, c.ID)
	h.mu.Unlock()

	if roomID != "" {
		remaining := h.directory.Leave(roomID, c.ID)
		out := NewUserDisconnected(c.ID)
		for _, id := range remaining {
			h.sendTo(id, out)
		}
		h.log.Infow("client left room", "client", c.ID, "room", roomID, "remaining", len(remaining))
	}

	close(c.Message)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dispatch routes one inbound frame. Unknown events and undecodable
// payloads are dropped; the connection stays up.
func (h *Hub) Dispatch(c *Client, msg inbound) {
	handler, ok := h.handlers[msg.Event]
	if !ok {
		h.log.Warnw("dropping unknown event", "client", c.ID, "event", msg.Event)
		return
	}
	handler(c, msg.Data)
}

// send enqueues without blocking. A full buffer means the client is too
// slow and the message is dropped; delivery here is fire-and-forget.
func (h *Hub) send(c *Client, msg *WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if c.left {
		return
	}
	select {
	case c.Message <- msg:
	default:
		h.log.Warnw("client buffer full, dropping message", "client", c.ID, "event", msg.Event)
	}
}

func (h *Hub) sendTo(id string, msg *WSMessage) {
	h.mu.RLock()
	c, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.send(c, msg)
}

func (h *Hub) roomOf(c *Client) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.roomID
}

func (h *Hub) handleJoinRoom(c *Client, data json.RawMessage) {
	var p JoinRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		h.log.Warnw("dropping malformed join-room", "client", c.ID, "error", err)
		return
	}

	// A connection is in at most one room.
	if current := h.roomOf(c); current != "" && current != p.RoomID {
		h.log.Warnw("join refused, already in a room", "client", c.ID, "room", current)
		return
	}

	members, rejoined, err := h.directory.Join(p.RoomID, c.ID)
	if err != nil {
		if errors.Is(err, ErrRoomFull) {
			h.send(c, NewRoomFull())
			h.log.Infow("join refused, room full", "client", c.ID, "room", p.RoomID)
		}
		return
	}

	h.mu.Lock()
	c.roomID = p.RoomID
	h.mu.Unlock()

	// The joiner initiates toward everyone already present; they only
	// answer. Fixed by join order so both sides never offer at once.
	h.send(c, NewAllUsers(members))

	if !rejoined {
		notice := NewUserJoined(c.ID)
		for _, id := range members {
			h.sendTo(id, notice)
		}
		h.log.Infow("client joined room", "client", c.ID, "room", p.RoomID, "peers", len(members))
	}
}

func (h *Hub) handleSendingSignal(c *Client, data json.RawMessage) {
	var p SendingSignalPayload
	if err := json.Unmarshal(data, &p); err != nil || p.UserToSignal == "" || len(p.Signal) == 0 {
		h.log.Warnw("dropping malformed sending-signal", "client", c.ID, "error", err)
		return
	}

	// callerId is stamped from the authenticated connection, not trusted
	// from the payload.
	h.relay.Forward(c, p.UserToSignal, NewReceivingSignal(c.ID, p.Signal))
}

func (h *Hub) handleReturningSignal(c *Client, data json.RawMessage) {
	var p ReturningSignalPayload
	if err := json.Unmarshal(data, &p); err != nil || p.CallerID == "" || len(p.Signal) == 0 {
		h.log.Warnw("dropping malformed returning-signal", "client", c.ID, "error", err)
		return
	}

	h.relay.Forward(c, p.CallerID, NewReceivingReturnedSignal(c.ID, p.Signal))
}

func (h *Hub) handleToggleCamera(c *Client, data json.RawMessage) {
	var p ToggleCameraPayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.log.Warnw("dropping malformed toggle-camera", "client", c.ID, "error", err)
		return
	}
	h.fanOut(c, NewToggleCamera(p.CameraEnabled, c.ID))
}

func (h *Hub) handleToggleMic(c *Client, data json.RawMessage) {
	var p ToggleMicPayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.log.Warnw("dropping malformed toggle-mic", "client", c.ID, "error", err)
		return
	}
	h.fanOut(c, NewToggleMic(p.MicEnabled, c.ID))
}

func (h *Hub) handleRecordingStatus(c *Client, data json.RawMessage) {
	var p RecordingStatusPayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.log.Warnw("dropping malformed recording-status", "client", c.ID, "error", err)
		return
	}
	h.fanOut(c, NewRecordingStatus(p.IsRecording))
}

func (h *Hub) handleChatMessage(c *Client, data json.RawMessage) {
	var p ChatMessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Message == "" {
		h.log.Warnw("dropping malformed chat-message", "client", c.ID, "error", err)
		return
	}

	sender := c.Username
	if sender == "" {
		sender = c.ID
	}
	h.fanOut(c, NewChatMessage(p.Message, sender))
}

// handleUserDisconnected is the voluntary close path: clients announce the
// teardown before dropping the transport. Only the sending connection is
// torn down, whatever socketId the payload names.
func (h *Hub) handleUserDisconnected(c *Client, data json.RawMessage) {
	h.Unregister(c)
	_ = c.conn.Close()
}

func (h *Hub) fanOut(c *Client, msg *WSMessage) {
	roomID := h.roomOf(c)
	if roomID == "" {
		h.log.Warnw("media event outside a room", "client", c.ID, "event", msg.Event)
		return
	}
	h.broadcaster.Broadcast(roomID, c.ID, msg)
}
