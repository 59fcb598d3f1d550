package signal

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/tutormeet/signaling/internal/infrastructure/ws"
	"go.uber.org/zap"
)

type Handler struct {
	hub        *ws.Hub
	sendBuffer int
	logger     *zap.SugaredLogger
}

func NewHandler(hub *ws.Hub, sendBuffer int, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		hub:        hub,
		sendBuffer: sendBuffer,
		logger:     logger,
	}
}

// ConnectHandler upgrades the request and starts the client pumps. Room
// membership is not decided here: the client joins by sending join-room
// over the socket, and everything after that goes through the hub's
// dispatch table.
func (h *Handler) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.hub.Upgrade(w, r)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	// Identity is supplied externally and treated as opaque.
	username := r.URL.Query().Get("username")

	client := ws.NewClient(conn, uuid.NewString(), username, h.sendBuffer)
	h.hub.Register(client)

	go client.WriteMessage()
	go client.ReadMessage(h.hub)

	h.logger.Infow("client connected", "client", client.ID, "remote", r.RemoteAddr)
}
