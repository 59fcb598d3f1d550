package health

import (
	"net/http"
	"time"

	"github.com/tutormeet/signaling/internal/infrastructure/json"
	"github.com/tutormeet/signaling/internal/infrastructure/ws"
)

type Handler struct {
	hub *ws.Hub
}

func NewHandler(hub *ws.Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	data := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	}
	if h.hub != nil {
		data.Connections = h.hub.ClientCount()
		data.Rooms = h.hub.Directory().Rooms()
	}
	json.Write(w, http.StatusOK, data)
}
