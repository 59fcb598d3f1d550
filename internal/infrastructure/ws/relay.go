package ws

import "go.uber.org/zap"

// Relay forwards signaling envelopes to exactly one addressed connection.
// The payload is relayed verbatim; the relay never parses SDP or ICE
// content, never retries, and never reorders. An envelope whose target is
// not in the sender's room at delivery time is dropped without telling
// the sender.
type Relay struct {
	directory *RoomDirectory
	hub       *Hub
	log       *zap.SugaredLogger
}

func (r *Relay) Forward(sender *Client, targetID string, out *WSMessage) {
	roomID := r.hub.roomOf(sender)
	if roomID == "" {
		r.log.Debugw("dropping envelope from unjoined sender", "sender", sender.ID, "event", out.Event)
		return
	}
	if !r.directory.Contains(roomID, targetID) {
		r.log.Debugw("dropping envelope, target not co-located",
			"sender", sender.ID, "target", targetID, "room", roomID, "event", out.Event)
		return
	}

	r.hub.sendTo(targetID, out)
}
