package ws

// Broadcaster fans ephemeral media state out to every member of a room
// except the sender. Fire-and-forget: no acknowledgement, no retry, no
// history for members who reconnect later.
type Broadcaster struct {
	directory *RoomDirectory
	hub       *Hub
}

func (b *Broadcaster) Broadcast(roomID, senderID string, msg *WSMessage) {
	for _, id := range b.directory.Members(roomID) {
		if id == senderID {
			continue
		}
		b.hub.sendTo(id, msg)
	}
}
