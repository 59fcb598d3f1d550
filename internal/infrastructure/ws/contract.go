package ws

import "encoding/json"

// WSMessage is the envelope for every message on the socket. Data is a
// typed payload on the way out and raw JSON on the way in (see inbound).
type WSMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// inbound is the client-side envelope before the payload is decoded.
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Payload structs

type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
}

type UserJoinedPayload struct {
	CallerID string `json:"callerId"`
}

// SendingSignalPayload carries an offer or a trickled ICE candidate toward
// one member. Signal is opaque: it is relayed verbatim, never parsed.
type SendingSignalPayload struct {
	UserToSignal string          `json:"userToSignal"`
	CallerID     string          `json:"callerId"`
	Signal       json.RawMessage `json:"signal"`
}

type ReceivingSignalPayload struct {
	CallerID string          `json:"callerId"`
	Signal   json.RawMessage `json:"signal"`
}

// ReturningSignalPayload carries an answer (or a candidate) back to the
// member that initiated. CallerID addresses the initiator.
type ReturningSignalPayload struct {
	CallerID string          `json:"callerId"`
	Signal   json.RawMessage `json:"signal"`
}

type ReceivingReturnedSignalPayload struct {
	ID     string          `json:"id"`
	Signal json.RawMessage `json:"signal"`
}

type ToggleCameraPayload struct {
	CameraEnabled bool   `json:"cameraEnabled"`
	CallerID      string `json:"callerId"`
}

type ToggleMicPayload struct {
	MicEnabled bool   `json:"micEnabled"`
	CallerID   string `json:"callerId"`
}

type RecordingStatusPayload struct {
	IsRecording bool `json:"isRecording"`
}

type ChatMessagePayload struct {
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

type UserDisconnectedPayload struct {
	SocketID string `json:"socketId"`
}

func NewAllUsers(users []string) *WSMessage {
	if users == nil {
		users = []string{}
	}
	return &WSMessage{
		Event: AllUsersEvent,
		Data:  users,
	}
}

func NewUserJoined(callerID string) *WSMessage {
	return &WSMessage{
		Event: UserJoinedEvent,
		Data:  UserJoinedPayload{CallerID: callerID},
	}
}

func NewReceivingSignal(callerID string, signal json.RawMessage) *WSMessage {
	return &WSMessage{
		Event: ReceivingSignalEvent,
		Data:  ReceivingSignalPayload{CallerID: callerID, Signal: signal},
	}
}

func NewReceivingReturnedSignal(id string, signal json.RawMessage) *WSMessage {
	return &WSMessage{
		Event: ReceivingReturnedSignalEvent,
		Data:  ReceivingReturnedSignalPayload{ID: id, Signal: signal},
	}
}

func NewRoomFull() *WSMessage {
	return &WSMessage{Event: RoomFullEvent}
}

func NewUserDisconnected(socketID string) *WSMessage {
	return &WSMessage{
		Event: UserDisconnectedEvent,
		Data:  UserDisconnectedPayload{SocketID: socketID},
	}
}

func NewToggleCamera(cameraEnabled bool, callerID string) *WSMessage {
	return &WSMessage{
		Event: ToggleCameraEvent,
		Data:  ToggleCameraPayload{CameraEnabled: cameraEnabled, CallerID: callerID},
	}
}

func NewToggleMic(micEnabled bool, callerID string) *WSMessage {
	return &WSMessage{
		Event: ToggleMicEvent,
		Data:  ToggleMicPayload{MicEnabled: micEnabled, CallerID: callerID},
	}
}

func NewRecordingStatus(isRecording bool) *WSMessage {
	return &WSMessage{
		Event: RecordingStatusEvent,
		Data:  RecordingStatusPayload{IsRecording: isRecording},
	}
}

func NewChatMessage(message, sender string) *WSMessage {
	return &WSMessage{
		Event: ChatMessageEvent,
		Data:  ChatMessagePayload{Message: message, Sender: sender},
	}
}
