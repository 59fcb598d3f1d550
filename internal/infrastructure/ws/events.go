package ws

// Wire event names. Client-to-server events drive the dispatch table in
// hub.go; server-to-client events are produced by the constructors in
// contract.go.
const (
	// C -> S
	JoinRoomEvent        = "join-room"
	SendingSignalEvent   = "sending-signal"
	ReturningSignalEvent = "returning-signal"

	// S -> C
	AllUsersEvent                = "all-users"
	UserJoinedEvent              = "user-joined"
	ReceivingSignalEvent         = "receiving-signal"
	ReceivingReturnedSignalEvent = "receiving-returned-signal"
	RoomFullEvent                = "room-full"
	UserDisconnectedEvent        = "user-disconnected"

	// C -> S, fanned out S -> room
	ToggleCameraEvent    = "toggle-camera"
	ToggleMicEvent       = "toggle-mic"
	RecordingStatusEvent = "recording-status"
	ChatMessageEvent     = "chat-message"
)
