package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, capacity int) (*httptest.Server, *Hub) {
	t.Helper()

	hub := NewHub(NewRoomDirectory(capacity), zap.NewNop().Sugar(), []string{"*"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := hub.Upgrade(w, r)
		if err != nil {
			return
		}
		client := NewClient(conn, uuid.NewString(), r.URL.Query().Get("username"), 64)
		hub.Register(client)
		go client.WriteMessage()
		go client.ReadMessage(hub)
	}))
	t.Cleanup(srv.Close)

	return srv, hub
}

func dialClient(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

type testFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func sendFrame(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	if err := conn.WriteJSON(WSMessage{Event: event, Data: data}); err != nil {
		t.Fatalf("write %s: %v", event, err)
	}
}

func recvFrame(t *testing.T, conn *websocket.Conn) testFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f testFrame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	return f
}

func expectEvent(t *testing.T, conn *websocket.Conn, event string) testFrame {
	t.Helper()
	f := recvFrame(t, conn)
	if f.Event != event {
		t.Fatalf("expected event %q, got %q (data %s)", event, f.Event, f.Data)
	}
	return f
}

func decodeData[T any](t *testing.T, f testFrame) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(f.Data, &v); err != nil {
		t.Fatalf("decode %s payload: %v", f.Event, err)
	}
	return v
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

// joinPair joins two fresh connections to roomID and returns them with
// their server-assigned ids, learned from the bootstrap messages.
func joinPair(t *testing.T, srv *httptest.Server, roomID string) (a, b *websocket.Conn, aID, bID string) {
	t.Helper()

	a = dialClient(t, srv)
	sendFrame(t, a, JoinRoomEvent, JoinRoomPayload{RoomID: roomID})
	users := decodeData[[]string](t, expectEvent(t, a, AllUsersEvent))
	if len(users) != 0 {
		t.Fatalf("first joiner got peers %v", users)
	}

	b = dialClient(t, srv)
	sendFrame(t, b, JoinRoomEvent, JoinRoomPayload{RoomID: roomID})
	users = decodeData[[]string](t, expectEvent(t, b, AllUsersEvent))
	if len(users) != 1 {
		t.Fatalf("second joiner got peers %v", users)
	}
	aID = users[0]

	joined := decodeData[UserJoinedPayload](t, expectEvent(t, a, UserJoinedEvent))
	bID = joined.CallerID
	if bID == "" || bID == aID {
		t.Fatalf("bad callerId in user-joined: %q", bID)
	}

	return a, b, aID, bID
}

func TestJoinBootstrapAndCapacity(t *testing.T) {
	srv, hub := newTestServer(t, 2)

	_, _, aID, bID := joinPair(t, srv, "r1")

	// Third joiner is refused and nothing changes for the room.
	c := dialClient(t, srv)
	sendFrame(t, c, JoinRoomEvent, JoinRoomPayload{RoomID: "r1"})
	expectEvent(t, c, RoomFullEvent)

	members := hub.Directory().Members("r1")
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %v", members)
	}
	seen := map[string]bool{members[0]: true, members[1]: true}
	if !seen[aID] || !seen[bID] {
		t.Fatalf("directory %v does not match ids %s/%s", members, aID, bID)
	}
}

func TestOfferAnswerRelay(t *testing.T) {
	srv, _ := newTestServer(t, 2)
	a, b, aID, bID := joinPair(t, srv, "r1")

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	sendFrame(t, b, SendingSignalEvent, SendingSignalPayload{
		UserToSignal: aID,
		CallerID:     "spoofed", // must be overwritten with the real sender
		Signal:       offer,
	})

	got := decodeData[ReceivingSignalPayload](t, expectEvent(t, a, ReceivingSignalEvent))
	if got.CallerID != bID {
		t.Fatalf("relayed callerId %q, want %q", got.CallerID, bID)
	}
	if string(got.Signal) != string(offer) {
		t.Fatalf("signal mutated in flight: %s", got.Signal)
	}

	answer := json.RawMessage(`{"type":"answer","sdp":"v=0"}`)
	sendFrame(t, a, ReturningSignalEvent, ReturningSignalPayload{CallerID: bID, Signal: answer})

	ret := decodeData[ReceivingReturnedSignalPayload](t, expectEvent(t, b, ReceivingReturnedSignalEvent))
	if ret.ID != aID {
		t.Fatalf("returned signal id %q, want %q", ret.ID, aID)
	}
	if string(ret.Signal) != string(answer) {
		t.Fatalf("answer mutated in flight: %s", ret.Signal)
	}

	// Candidates trickle independently, after the answer is done.
	candidate := json.RawMessage(`{"candidate":"candidate:1 1 udp 2122260223 10.0.0.1 50000 typ host"}`)
	sendFrame(t, b, SendingSignalEvent, SendingSignalPayload{UserToSignal: aID, Signal: candidate})
	got = decodeData[ReceivingSignalPayload](t, expectEvent(t, a, ReceivingSignalEvent))
	if string(got.Signal) != string(candidate) {
		t.Fatalf("candidate mutated in flight: %s", got.Signal)
	}
}

func TestRelayDropsUnknownTarget(t *testing.T) {
	srv, _ := newTestServer(t, 2)
	a, b, _, bID := joinPair(t, srv, "r1")

	sendFrame(t, b, SendingSignalEvent, SendingSignalPayload{
		UserToSignal: "no-such-connection",
		Signal:       json.RawMessage(`{"type":"offer"}`),
	})

	// The envelope is dropped, not misdelivered: the next thing a sees
	// from b is the probe below.
	sendFrame(t, b, ChatMessageEvent, ChatMessagePayload{Message: "probe"})
	msg := decodeData[ChatMessagePayload](t, expectEvent(t, a, ChatMessageEvent))
	if msg.Message != "probe" || msg.Sender != bID {
		t.Fatalf("unexpected probe payload: %+v", msg)
	}
}

func TestMediaStateFanOut(t *testing.T) {
	srv, _ := newTestServer(t, 2)
	a, b, aID, _ := joinPair(t, srv, "r1")

	sendFrame(t, a, ToggleCameraEvent, ToggleCameraPayload{CameraEnabled: false, CallerID: "ignored"})
	cam := decodeData[ToggleCameraPayload](t, expectEvent(t, b, ToggleCameraEvent))
	if cam.CameraEnabled || cam.CallerID != aID {
		t.Fatalf("unexpected toggle-camera payload: %+v", cam)
	}

	sendFrame(t, a, ToggleMicEvent, ToggleMicPayload{MicEnabled: false})
	mic := decodeData[ToggleMicPayload](t, expectEvent(t, b, ToggleMicEvent))
	if mic.MicEnabled || mic.CallerID != aID {
		t.Fatalf("unexpected toggle-mic payload: %+v", mic)
	}

	sendFrame(t, a, RecordingStatusEvent, RecordingStatusPayload{IsRecording: true})
	rec := decodeData[RecordingStatusPayload](t, expectEvent(t, b, RecordingStatusEvent))
	if !rec.IsRecording {
		t.Fatalf("unexpected recording-status payload: %+v", rec)
	}

	// The sender does not receive its own events: the next frame a sees
	// is b's probe, not any of the above.
	sendFrame(t, b, ChatMessageEvent, ChatMessagePayload{Message: "probe"})
	msg := decodeData[ChatMessagePayload](t, expectEvent(t, a, ChatMessageEvent))
	if msg.Message != "probe" {
		t.Fatalf("unexpected frame for sender: %+v", msg)
	}
}

func TestDuplicateJoinIsIdempotent(t *testing.T) {
	srv, hub := newTestServer(t, 2)
	a, b, _, _ := joinPair(t, srv, "r1")

	// Rejoin returns the original (empty) snapshot and notifies nobody.
	sendFrame(t, a, JoinRoomEvent, JoinRoomPayload{RoomID: "r1"})
	users := decodeData[[]string](t, expectEvent(t, a, AllUsersEvent))
	if len(users) != 0 {
		t.Fatalf("rejoin snapshot changed: %v", users)
	}

	if got := hub.Directory().Members("r1"); len(got) != 2 {
		t.Fatalf("duplicate membership after rejoin: %v", got)
	}

	// b must not have seen a second user-joined: its next frame is the
	// probe a sends now.
	sendFrame(t, a, ChatMessageEvent, ChatMessagePayload{Message: "probe"})
	if f := recvFrame(t, b); f.Event != ChatMessageEvent {
		t.Fatalf("b received %q after rejoin, want chat probe", f.Event)
	}
}

func TestDisconnectCleanup(t *testing.T) {
	srv, hub := newTestServer(t, 2)
	a, b, aID, bID := joinPair(t, srv, "r1")

	a.Close()

	gone := decodeData[UserDisconnectedPayload](t, expectEvent(t, b, UserDisconnectedEvent))
	if gone.SocketID != aID {
		t.Fatalf("user-disconnected for %q, want %q", gone.SocketID, aID)
	}

	waitFor(t, func() bool {
		m := hub.Directory().Members("r1")
		return len(m) == 1 && m[0] == bID
	}, "departed member still in directory")

	b.Close()
	waitFor(t, func() bool { return hub.Directory().Rooms() == 0 }, "empty room not removed")
}

func TestVoluntaryDisconnect(t *testing.T) {
	srv, hub := newTestServer(t, 2)
	a, b, aID, _ := joinPair(t, srv, "r1")

	sendFrame(t, a, UserDisconnectedEvent, UserDisconnectedPayload{SocketID: aID})

	gone := decodeData[UserDisconnectedPayload](t, expectEvent(t, b, UserDisconnectedEvent))
	if gone.SocketID != aID {
		t.Fatalf("user-disconnected for %q, want %q", gone.SocketID, aID)
	}

	waitFor(t, func() bool { return len(hub.Directory().Members("r1")) == 1 }, "voluntary leave not applied")

	// The server closes the leaver's transport.
	_ = a.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := a.ReadMessage(); err == nil {
		t.Fatal("expected closed connection for voluntary leaver")
	}
}

func TestMalformedFramesAreDroppedNotFatal(t *testing.T) {
	srv, hub := newTestServer(t, 2)
	a, b, _, bID := joinPair(t, srv, "r1")

	// None of these may kill the connection or reach anyone: a frame that
	// is not JSON at all, an event with no handler, a signal with no
	// target, and a join with an undecodable payload.
	if err := b.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write raw frame: %v", err)
	}
	sendFrame(t, b, "mystery-event", nil)
	sendFrame(t, b, SendingSignalEvent, SendingSignalPayload{})
	sendFrame(t, b, JoinRoomEvent, json.RawMessage(`42`))

	// The read loop is still alive: the probe goes through, and it is the
	// only thing a receives.
	sendFrame(t, b, ChatMessageEvent, ChatMessagePayload{Message: "probe"})
	msg := decodeData[ChatMessagePayload](t, expectEvent(t, a, ChatMessageEvent))
	if msg.Message != "probe" || msg.Sender != bID {
		t.Fatalf("unexpected probe payload: %+v", msg)
	}

	if got := hub.Directory().Members("r1"); len(got) != 2 {
		t.Fatalf("garbage frames mutated membership: %v", got)
	}
}

func TestSlowClientDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(NewRoomDirectory(2), zap.NewNop().Sugar(), []string{"*"})

	// No pumps: the buffer never drains, as with a stalled client.
	c := NewClient(nil, "conn-slow", "", 1)
	hub.Register(c)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			hub.send(c, NewRecordingStatus(true))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("send blocked on a full buffer")
	}

	if got := len(c.Message); got != 1 {
		t.Fatalf("buffered %d messages, want 1", got)
	}
}

func TestRoomsAreIndependent(t *testing.T) {
	srv, hub := newTestServer(t, 2)

	_, _, _, _ = joinPair(t, srv, "r1")
	_, _, _, _ = joinPair(t, srv, "r2")

	if hub.Directory().Rooms() != 2 {
		t.Fatalf("expected 2 rooms, got %d", hub.Directory().Rooms())
	}
	if len(hub.Directory().Members("r1")) != 2 || len(hub.Directory().Members("r2")) != 2 {
		t.Fatal("cross-room membership leak")
	}
}
