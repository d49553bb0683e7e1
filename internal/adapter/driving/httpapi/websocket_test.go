package httpapi_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerline/peerline/internal/core/domain"
)

type dropNotifier struct{}

func (dropNotifier) Notify(context.Context, domain.UserID, domain.CallInvite) error {
	return nil
}

func wsURL(serverURL, query string) string {
	url := strings.Replace(serverURL, "http", "ws", 1) + "/ws"
	if query != "" {
		url += "?" + query
	}
	return url
}

func dial(t *testing.T, env *testEnv, query string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(env.server.URL, query), nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) domain.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var ev domain.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

// connectPeer dials and consumes the welcome event, returning the
// connection together with its server-assigned id.
func connectPeer(t *testing.T, env *testEnv) (*websocket.Conn, domain.ConnID) {
	t.Helper()
	conn := dial(t, env, "")

	welcome := readEvent(t, conn)
	require.Equal(t, domain.EventWelcome, welcome.Event)
	require.NotEmpty(t, welcome.You)
	return conn, welcome.You
}

func sendEvent(t *testing.T, conn *websocket.Conn, in domain.Inbound) {
	t.Helper()
	conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.WriteJSON(in))
}

func TestWS_CallLifecycle(t *testing.T) {
	env := newTestEnv(t, false)

	caller, callerID := connectPeer(t, env)
	callee, calleeID := connectPeer(t, env)

	// Caller opens the room.
	sendEvent(t, caller, domain.Inbound{Event: domain.EventJoinRoom, RoomID: "call-1"})
	ev := readEvent(t, caller)
	require.Equal(t, domain.EventJoinedRoom, ev.Event)
	assert.Equal(t, domain.RoomID("call-1"), ev.RoomID)

	// Callee joins; caller hears peer-joined.
	sendEvent(t, callee, domain.Inbound{Event: domain.EventJoinRoom, RoomID: "call-1"})
	ev = readEvent(t, callee)
	require.Equal(t, domain.EventJoinedRoom, ev.Event)

	ev = readEvent(t, caller)
	require.Equal(t, domain.EventPeerJoined, ev.Event)
	assert.Equal(t, calleeID, ev.Peer)

	// A third party is turned away.
	third, _ := connectPeer(t, env)
	sendEvent(t, third, domain.Inbound{Event: domain.EventJoinRoom, RoomID: "call-1"})
	ev = readEvent(t, third)
	assert.Equal(t, domain.EventRoomFull, ev.Event)

	// Negotiation payloads pass through untouched.
	sendEvent(t, callee, domain.Inbound{
		Event: domain.EventSignal,
		To:    callerID,
		Data:  []byte(`{"type":"answer","sdp":"v=0"}`),
	})
	ev = readEvent(t, caller)
	require.Equal(t, domain.EventSignal, ev.Event)
	assert.Equal(t, calleeID, ev.From)
	assert.JSONEq(t, `{"type":"answer","sdp":"v=0"}`, string(ev.Data))

	// Callee drops; caller hears peer-left with the id.
	callee.Close()
	ev = readEvent(t, caller)
	require.Equal(t, domain.EventPeerLeft, ev.Event)
	assert.Equal(t, calleeID, ev.Peer)
}

func TestWS_HangupAndReject(t *testing.T) {
	env := newTestEnv(t, false)

	caller, _ := connectPeer(t, env)
	callee, _ := connectPeer(t, env)

	sendEvent(t, caller, domain.Inbound{Event: domain.EventJoinRoom, RoomID: "call-2"})
	readEvent(t, caller) // joined-room
	sendEvent(t, callee, domain.Inbound{Event: domain.EventJoinRoom, RoomID: "call-2"})
	readEvent(t, callee) // joined-room
	readEvent(t, caller) // peer-joined

	sendEvent(t, callee, domain.Inbound{Event: domain.EventRejectCall, RoomID: "call-2"})
	ev := readEvent(t, caller)
	assert.Equal(t, domain.EventCallRejected, ev.Event)

	sendEvent(t, caller, domain.Inbound{Event: domain.EventHangupCall, RoomID: "call-2"})
	ev = readEvent(t, callee)
	assert.Equal(t, domain.EventPeerLeft, ev.Event)
	assert.Empty(t, ev.Peer)
}

func TestWS_BadFrameDoesNotKillConnection(t *testing.T) {
	env := newTestEnv(t, false)

	conn, _ := connectPeer(t, env)

	conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json at all")))

	// The connection survives and keeps working.
	sendEvent(t, conn, domain.Inbound{Event: domain.EventJoinRoom, RoomID: "call-3"})
	ev := readEvent(t, conn)
	assert.Equal(t, domain.EventJoinedRoom, ev.Event)
}

func TestWS_AuthRequired(t *testing.T) {
	env := newTestEnv(t, true)

	t.Run("missing token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(env.server.URL, ""), nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("bad token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(env.server.URL, "token=garbage"), nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("valid token", func(t *testing.T) {
		env.register(t, "Alice", "alice@example.com", "pw")

		resp := env.postJSON(t, "/login", map[string]string{
			"email":    "alice@example.com",
			"password": "pw",
		})
		loginBody := decodeBody(t, resp)
		token := loginBody["token"].(string)

		conn := dial(t, env, "token="+token)
		ev := readEvent(t, conn)
		assert.Equal(t, domain.EventWelcome, ev.Event)
	})
}
