package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lox/pokerrooms/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mem := store.NewMemory()
	require.NoError(t, mem.CreateRoom(ctx, store.Room{ID: "42", Name: "The Answer", BuyIn: 100}))
	writer := store.NewWriter(mem, store.WithWriterLogger(quietLogger()))
	go func() { _ = writer.Run(ctx) }()

	registry := NewRegistry(mem, writer, quietLogger())
	srv := NewServer("127.0.0.1:0", NewGateway(registry, quietLogger()), writer, quietLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func writeMessage(t *testing.T, conn *websocket.Conn, mt MessageType, data any) {
	t.Helper()
	msg, err := NewMessage(mt, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

// readUntil reads messages until one of type mt arrives and decodes it into v
func readUntil(t *testing.T, conn *websocket.Conn, mt MessageType, v any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == mt {
			if v != nil {
				require.NoError(t, json.Unmarshal(msg.Data, v))
			}
			return
		}
	}
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestServerWebSocketHand(t *testing.T) {
	t.Parallel()
	srv, ts := newTestServer(t)

	alice := dial(t, ts)
	bob := dial(t, ts)

	writeMessage(t, alice, MessageTypeJoin, JoinData{RoomID: "42", Name: "alice"})
	var seated SeatedData
	readUntil(t, alice, MessageTypeSeated, &seated)
	assert.Equal(t, "The Answer", seated.RoomName)

	writeMessage(t, bob, MessageTypeJoin, JoinData{RoomID: "42", Name: "bob"})
	readUntil(t, bob, MessageTypeSeated, nil)
	var joined PlayerJoinedData
	readUntil(t, alice, MessageTypePlayerJoined, &joined)
	assert.Equal(t, "bob", joined.Name)

	writeMessage(t, alice, MessageTypeReady, nil)
	writeMessage(t, bob, MessageTypeReady, nil)

	var dealt DealtData
	readUntil(t, bob, MessageTypeDealt, &dealt)
	assert.Len(t, dealt.HoleCards, 2)

	amount := 10
	writeMessage(t, alice, MessageTypeBet, BetData{Amount: &amount})
	readUntil(t, bob, MessageTypeBetAccepted, nil)
	writeMessage(t, bob, MessageTypeBet, BetData{Amount: &amount})

	var flop CommunityDealtData
	readUntil(t, alice, MessageTypeCommunityDealt, &flop)
	assert.Len(t, flop.Cards, 3)

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var rooms RoomsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
	require.Len(t, rooms.Rooms, 1)
	assert.Equal(t, "42", rooms.Rooms[0].RoomID)
	assert.Equal(t, 45, rooms.Rooms[0].DeckSize)
	assert.Equal(t, 20, rooms.Rooms[0].Pot)
	require.NotNil(t, rooms.Writer)
}

func TestServerRejectsMalformedJSON(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var data ErrorData
	readUntil(t, conn, MessageTypeError, &data)
	assert.Equal(t, ErrorCodeInvalidMessage, data.Code)

	// The connection survives a bad frame.
	writeMessage(t, conn, MessageTypeJoin, JoinData{RoomID: "42", Name: "alice"})
	readUntil(t, conn, MessageTypeSeated, nil)
}

func TestServerDisconnectFreesSeat(t *testing.T) {
	t.Parallel()
	srv, ts := newTestServer(t)

	alice := dial(t, ts)
	writeMessage(t, alice, MessageTypeJoin, JoinData{RoomID: "42", Name: "alice"})
	readUntil(t, alice, MessageTypeSeated, nil)
	require.NoError(t, alice.Close())

	require.Eventually(t, func() bool {
		return srv.gateway.Registry().Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
