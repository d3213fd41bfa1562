package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	websocket "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	display "github.com/capture-tools/zoomd/internal/display"
	zoom "github.com/capture-tools/zoomd/internal/zoom"
)

func testState() zoom.StateInfo {
	return zoom.StateInfo{
		Mode:       "idle",
		Profile:    "standard",
		ZoomFactor: 2.0,
		CropWidth:  1920,
		CropHeight: 1080,
	}
}

func dialControl(t *testing.T, s *ControlServer) (*websocket.Conn, func()) {
	t.Helper()
	ts := httptest.NewServer(s.Handler())

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	return conn, func() {
		_ = conn.Close()
		ts.Close()
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestControlServerSendsInitialState(t *testing.T) {
	queue := zoom.NewQueue(8)
	s := NewControlServer("127.0.0.1", 0, queue, testState())
	conn, cleanup := dialControl(t, s)
	defer cleanup()

	msg := readMessage(t, conn)
	assert.Equal(t, "state", msg.Type)
	require.NotNil(t, msg.State)
	assert.Equal(t, "idle", msg.State.Mode)
	assert.Equal(t, 1920, msg.State.CropWidth)
}

func TestControlServerEnqueuesCommands(t *testing.T) {
	queue := zoom.NewQueue(8)
	s := NewControlServer("127.0.0.1", 0, queue, testState())
	conn, cleanup := dialControl(t, s)
	defer cleanup()

	readMessage(t, conn) // initial state

	require.NoError(t, conn.WriteJSON(WSMessage{Type: "toggle_zoom"}))
	require.NoError(t, conn.WriteJSON(WSMessage{Type: "set_profile", Profile: "wide"}))
	require.NoError(t, conn.WriteJSON(WSMessage{Type: "mouse_position", X: 320, Y: 240}))
	require.NoError(t, conn.WriteJSON(WSMessage{Type: "clear_mouse"}))
	require.NoError(t, conn.WriteJSON(WSMessage{Type: "toggle_follow"}))

	var cmds []zoom.Command
	require.Eventually(t, func() bool {
		cmds = append(cmds, queue.Drain()...)
		return len(cmds) == 5
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, zoom.CmdToggleZoom, cmds[0].Type)
	assert.Equal(t, zoom.CmdSetProfile, cmds[1].Type)
	assert.Equal(t, "wide", cmds[1].Profile)
	assert.Equal(t, zoom.CmdSetMouseOverride, cmds[2].Type)
	assert.Equal(t, 320.0, cmds[2].X)
	assert.Equal(t, 240.0, cmds[2].Y)
	assert.Equal(t, zoom.CmdClearMouseOverride, cmds[3].Type)
	assert.Equal(t, zoom.CmdToggleFollow, cmds[4].Type)
}

func TestControlServerGetStateAndPing(t *testing.T) {
	queue := zoom.NewQueue(8)
	s := NewControlServer("127.0.0.1", 0, queue, testState())
	conn, cleanup := dialControl(t, s)
	defer cleanup()

	readMessage(t, conn) // initial state

	require.NoError(t, conn.WriteJSON(WSMessage{Type: "get_state"}))
	msg := readMessage(t, conn)
	assert.Equal(t, "state", msg.Type)
	require.NotNil(t, msg.State)
	assert.Equal(t, "standard", msg.State.Profile)

	require.NoError(t, conn.WriteJSON(WSMessage{Type: "ping"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "pong", msg.Type)
	assert.NotEmpty(t, msg.Time)
}

func TestControlServerRejectsUnknownType(t *testing.T) {
	queue := zoom.NewQueue(8)
	s := NewControlServer("127.0.0.1", 0, queue, testState())
	conn, cleanup := dialControl(t, s)
	defer cleanup()

	readMessage(t, conn) // initial state

	require.NoError(t, conn.WriteJSON(WSMessage{Type: "frobnicate"}))
	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Error, "unknown message type")

	require.NoError(t, conn.WriteJSON(WSMessage{Type: "set_profile"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Error, "profile name required")

	assert.Empty(t, queue.Drain())
}

func TestControlServerBroadcastCrop(t *testing.T) {
	queue := zoom.NewQueue(8)
	s := NewControlServer("127.0.0.1", 0, queue, testState())
	conn, cleanup := dialControl(t, s)
	defer cleanup()

	readMessage(t, conn) // initial state

	require.Eventually(t, func() bool {
		return s.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	s.BroadcastCrop(display.Region{X: 480, Y: 270, Width: 960, Height: 540})

	msg := readMessage(t, conn)
	assert.Equal(t, "crop", msg.Type)
	require.NotNil(t, msg.Crop)
	assert.Equal(t, 480, msg.Crop.X)
	assert.Equal(t, 960, msg.Crop.Width)
}

func TestControlServerBroadcastState(t *testing.T) {
	queue := zoom.NewQueue(8)
	s := NewControlServer("127.0.0.1", 0, queue, testState())
	conn, cleanup := dialControl(t, s)
	defer cleanup()

	readMessage(t, conn) // initial state

	require.Eventually(t, func() bool {
		return s.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	zoomed := zoom.StateInfo{Mode: "zoomed", Profile: "standard", CropWidth: 960, CropHeight: 540}
	s.BroadcastState(zoomed)

	msg := readMessage(t, conn)
	assert.Equal(t, "state", msg.Type)
	require.NotNil(t, msg.State)
	assert.Equal(t, "zoomed", msg.State.Mode)
	assert.Equal(t, 960, msg.State.CropWidth)
}

func TestControlServerServesFromLatestSnapshot(t *testing.T) {
	// State queries answer from the snapshot published by the engine loop,
	// never by reaching into the state machine.
	queue := zoom.NewQueue(8)
	s := NewControlServer("127.0.0.1", 0, queue, testState())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	s.BroadcastState(zoom.StateInfo{Mode: "zoomed", Profile: "standard", CropWidth: 960, CropHeight: 540})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	msg := readMessage(t, conn)
	require.NotNil(t, msg.State)
	assert.Equal(t, "zoomed", msg.State.Mode, "initial send reflects the latest broadcast")

	require.NoError(t, conn.WriteJSON(WSMessage{Type: "get_state"}))
	msg = readMessage(t, conn)
	require.NotNil(t, msg.State)
	assert.Equal(t, "zoomed", msg.State.Mode)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var health zoom.StateInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "zoomed", health.Mode)
	assert.Equal(t, 960, health.CropWidth)
}
