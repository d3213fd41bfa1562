package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	uuid "github.com/google/uuid"
	websocket "github.com/gorilla/websocket"
	zap "go.uber.org/zap"

	display "github.com/capture-tools/zoomd/internal/display"
	logger "github.com/capture-tools/zoomd/internal/logger"
	zoom "github.com/capture-tools/zoomd/internal/zoom"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage represents a WebSocket control message
type WSMessage struct {
	Type    string          `json:"type"`
	Profile string          `json:"profile,omitempty"`
	X       float64         `json:"x,omitempty"`
	Y       float64         `json:"y,omitempty"`
	Error   string          `json:"error,omitempty"`
	Time    string          `json:"time,omitempty"`
	State   *zoom.StateInfo `json:"state,omitempty"`
	Crop    *display.Region `json:"crop,omitempty"`
}

// wsClient is one connected control client. Writes are serialized per
// connection; gorilla connections do not allow concurrent writers.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(msg WSMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// ControlServer exposes the command queue over WebSocket for remote
// control and streams state changes to connected clients.
//
// The state machine itself is owned by the engine tick loop; the server
// never reads it directly. It answers state queries from the last
// snapshot published via BroadcastState.
type ControlServer struct {
	addr  string
	queue *zoom.Queue

	server *http.Server

	stateMu sync.RWMutex
	state   zoom.StateInfo

	mu      sync.RWMutex
	clients map[string]*wsClient
}

// NewControlServer creates a control server listening on host:port.
// initial seeds the state snapshot served until the engine publishes
// its first change.
func NewControlServer(host string, port int, queue *zoom.Queue, initial zoom.StateInfo) *ControlServer {
	return &ControlServer{
		addr:    fmt.Sprintf("%s:%d", host, port),
		queue:   queue,
		state:   initial,
		clients: make(map[string]*wsClient),
	}
}

func (s *ControlServer) currentState() zoom.StateInfo {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Start runs the HTTP server until Shutdown is called. It blocks.
func (s *ControlServer) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logger.Info("control server started", "addr", s.addr)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("control server error: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server and disconnects all clients
func (s *ControlServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler without starting a listener
func (s *ControlServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

func (s *ControlServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	state := s.currentState()
	if err := json.NewEncoder(w).Encode(state); err != nil {
		logger.Error("failed to encode health response", "error", err)
	}
}

func (s *ControlServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("failed to upgrade to WebSocket", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := &wsClient{conn: conn}

	s.mu.Lock()
	s.clients[clientID] = client
	s.mu.Unlock()

	ctx := logger.With(r.Context(), zap.String("client_id", clientID))
	logger.L(ctx).Info("control client connected", zap.String("remote", r.RemoteAddr))

	defer func() {
		s.mu.Lock()
		delete(s.clients, clientID)
		s.mu.Unlock()

		if err := conn.Close(); err != nil {
			logger.L(ctx).Warn("failed to close WebSocket connection", zap.Error(err))
		}
		logger.L(ctx).Info("control client disconnected")
	}()

	// Initial state so the client can render without waiting for a change.
	state := s.currentState()
	s.sendMessage(client, WSMessage{Type: "state", State: &state})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.L(ctx).Warn("failed to read WebSocket message", zap.Error(err))
			}
			return
		}

		s.handleMessage(client, msg)
	}
}

func (s *ControlServer) handleMessage(client *wsClient, msg WSMessage) {
	switch msg.Type {
	case "toggle_zoom":
		s.push(client, zoom.Command{Type: zoom.CmdToggleZoom})
	case "toggle_follow":
		s.push(client, zoom.Command{Type: zoom.CmdToggleFollow})
	case "set_profile":
		if msg.Profile == "" {
			s.sendError(client, "profile name required")
			return
		}
		s.push(client, zoom.Command{Type: zoom.CmdSetProfile, Profile: msg.Profile})
	case "mouse_position":
		s.push(client, zoom.Command{Type: zoom.CmdSetMouseOverride, X: msg.X, Y: msg.Y})
	case "clear_mouse":
		s.push(client, zoom.Command{Type: zoom.CmdClearMouseOverride})
	case "get_state":
		state := s.currentState()
		s.sendMessage(client, WSMessage{Type: "state", State: &state})
	case "ping":
		s.sendMessage(client, WSMessage{Type: "pong", Time: time.Now().UTC().Format(time.RFC3339)})
	default:
		s.sendError(client, fmt.Sprintf("unknown message type: %s", msg.Type))
	}
}

func (s *ControlServer) push(client *wsClient, cmd zoom.Command) {
	if !s.queue.Push(cmd) {
		s.sendError(client, "command queue full")
	}
}

// BroadcastState records the snapshot as the server's current state and
// sends it to every connected client. The engine calls this from its
// tick loop whenever the state machine changes.
func (s *ControlServer) BroadcastState(state zoom.StateInfo) {
	s.stateMu.Lock()
	s.state = state
	s.stateMu.Unlock()

	s.mu.RLock()
	clients := make([]*wsClient, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	msg := WSMessage{Type: "state", State: &state}
	for _, c := range clients {
		if err := c.write(msg); err != nil {
			logger.Warn("failed to broadcast state", "error", err)
		}
	}
}

// BroadcastCrop streams one crop rectangle to every connected client.
// Crops change every animation tick, so this is the high-volume path.
func (s *ControlServer) BroadcastCrop(crop display.Region) {
	s.mu.RLock()
	clients := make([]*wsClient, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	msg := WSMessage{Type: "crop", Crop: &crop}
	for _, c := range clients {
		if err := c.write(msg); err != nil {
			logger.Debug("failed to broadcast crop", "error", err)
		}
	}
}

// ClientCount returns the number of connected control clients
func (s *ControlServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *ControlServer) sendMessage(client *wsClient, msg WSMessage) {
	if err := client.write(msg); err != nil {
		logger.Error("failed to send WebSocket message", "error", err)
	}
}

func (s *ControlServer) sendError(client *wsClient, errMsg string) {
	s.sendMessage(client, WSMessage{
		Type:  "error",
		Error: errMsg,
		Time:  time.Now().UTC().Format(time.RFC3339),
	})
}
