package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/store"
)

// Server serves the room gateway over WebSockets
type Server struct {
	addr     string
	gateway  *Gateway
	writer   *store.Writer
	upgrader websocket.Upgrader
	logger   *log.Logger
	httpSrv  *http.Server

	mu          sync.Mutex
	connections map[*Connection]struct{}
}

// NewServer creates a server listening on addr. writer may be nil, in
// which case /rooms omits persistence stats.
func NewServer(addr string, gateway *Gateway, writer *store.Writer, logger *log.Logger) *Server {
	s := &Server{
		addr:    addr,
		gateway: gateway,
		writer:  writer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Clients are bots and local tools; origin is not checked.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]struct{}),
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)
	r.Get("/rooms", s.handleRooms)
	return r
}

// ListenAndServe serves until Shutdown is called
func (s *Server) ListenAndServe() error {
	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes every open connection
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpSrv.Shutdown(ctx)

	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
	return err
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.gateway)
	s.mu.Lock()
	s.connections[client] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Debug("Client connected", "total", total)

	client.Start()
	go func() {
		<-client.ctx.Done()
		s.mu.Lock()
		delete(s.connections, client)
		s.mu.Unlock()
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// RoomsResponse is the /rooms payload
type RoomsResponse struct {
	Rooms  []game.Snapshot    `json:"rooms"`
	Writer *store.WriterStats `json:"writer,omitempty"`
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	resp := RoomsResponse{Rooms: s.gateway.Registry().Snapshots()}
	if s.writer != nil {
		stats := s.writer.Stats()
		resp.Writer = &stats
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Debug("Failed to write rooms response", "error", err)
	}
}
