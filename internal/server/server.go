package server

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokerparty/internal/ident"
	"github.com/lox/pokerparty/internal/randutil"
)

// Server accepts WebSocket connections and routes each one into a room.
// Rooms are created on demand and torn down when their last participant
// leaves; each room runs on its own goroutine with its own RNG, so rooms
// are fully independent of each other.
type Server struct {
	cfg      *Config
	seed     int64
	clock    quartz.Clock
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu    sync.Mutex
	rooms map[string]*roomHandle

	ctx    context.Context
	cancel context.CancelFunc
}

// roomHandle pairs a room with the cancel func for its goroutine
type roomHandle struct {
	room   *Room
	cancel context.CancelFunc
}

// NewServer creates a server. The seed makes every room's shuffles
// reproducible: each room derives its own RNG from the seed and its id.
func NewServer(cfg *Config, seed int64, clock quartz.Clock, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		cfg:   cfg,
		seed:  seed,
		clock: clock,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("server"),
		rooms:  make(map[string]*roomHandle),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start runs the HTTP server until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	srv := &http.Server{
		Addr:    s.cfg.ListenAddress(),
		Handler: mux,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting WebSocket server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Stop tears down all rooms
func (s *Server) Stop() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, handle := range s.rooms {
		handle.cancel()
		delete(s.rooms, id)
	}
}

// handleWebSocket upgrades the connection and seats it in the requested
// room. Identity comes from the name query parameter; anonymous
// connections get a generated id.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		roomID = "lobby"
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "guest-" + ident.New()[:8]
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger)

	// Seat the connection before the pumps start so no inbound action can
	// arrive ahead of its UserEntered event. The room can shut down between
	// lookup and seating if its last occupant leaves, so retry against a
	// fresh room when that happens.
	for {
		room := s.roomFor(roomID)
		select {
		case room.join <- joinRequest{conn: client, name: name}:
			client.room = room
		case <-room.done:
			continue
		case <-s.ctx.Done():
			_ = client.Close()
			return
		}
		break
	}

	client.Start()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// roomFor returns the room with the given id, creating it if needed
func (s *Server) roomFor(id string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	if handle, ok := s.rooms[id]; ok {
		return handle.room
	}

	rng := randutil.New(s.seed ^ hashRoomID(id))
	room := NewRoom(id, s.clock, rng, s.cfg.Game, s.logger, s.removeRoom)

	ctx, cancel := context.WithCancel(s.ctx)
	s.rooms[id] = &roomHandle{room: room, cancel: cancel}
	go room.Run(ctx)

	return room
}

// removeRoom is called by a room when its last participant leaves
func (s *Server) removeRoom(room *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.rooms[room.id]
	if !ok || handle.room != room {
		return
	}
	handle.cancel()
	delete(s.rooms, room.id)
	s.logger.Info("Room removed", "room", room.id)
}

func hashRoomID(id string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return int64(h.Sum64())
}
