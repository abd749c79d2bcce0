// ABOUTME: Websocket remote control surface for the deck
// ABOUTME: Accepts gestures from clients and pushes deck state to all of them
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Resonate-Protocol/cuedeck/internal/discovery"
	"github.com/Resonate-Protocol/cuedeck/internal/transport"
	"github.com/Resonate-Protocol/cuedeck/internal/version"
)

const (
	// Path is where the websocket endpoint is served
	Path = "/cuedeck"

	// PushInterval is how often state is pushed while the deck is active
	PushInterval = 100 * time.Millisecond

	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
	sendBuffer    = 32
)

// Deck is the transport as seen by remote clients
type Deck interface {
	Apply(g transport.Gesture) error
	Snapshot() transport.Snapshot
}

// Config configures the remote server
type Config struct {
	// Port to listen on; 0 picks a free port
	Port int

	// Name identifies the deck in hello messages and mDNS
	Name string

	// EnableMDNS advertises the endpoint as _cuedeck._tcp
	EnableMDNS bool

	Debug bool
}

// Server serves the remote surface
type Server struct {
	config   Config
	serverID string
	deck     Deck

	upgrader   websocket.Upgrader
	mux        *http.ServeMux
	httpServer *http.Server
	listener   net.Listener
	advertiser *discovery.Advertiser

	clients   map[*client]struct{}
	clientsMu sync.RWMutex

	lastMu sync.Mutex
	last   State
	sent   bool

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// client is one connected websocket (internal)
type client struct {
	conn     *websocket.Conn
	addr     string
	sendChan chan interface{}
}

// NewServer creates a remote server for deck
func NewServer(deck Deck, config Config) (*Server, error) {
	if deck == nil {
		return nil, errors.New("deck is required")
	}
	if config.Name == "" {
		config.Name = version.Product
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		deck:     deck,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Local network control surface; any origin may connect
				return true
			},
		},
		clients:  make(map[*client]struct{}),
		stopChan: make(chan struct{}),
	}
	s.mux.HandleFunc(Path, s.handleWebSocket)

	return s, nil
}

// ID returns the server id sent in hello messages
func (s *Server) ID() string {
	return s.serverID
}

// Handler returns the HTTP handler serving the websocket endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Addr returns the listening address once started
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start listens, serves and pushes state in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = ln
	s.httpServer = &http.Server{Handler: s.mux}

	log.Printf("Remote surface listening on %s%s (ID: %s)", ln.Addr(), Path, s.serverID)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Remote HTTP server error: %v", err)
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.pushLoop()
	}()

	if s.config.EnableMDNS {
		port := ln.Addr().(*net.TCPAddr).Port
		s.advertiser = discovery.NewAdvertiser(discovery.Config{Name: s.config.Name, Port: port, Path: Path})
		if err := s.advertiser.Start(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		}
	}

	return nil
}

// Stop shuts the server down and disconnects every client
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)

		if s.advertiser != nil {
			s.advertiser.Stop()
		}

		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.httpServer.Shutdown(ctx); err != nil {
				log.Printf("Remote HTTP shutdown error: %v", err)
			}
		}

		s.clientsMu.RLock()
		for c := range s.clients {
			c.conn.Close()
		}
		s.clientsMu.RUnlock()

		s.wg.Wait()
	})
}

// Clients returns the number of connected clients
func (s *Server) Clients() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

func (s *Server) pushLoop() {
	ticker := time.NewTicker(PushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Publish()
		case <-s.stopChan:
			return
		}
	}
}

// Publish sends the current state to every client if it changed or the
// deck is active
func (s *Server) Publish() {
	state := StateFromSnapshot(s.deck.Snapshot())

	s.lastMu.Lock()
	changed := !s.sent || state != s.last
	s.last = state
	s.sent = true
	s.lastMu.Unlock()

	if !changed && !state.Active() {
		return
	}
	s.broadcast(Message{Type: TypeState, Payload: state})
}

func (s *Server) broadcast(msg Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for c := range s.clients {
		if err := s.send(c, msg); err != nil && s.config.Debug {
			log.Printf("Dropping state for %s: %v", c.addr, err)
		}
	}
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("Remote connected from %s", r.RemoteAddr)
	s.handleConnection(conn, r.RemoteAddr)
}

// handleConnection manages a client connection
func (s *Server) handleConnection(conn *websocket.Conn, addr string) {
	defer conn.Close()

	select {
	case <-s.stopChan:
		return
	default:
	}

	c := &client{conn: conn, addr: addr, sendChan: make(chan interface{}, sendBuffer)}

	hello := Hello{
		ServerID:     s.serverID,
		Name:         s.config.Name,
		Product:      version.Product,
		Manufacturer: version.Manufacturer,
		Version:      version.Version,
	}
	s.send(c, Message{Type: TypeHello, Payload: hello})
	s.send(c, Message{Type: TypeState, Payload: StateFromSnapshot(s.deck.Snapshot())})

	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()

	done := make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		s.clientWriter(c)
	}()

	defer func() {
		s.removeClient(c)
		<-done
		log.Printf("Remote disconnected: %s", addr)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		s.handleClientMessage(c, data)
	}
}

// clientWriter sends queued messages and keeps the connection alive
func (s *Server) clientWriter(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.sendChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}

// handleClientMessage processes messages from clients
func (s *Server) handleClientMessage(c *client, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		s.reject(c, fmt.Errorf("malformed message: %w", err))
		return
	}

	switch msg.Type {
	case TypeGesture:
		var g transport.Gesture
		if err := decodePayload(msg.Payload, &g); err != nil {
			s.reject(c, err)
			return
		}
		if s.config.Debug {
			log.Printf("Remote %s: %s", c.addr, g)
		}
		if err := s.deck.Apply(g); err != nil {
			s.reject(c, err)
			return
		}
		s.Publish()
	default:
		s.reject(c, fmt.Errorf("unknown message type %q", msg.Type))
	}
}

func (s *Server) reject(c *client, err error) {
	if s.config.Debug {
		log.Printf("Rejecting message from %s: %v", c.addr, err)
	}
	s.send(c, Message{Type: TypeError, Payload: Error{Message: err.Error()}})
}

// send queues msg without blocking. Callers must hold clientsMu for reading
// or be the connection's own handler goroutine.
func (s *Server) send(c *client, msg Message) error {
	select {
	case c.sendChan <- msg:
		return nil
	default:
		return errors.New("client send buffer full")
	}
}

// removeClient removes a client
func (s *Server) removeClient(c *client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	delete(s.clients, c)
	close(c.sendChan)
}
