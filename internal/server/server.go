// ABOUTME: Control server for a Chorus playback session
// ABOUTME: Manages WebSocket control clients, state pushes and mix downloads
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Resonate-Protocol/chorus-go/internal/discovery"
	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/Resonate-Protocol/chorus-go/pkg/playback"
	"github.com/Resonate-Protocol/chorus-go/pkg/render"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// StateInterval is how often state snapshots are pushed to clients
	StateInterval = 250 * time.Millisecond

	// controlTimeout bounds commands that wait on the audio device
	controlTimeout = 5 * time.Second
)

// Config holds server configuration
type Config struct {
	Port       int
	Name       string
	EnableMDNS bool
	Debug      bool
}

// Session is the rendered mix the server controls
type Session struct {
	// Buffer is the decoded mix bound to the engine
	Buffer *audio.Buffer

	// WAV is the encoded mix served at /mix.wav
	WAV []byte

	// Tracks carry the waveform summaries served at /waveforms
	Tracks []render.Track
}

// Server represents the Chorus control server
type Server struct {
	config   Config
	serverID string
	engine   *playback.Engine
	session  Session

	// WebSocket upgrader
	upgrader websocket.Upgrader

	// HTTP server
	httpServer *http.Server
	mux        *http.ServeMux

	// Client management
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// mDNS discovery
	mdnsManager *discovery.Manager

	// Control
	stopChan   chan struct{}
	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

// Client represents a connected control client
type Client struct {
	ID   string
	Conn *websocket.Conn

	// Output channel for messages
	sendChan chan any
}

// New creates a new server instance
func New(config Config, engine *playback.Engine, session Session) *Server {
	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		engine:   engine,
		session:  session,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					// Allow non-browser clients (no Origin header)
					return true
				}
				log.Printf("Accepting control socket from origin: %s", origin)
				return true
			},
		},
		clients:  make(map[string]*Client),
		stopChan: make(chan struct{}),
	}

	s.mux.HandleFunc("/chorus", s.handleWebSocket)
	s.mux.HandleFunc("GET /mix.wav", s.handleMix)
	s.mux.HandleFunc("GET /waveforms", s.handleWaveforms)

	return s
}

// Handler returns the HTTP handler serving the control socket and downloads
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until Stop is called or the listener fails
func (s *Server) Start() error {
	log.Printf("Server starting: %s (ID: %s)", s.config.Name, s.serverID)

	// Start mDNS advertisement if enabled
	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	// Push state snapshots
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.statePusher()
	}()

	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Control server listening on %s", addr)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-s.stopChan:
		log.Printf("Server shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
		s.Stop()
	}

	// Mark server as shutting down to reject new connections
	s.shutdownMu.Lock()
	s.isShutdown = true
	s.shutdownMu.Unlock()

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	s.closeClients()
	s.wg.Wait()
	log.Printf("Server stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// closeClients drops every control connection so readers return
func (s *Server) closeClients() {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		c.Conn.Close()
	}
}

// statePusher broadcasts engine snapshots until Stop
func (s *Server) statePusher() {
	ticker := time.NewTicker(StateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.pushState()
		}
	}
}

// pushState sends the current snapshot to every client
func (s *Server) pushState() {
	msg := map[string]any{
		"type": "state",
		"data": s.engine.GetState(),
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		trySend(c.sendChan, "state", msg)
	}
}

// ClientCount returns the number of connected control clients
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.shutdownMu.RLock()
	shutdown := s.isShutdown
	s.shutdownMu.RUnlock()
	if shutdown {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("New control connection from %s", r.RemoteAddr)

	s.handleConnection(conn)
}

// handleConnection manages a client connection
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	client := &Client{
		ID:       uuid.New().String(),
		Conn:     conn,
		sendChan: make(chan any, 100),
	}

	s.clientsMu.Lock()
	s.clients[client.ID] = client
	s.clientsMu.Unlock()

	writerDone := make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(writerDone)
		s.clientWriter(client)
	}()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, client.ID)
		close(client.sendChan)
		s.clientsMu.Unlock()
		<-writerDone
		log.Printf("Control client disconnected: %s", client.ID)
	}()

	// Greet with the current state
	trySend(client.sendChan, "state", map[string]any{
		"type": "state",
		"data": s.engine.GetState(),
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var cmd WSCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			sendError(client.sendChan, "command", fmt.Errorf("invalid JSON: %w", err))
			continue
		}

		if s.config.Debug {
			log.Printf("[DEBUG] Command from %s: %s", client.ID, cmd.Type)
		}

		s.dispatch(cmd, client.sendChan)
	}
}

// clientWriter sends messages to the client
func (s *Server) clientWriter(client *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	const writeDeadline = 10 * time.Second

	for {
		select {
		case msg, ok := <-client.sendChan:
			if !ok {
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Error marshaling message: %v", err)
				continue
			}
			client.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("Error writing text message: %v", err)
				client.Conn.Close()
				drain(client.sendChan)
				return
			}

		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				client.Conn.Close()
				drain(client.sendChan)
				return
			}
		}
	}
}

// drain discards queued messages until the channel is closed
func drain(ch <-chan any) {
	for range ch {
	}
}

// handleMix serves the encoded mix
func (s *Server) handleMix(w http.ResponseWriter, r *http.Request) {
	if len(s.session.WAV) == 0 {
		http.Error(w, "no mix rendered", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", fmt.Sprint(len(s.session.WAV)))
	if _, err := w.Write(s.session.WAV); err != nil {
		log.Printf("Error writing mix: %v", err)
	}
}

// trackWaveform is the JSON form of one track's summary
type trackWaveform struct {
	ID     string                 `json:"id"`
	Name   string                 `json:"name"`
	Points []render.WaveformPoint `json:"points"`
}

// handleWaveforms serves the per-track waveform summaries
func (s *Server) handleWaveforms(w http.ResponseWriter, r *http.Request) {
	out := make([]trackWaveform, 0, len(s.session.Tracks))
	for _, t := range s.session.Tracks {
		out = append(out, trackWaveform{ID: t.VoiceID, Name: t.Name, Points: t.Waveform})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Printf("Error writing waveforms: %v", err)
	}
}
