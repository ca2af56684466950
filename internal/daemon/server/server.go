// Package server provides the HTTP server for the gitstatus daemon.
//
// The daemon listens on a unix socket and exposes the engine's snapshot to
// external consumers (statusline renderers, prompt generators). Reads are
// plain JSON endpoints; /api/stream upgrades to a WebSocket and pushes every
// snapshot replacement.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/grovetools/gitstatus/engine"
)

// RunningConfig holds the active configuration being used by the daemon.
// Exposed via /api/config so clients can verify what config is active.
type RunningConfig struct {
	AutoFetchInterval time.Duration `json:"auto_fetch_interval"`
	StatusTimeout     time.Duration `json:"status_timeout"`
	Cooldown          time.Duration `json:"cooldown"`
	StartedAt         time.Time     `json:"started_at"`
}

// Server manages the daemon's HTTP server over a Unix socket.
type Server struct {
	logger        *logrus.Entry
	server        *http.Server
	engine        *engine.Engine
	runningConfig *RunningConfig
	upgrader      websocket.Upgrader
}

// New creates a new Server instance.
func New(logger *logrus.Entry) *Server {
	return &Server{
		logger: logger,
		upgrader: websocket.Upgrader{
			// Access control is the socket's file permissions.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SetEngine sets the status engine for the server.
func (s *Server) SetEngine(eng *engine.Engine) {
	s.engine = eng
}

// SetRunningConfig sets the running configuration for the server.
func (s *Server) SetRunningConfig(cfg *RunningConfig) {
	s.runningConfig = cfg
}

// ListenAndServe starts the daemon on the given unix socket path.
// It blocks until the server stops or fails.
func (s *Server) ListenAndServe(socketPath string) error {
	// Cleanup stale socket
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}

	// Set restrictive permissions on socket
	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Snapshot API endpoints
	mux.HandleFunc("/api/snapshot", s.handleGetSnapshot)
	mux.HandleFunc("/api/config", s.handleGetConfig)
	mux.HandleFunc("/api/stream", s.handleStream)
	mux.HandleFunc("/api/refresh", s.handleRefresh)
	mux.HandleFunc("/api/fetch", s.handleFetch)

	s.server = &http.Server{
		Handler: h2c.NewHandler(mux, &http2.Server{}),
	}

	s.logger.WithField("socket", socketPath).Info("Daemon listening")
	return s.server.Serve(listener)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleGetSnapshot returns the current snapshot as JSON, or 404 when the
// working directory is not a repository (or never successfully polled).
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		http.Error(w, "engine not ready", http.StatusServiceUnavailable)
		return
	}

	snap := s.engine.Snapshot()
	if snap == nil {
		http.Error(w, "no snapshot", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.logger.WithError(err).Error("Failed to encode snapshot")
	}
}

// handleGetConfig returns the daemon's active configuration.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if s.runningConfig == nil {
		http.Error(w, "config not available", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.runningConfig); err != nil {
		s.logger.WithError(err).Error("Failed to encode config")
	}
}

// handleRefresh requests a status refresh. The request returns immediately;
// coalescing is the engine's business.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		http.Error(w, "engine not ready", http.StatusServiceUnavailable)
		return
	}
	s.engine.RequestStatusRefresh()
	w.WriteHeader(http.StatusAccepted)
}

// handleFetch requests a background fetch.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		http.Error(w, "engine not ready", http.StatusServiceUnavailable)
		return
	}
	s.engine.RequestFetch()
	w.WriteHeader(http.StatusAccepted)
}

// streamMessage is the wire format for /api/stream. Snapshot is null when
// the engine cleared its state (left the repository).
type streamMessage struct {
	Snapshot interface{} `json:"snapshot"`
}

// handleStream upgrades to a WebSocket and pushes every snapshot update.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		http.Error(w, "engine not ready", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	store := s.engine.Store()
	updates := store.Subscribe()
	defer store.Unsubscribe(updates)

	// Send the current state first so clients don't render empty.
	if err := conn.WriteJSON(streamMessage{Snapshot: store.Get()}); err != nil {
		return
	}

	// Drain client frames so pings/closes are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	for u := range updates {
		if err := conn.WriteJSON(streamMessage{Snapshot: u.Snapshot}); err != nil {
			return
		}
	}
}
