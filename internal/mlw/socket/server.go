// Package socket serves the watcher's control commands over a Unix socket
package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dimasma0305/mlw/internal/log"
	"github.com/dimasma0305/mlw/internal/mlw/watchertypes"
)

// Server handles Unix socket server operations
type Server struct {
	socketPath string
	listener   net.Listener
	mu         sync.RWMutex
	enabled    bool
	handler    CommandHandler
	wg         sync.WaitGroup
}

// CommandHandler interface for processing socket commands
type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd watchertypes.WatcherCommand) watchertypes.WatcherResponse
}

// NewServer creates a new socket server
func NewServer(socketPath string, enabled bool, handler CommandHandler) *Server {
	return &Server{
		socketPath: socketPath,
		enabled:    enabled,
		handler:    handler,
	}
}

// Init creates the socket file and starts listening
func (s *Server) Init() error {
	if !s.enabled {
		log.Debug("Control socket disabled")
		return nil
	}

	socketPath := s.socketPath
	// a stale socket from a crashed run would make Listen fail
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		log.Error("Failed to remove existing socket file: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(socketPath), 0750); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to create Unix socket: %w", err)
	}

	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	log.Debug("Control socket listening: %s", socketPath)
	return nil
}

// Close stops accepting connections and removes the socket file
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}

	err := s.listener.Close()
	s.listener = nil

	if s.socketPath != "" {
		if removeErr := os.Remove(s.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
			log.Error("Failed to remove socket file: %v", removeErr)
		}
	}
	return err
}

// Run accepts connections until ctx is cancelled or the listener is closed.
// It waits for in-flight connections before returning.
func (s *Server) Run(ctx context.Context) {
	s.mu.RLock()
	listener := s.listener
	s.mu.RUnlock()

	if listener == nil {
		return
	}
	defer s.wg.Wait()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Close()
		case <-stop:
		}
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if s.closed() {
				return
			}
			log.Error("Failed to accept socket connection: %v", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

func (s *Server) closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listener == nil
}

// handleConnection handles a single request/response exchange
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	var cmd watchertypes.WatcherCommand
	if err := decoder.Decode(&cmd); err != nil {
		response := watchertypes.WatcherResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to decode command: %v", err),
		}
		_ = encoder.Encode(response)
		return
	}

	response := s.handler.HandleCommand(ctx, cmd)

	if err := encoder.Encode(response); err != nil {
		log.Error("Failed to send socket response: %v", err)
	}
}

// IsEnabled returns whether the socket server is enabled
func (s *Server) IsEnabled() bool {
	return s.enabled
}
