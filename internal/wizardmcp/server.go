// Package wizardmcp exposes a registration wizard over MCP so an agent can
// fill it in, one tool call per user action.
package wizardmcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/smartlib/libreg/internal/logger"
	"github.com/smartlib/libreg/internal/wizard"
)

// Server serves one wizard controller over streamable HTTP.
// Tool calls arrive on arbitrary goroutines, so every controller access
// goes through mu. The HTTP lifecycle has its own lock so shutdown can
// drain handlers that are waiting on mu.
type Server struct {
	mu           sync.Mutex
	ctrl         *wizard.Controller
	maxLogoBytes int64

	mcpServer *server.MCPServer

	life      sync.Mutex
	stdServer *http.Server
	port      int
}

// New creates a server for ctrl. The server is not listening until Start.
func New(ctrl *wizard.Controller, maxLogoBytes int64) *Server {
	s := &Server{ctrl: ctrl, maxLogoBytes: maxLogoBytes}
	s.mcpServer = server.NewMCPServer(
		"libreg-wizard",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server, for stdio or in-process use.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Start listens on 127.0.0.1:port (0 picks a free port) and returns the
// bound port.
func (s *Server) Start(ctx context.Context, port int) (int, error) {
	s.life.Lock()
	defer s.life.Unlock()

	if s.stdServer != nil {
		return 0, errors.New("server already started")
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return 0, fmt.Errorf("listening on port %d: %w", port, err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(s.mcpServer, server.WithStateLess(true)))
	s.stdServer = &http.Server{Handler: mux}

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("Wizard MCP server listening on port %d", s.port)
	return s.port, nil
}

// Stop shuts the HTTP server down. Stopping twice is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.life.Lock()
	stdServer := s.stdServer
	s.stdServer = nil
	s.life.Unlock()

	if stdServer == nil {
		return nil
	}
	if err := stdServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	logger.Debug("Wizard MCP server stopped")
	return nil
}

// URL returns the MCP endpoint.
func (s *Server) URL() string {
	s.life.Lock()
	defer s.life.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
