// Package server runs the remote HTTP transport: MCP over streamable HTTP
// and SSE, plus the OAuth discovery and registration endpoints that hosted
// MCP clients (Claude.ai, MCP Inspector) expect to find.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/basicmachines/highlevel-mcp/auth"
	"github.com/basicmachines/highlevel-mcp/mcp"
)

// Server is the remote HTTP front end.
type Server struct {
	config        *Config
	mcp           *mcp.Server
	authenticator *auth.Authenticator
	logger        auth.Logger
	httpServer    *http.Server
}

// New wires the MCP server and authenticator into an HTTP server. Both MCP
// transports require a bearer token; the discovery endpoints are public.
func New(cfg *Config, mcpSrv *mcp.Server, authenticator *auth.Authenticator) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	s := &Server{
		config:        cfg,
		mcp:           mcpSrv,
		authenticator: authenticator,
		logger:        logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/.well-known/oauth-authorization-server", s.handleMetadata)
	mux.HandleFunc("/oauth/register", s.handleRegister)
	mux.HandleFunc("/oauth/authorize", s.handleAuthorize)
	mux.HandleFunc("/oauth/token", s.handleToken)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv.MCPServer(),
		mcpserver.WithEndpointPath("/mcp"),
		mcpserver.WithHTTPContextFunc(auth.HTTPContextFunc()),
	)
	mux.Handle("/mcp", authenticator.WrapHandler(streamable))

	sse := mcpserver.NewSSEServer(
		mcpSrv.MCPServer(),
		mcpserver.WithSSEContextFunc(auth.HTTPContextFunc()),
	)
	mux.Handle("/sse", authenticator.WrapHandler(sse))
	mux.Handle("/message", authenticator.WrapHandler(sse))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           corsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errs := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening on %s (%d tools)", s.httpServer.Addr, s.mcp.ToolCount())
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Handler returns the root handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// corsMiddleware allows browser-based MCP clients to reach the server from
// other origins.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Mcp-Session-Id, Last-Event-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func trimBase(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/")
}
