package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/simple-storage/internal/core/domain"
	"github.com/custodia-labs/simple-storage/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// shutdownTimeout bounds how long RunHTTP waits for open requests.
const shutdownTimeout = 5 * time.Second

// Server exposes storage tables to MCP clients. Every tool call and
// resource read first takes a token from the limiter.
type Server struct {
	ports   *Ports
	server  *mcp.Server
	limiter *rate.Limiter
}

// NewServer builds a server over ports and registers its tools and resources.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	limits := ports.limits()
	s := &Server{
		ports:   ports,
		server:  mcp.NewServer(&mcp.Implementation{Name: "simplestorage", Version: Version}, nil),
		limiter: rate.NewLimiter(rate.Limit(limits.RequestsPerSecond), limits.Burst),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Limits reports the limits currently applied.
func (s *Server) Limits() domain.MCPSettings {
	return domain.MCPSettings{
		RequestsPerSecond: float64(s.limiter.Limit()),
		Burst:             s.limiter.Burst(),
	}
}

// SetLimits changes the limits of a running server. Non-positive values
// are ignored.
func (s *Server) SetLimits(requestsPerSecond float64, burst int) {
	if requestsPerSecond <= 0 || burst <= 0 {
		logger.Warn("ignoring mcp limits %.2f/s burst %d", requestsPerSecond, burst)
		return
	}
	s.limiter.SetLimit(rate.Limit(requestsPerSecond))
	s.limiter.SetBurst(burst)
	logger.Debug("mcp limits set to %.2f/s burst %d", requestsPerSecond, burst)
}

func (s *Server) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// Run serves over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is done.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr: addr,
		Handler: mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return s.server
		}, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp http shutdown: %v", err)
		}
	}()

	logger.Info("mcp listening on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}
