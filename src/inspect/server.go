// Package inspect serves the scrubber over MCP so a client can sanitize
// ad-hoc payloads and resolve pseudonyms and fixtures without a full run.
package inspect

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/apimap"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/config"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/pipeline"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/store"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/transport"
)

// Server is the top-level orchestrator for the serve command. It loads the
// roster and URL map once, registers the tools and runs the transport.
type Server struct {
	cfg    config.Config
	store  store.Store
	logger *slog.Logger
}

// New creates a Server reading captures per cfg and fixtures from st.
func New(cfg config.Config, st store.Store, logger *slog.Logger) *Server {
	return &Server{cfg: cfg, store: st, logger: logger}
}

// Run blocks until SIGINT/SIGTERM or ctx cancellation.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.logger.Info("starting tool server")

	// 1. Build the identity map from the master document.
	roster, err := pipeline.New(s.cfg, s.store, s.logger).LoadRoster(ctx)
	if err != nil {
		return fmt.Errorf("roster: %w", err)
	}

	// 2. Build the request-to-fixture table.
	urls, err := apimap.Build(s.cfg.InputDir, s.cfg.Documents, s.logger)
	if err != nil {
		return fmt.Errorf("api map: %w", err)
	}

	// 3. Register tools.
	upstream := transport.NewUpstream(s.cfg.Serve, s.logger)
	tools := NewTools(roster.Identities, urls, s.store, s.logger)
	count := tools.Register(upstream.Server)
	s.logger.Info("tools registered", "total", count, "members", roster.Identities.Len(), "routes", len(urls.Entries))

	// 4. Serve generated fixtures read-only beside the MCP endpoint.
	prefix := s.cfg.Serve.HTTP.FixturesPath
	upstream.Mount(prefix, FixtureHandler(prefix, s.store, s.logger))

	// 5. Serve until cancelled.
	s.logger.Info("server ready", "transport", s.cfg.Serve.Transport)
	return upstream.Run(ctx)
}
