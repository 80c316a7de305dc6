package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/config"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// route is an extra HTTP handler served beside the MCP endpoint.
type route struct {
	pattern string
	handler http.Handler
}

// Upstream is the tool server clients talk to. Tools are added to Server and
// extra HTTP routes are added with Mount, both before calling Run.
type Upstream struct {
	Server *mcp.Server
	cfg    config.ServeConfig
	routes []route
	logger *slog.Logger
}

// NewUpstream creates an MCP server for the configured transport.
func NewUpstream(cfg config.ServeConfig, logger *slog.Logger) *Upstream {
	srv := mcp.NewServer(
		&mcp.Implementation{Name: ServerName, Version: Version},
		&mcp.ServerOptions{Logger: logger},
	)
	return &Upstream{
		Server: srv,
		cfg:    cfg,
		logger: logger.With("area", "upstream"),
	}
}

// Mount serves h under pattern next to the MCP endpoint. Routes only exist on
// the HTTP transport; stdio sessions ignore them.
func (u *Upstream) Mount(pattern string, h http.Handler) {
	u.routes = append(u.routes, route{pattern: pattern, handler: h})
}

// Run serves on the configured transport and blocks until ctx is cancelled
// or the transport closes.
func (u *Upstream) Run(ctx context.Context) error {
	switch u.cfg.Transport {
	case config.TransportStdio:
		if len(u.routes) > 0 {
			u.logger.Debug("http routes unused on stdio", "routes", len(u.routes))
		}
		u.logger.Info("starting stdio transport")
		return u.Server.Run(ctx, &mcp.StdioTransport{})
	case config.TransportHTTP:
		return u.serveHTTP(ctx)
	default:
		return fmt.Errorf("unsupported serve transport: %s", u.cfg.Transport)
	}
}

// Handler returns the HTTP handler: the streamable MCP endpoint at the
// configured path plus every mounted route.
func (u *Upstream) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(u.cfg.HTTP.Path, mcp.NewStreamableHTTPHandler(
		func(*http.Request) *mcp.Server { return u.Server },
		&mcp.StreamableHTTPOptions{Logger: u.logger},
	))
	for _, r := range u.routes {
		mux.Handle(r.pattern, r.handler)
	}
	return mux
}

func (u *Upstream) serveHTTP(ctx context.Context) error {
	ln, err := net.Listen("tcp", u.cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", u.cfg.HTTP.Addr, err)
	}

	srv := &http.Server{Handler: u.Handler(), ReadHeaderTimeout: readHeaderTimeout}
	u.logger.Info("starting HTTP transport", "addr", ln.Addr(), "path", u.cfg.HTTP.Path, "routes", len(u.routes))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	u.logger.Info("shutting down HTTP transport")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
