// Package httpapp wires the federation API onto an Echo server.
package httpapp

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/crossnav/crossnav/internal/config"
	"github.com/crossnav/crossnav/internal/dataflow"
	"github.com/crossnav/crossnav/internal/health"
	"github.com/crossnav/crossnav/internal/http/handlers"
	"github.com/crossnav/crossnav/internal/navctx"
	"github.com/crossnav/crossnav/internal/registry"
)

// EchoServer is the HTTP server wrapper.
type EchoServer struct {
	h *handlers.Handlers
	e *echo.Echo
}

// NewEchoServer creates a new HTTP server.
func NewEchoServer(
	cfg config.Config,
	reg *registry.Registry,
	monitor *health.Monitor,
	propagator *navctx.Propagator,
	tracker *dataflow.Tracker,
	sessions *scs.SessionManager,
) (*EchoServer, error) {
	h := &handlers.Handlers{
		Cfg:        cfg,
		Registry:   reg,
		Monitor:    monitor,
		Propagator: propagator,
		Tracker:    tracker,
		Sessions:   sessions,
	}
	es := &EchoServer{h: h, e: echo.New()}
	es.e.HideBanner = true
	es.registerRoutes(sessions)
	return es, nil
}

func (es *EchoServer) registerRoutes(sessions *scs.SessionManager) {
	es.e.Use(middleware.RequestID())
	es.e.Use(echo.WrapMiddleware(sessions.LoadAndSave))

	es.e.GET("/api/health", es.h.HandleHealthz)

	es.e.GET("/navigate", es.h.HandleNavigate)
	es.e.POST("/navigate", es.h.HandleNavigate)

	es.e.GET("/api/federation/apps", es.h.HandleApps)
	es.e.GET("/api/federation/status", es.h.HandleStatus)
	es.e.GET("/api/federation/context", es.h.HandleContext)
	es.e.GET("/api/federation/dataflow", es.h.HandleDataFlow)
	es.e.POST("/api/federation/dataflow/report", es.h.HandleDataFlowReport)
}

// ServeHTTP lets the server be driven directly by tests and embedders.
func (es *EchoServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	es.e.ServeHTTP(w, r)
}

// Start starts the HTTP server.
func (es *EchoServer) Start(addr string) error {
	return es.e.Start(addr)
}

// StartServer starts the HTTP server with a custom http.Server.
func (es *EchoServer) StartServer(server *http.Server) error {
	return es.e.StartServer(server)
}

// Shutdown gracefully shuts down the HTTP server.
func (es *EchoServer) Shutdown(ctx context.Context) error {
	return es.e.Shutdown(ctx)
}
