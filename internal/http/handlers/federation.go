package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crossnav/crossnav/internal/http/viewmodels"
	"github.com/crossnav/crossnav/internal/navctx"
)

// HandleHealthz is this sidecar's own liveness endpoint; it makes the local
// application a probe target for its siblings.
func (h *Handlers) HandleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"app":    h.Registry.LocalID(),
	})
}

// HandleApps serves the switcher viewmodel: the catalogue annotated with live
// health badges and navigation flags.
func (h *Handlers) HandleApps(c echo.Context) error {
	data := viewmodels.BuildSwitcher(h.Registry.List(), h.Monitor.Snapshot(), h.Registry.LocalID(), time.Now())
	return c.JSON(http.StatusOK, data)
}

// HandleStatus serves the raw per-application health statuses.
func (h *Handlers) HandleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Monitor.Snapshot())
}

type contextResponse struct {
	Federated bool           `json:"federated"`
	Context   navctx.Context `json:"context"`
}

// HandleContext serves the inbound navigation context for the current load.
// Repeated calls within one request return the identical value; a decode
// failure or direct entry yields an empty context, never an error.
func (h *Handlers) HandleContext(c echo.Context) error {
	nc, federated := h.inboundContext(c)
	return c.JSON(http.StatusOK, contextResponse{Federated: federated, Context: nc})
}
