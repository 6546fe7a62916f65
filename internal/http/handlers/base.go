// Package handlers contains HTTP handler logic for the federation API.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"

	"github.com/crossnav/crossnav/internal/config"
	"github.com/crossnav/crossnav/internal/dataflow"
	"github.com/crossnav/crossnav/internal/health"
	"github.com/crossnav/crossnav/internal/navctx"
	"github.com/crossnav/crossnav/internal/registry"
)

// contextKeyInbound memoizes the decoded inbound navigation context for the
// lifetime of one request, so repeated reads never re-consume the session store.
const contextKeyInbound = "crossnav_inbound_context"

// Handlers groups all HTTP handlers and shared dependencies.
type Handlers struct {
	Cfg        config.Config
	Registry   *registry.Registry
	Monitor    *health.Monitor
	Propagator *navctx.Propagator
	Tracker    *dataflow.Tracker
	Sessions   *scs.SessionManager
}

type errorResponse struct {
	Error string `json:"error"`
}

type inboundMemo struct {
	ctx       navctx.Context
	federated bool
}

// inboundContext decodes the navigation context carried by this request,
// at most once per request.
func (h *Handlers) inboundContext(c echo.Context) (navctx.Context, bool) {
	if memo, ok := c.Get(contextKeyInbound).(inboundMemo); ok {
		return memo.ctx, memo.federated
	}
	nc, federated := h.Propagator.Receive(c.Request().Context(), c.QueryParams())
	c.Set(contextKeyInbound, inboundMemo{ctx: nc, federated: federated})
	return nc, federated
}

// RenderError returns a JSON 500 without leaking internals.
func (h *Handlers) RenderError(c echo.Context, err error) error {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	slog.Error("http error",
		"request_id", requestID,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"error", err,
	)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
