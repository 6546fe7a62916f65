package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/crossnav/crossnav/internal/metrics"
	"github.com/crossnav/crossnav/internal/navctx"
)

type navigateRequest struct {
	App     string         `json:"app" form:"app"`
	Path    string         `json:"path" form:"path"`
	From    string         `json:"from" form:"from"`
	Context map[string]any `json:"context"`
}

// HandleNavigate performs one navigation attempt. A target equal to the local
// application is an intra-app path change and bypasses the propagator; any
// other target gets the full context handoff and a 303 to the new origin.
// Every failure path terminates the attempt with a 4xx, so a client can never
// be left stuck mid-navigation.
func (h *Handlers) HandleNavigate(c echo.Context) error {
	var req navigateRequest
	if c.Request().Method == http.MethodPost {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed navigation request"})
		}
	}
	if req.App == "" {
		req.App = c.QueryParam("app")
	}
	if req.Path == "" {
		req.Path = c.QueryParam("path")
	}
	if req.From == "" {
		req.From = c.QueryParam("from")
	}

	targetApp := strings.ToLower(strings.TrimSpace(req.App))
	if targetApp == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "missing target application id"})
	}
	targetPath, err := sanitizePath(req.Path)
	if err != nil {
		metrics.NavigationsTotal.WithLabelValues(targetApp, "invalid_path").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid navigation path"})
	}

	if targetApp == h.Registry.LocalID() {
		metrics.NavigationsTotal.WithLabelValues(targetApp, "intra").Inc()
		return c.Redirect(http.StatusSeeOther, targetPath)
	}

	inbound, _ := h.inboundContext(c)
	dest, err := h.Propagator.Send(c.Request().Context(), navctx.SendRequest{
		SourcePath: normalizePath(req.From),
		TargetApp:  targetApp,
		TargetPath: targetPath,
		Current:    inbound.Data,
		Patch:      req.Context,
	})
	if err != nil {
		if errors.Is(err, navctx.ErrUnknownTarget) {
			metrics.NavigationsTotal.WithLabelValues(targetApp, "invalid_target").Inc()
			return c.JSON(http.StatusBadRequest, errorResponse{
				Error: fmt.Sprintf("unknown application %q: navigation unavailable", targetApp),
			})
		}
		metrics.NavigationsTotal.WithLabelValues(targetApp, "failed").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error: "could not prepare navigation: " + err.Error(),
		})
	}

	metrics.NavigationsTotal.WithLabelValues(targetApp, "cross").Inc()
	return c.Redirect(http.StatusSeeOther, dest)
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// sanitizePath normalizes a navigation path and rejects anything that would
// carry the redirect off-origin. A protocol-relative path ("//host/…") or an
// absolute URL resolves to a foreign host; origins come from the catalogue
// only, so such paths fail before any redirect is issued. The check runs on
// the raw input: normalizing first would hide a scheme behind the added slash.
func sanitizePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("path %q: %w", path, err)
	}
	if u.Scheme != "" || u.Host != "" {
		return "", fmt.Errorf("path %q must not carry a scheme or host", path)
	}
	return normalizePath(path), nil
}
