package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crossnav/crossnav/internal/dataflow"
	"github.com/crossnav/crossnav/internal/http/viewmodels"
)

// HandleDataFlow serves the replication-link graph viewmodel.
func (h *Handlers) HandleDataFlow(c echo.Context) error {
	graph := viewmodels.BuildDataFlowGraph(h.Registry.List(), h.Tracker.Snapshot(), time.Now())
	return c.JSON(http.StatusOK, graph)
}

type dataFlowReport struct {
	Links []dataflow.Link `json:"links"`
}

// HandleDataFlowReport replaces the tracked link set with an externally
// reported one. The replacement is atomic: any invalid link rejects the whole
// report and the previous set stays in place.
func (h *Handlers) HandleDataFlowReport(c echo.Context) error {
	var report dataFlowReport
	if err := c.Bind(&report); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed data-flow report"})
	}
	if err := h.Tracker.Replace(report.Links); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
