package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crossnav/crossnav/internal/dataflow"
)

func TestDataFlowReport_ReplacesLinkSet(t *testing.T) {
	e, h := newTestServer(t)

	body := `{"links": [
		{"fromAppId": "a", "toAppId": "b", "dataType": "leads", "status": "active", "recordCount": 120}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/federation/dataflow/report", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusNoContent, rec.Body.String())
	}
	snap := h.Tracker.Snapshot()
	if len(snap) != 1 || snap[0].DataType != "leads" {
		t.Fatalf("Snapshot() = %+v, want one leads link", snap)
	}
}

func TestDataFlowReport_SelfLinkRejectedAtomically(t *testing.T) {
	e, h := newTestServer(t)

	if err := h.Tracker.Replace([]dataflow.Link{
		{FromAppID: "a", ToAppID: "b", DataType: "leads", Status: dataflow.StatusActive},
	}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	body := `{"links": [
		{"fromAppId": "b", "toAppId": "a", "dataType": "orders", "status": "active"},
		{"fromAppId": "b", "toAppId": "b", "dataType": "orders", "status": "active"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/federation/dataflow/report", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	snap := h.Tracker.Snapshot()
	if len(snap) != 1 || snap[0].DataType != "leads" {
		t.Fatalf("Snapshot() = %+v, want the previous leads link untouched", snap)
	}
}

func TestDataFlow_ServesGraphViewmodel(t *testing.T) {
	e, h := newTestServer(t)

	if err := h.Tracker.Replace([]dataflow.Link{
		{FromAppID: "a", ToAppID: "b", DataType: "leads", Status: dataflow.StatusActive, LastSyncAt: time.Now().Add(-5 * time.Minute), RecordCount: 12},
	}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/federation/dataflow", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var graph struct {
		Nodes []struct {
			ID string `json:"id"`
			X  int    `json:"x"`
			Y  int    `json:"y"`
		} `json:"nodes"`
		Edges []struct {
			FromAppID     string `json:"fromAppId"`
			LastSyncLabel string `json:"lastSyncLabel"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &graph); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(graph.Nodes) != 2 || len(graph.Edges) != 1 {
		t.Fatalf("graph = %d nodes / %d edges, want 2/1", len(graph.Nodes), len(graph.Edges))
	}
	if graph.Nodes[0].ID != "a" || graph.Nodes[0].X == graph.Nodes[1].X {
		t.Fatalf("nodes = %+v, want distinct fixed coordinates", graph.Nodes)
	}
	if graph.Edges[0].LastSyncLabel != "5m ago" {
		t.Fatalf("LastSyncLabel = %q, want %q", graph.Edges[0].LastSyncLabel, "5m ago")
	}
}
