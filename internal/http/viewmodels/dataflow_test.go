package viewmodels

import (
	"reflect"
	"testing"
	"time"

	"github.com/crossnav/crossnav/internal/dataflow"
	"github.com/crossnav/crossnav/internal/registry"
)

func TestBuildDataFlowGraph_DeterministicLayout(t *testing.T) {
	apps := []registry.Application{
		{ID: "portal", DisplayName: "Client Portal"},
		{ID: "store", DisplayName: "Storefront"},
		{ID: "admin", DisplayName: "Admin Console"},
		{ID: "site", DisplayName: "Marketing Site"},
	}
	now := time.Now()

	first := BuildDataFlowGraph(apps, nil, now)
	second := BuildDataFlowGraph(apps, nil, now)
	if len(first.Nodes) != 4 {
		t.Fatalf("len(Nodes) = %d, want 4", len(first.Nodes))
	}
	for i := range first.Nodes {
		if !reflect.DeepEqual(first.Nodes[i], second.Nodes[i]) {
			t.Fatalf("node %d not deterministic: %+v vs %+v", i, first.Nodes[i], second.Nodes[i])
		}
	}
	// Fourth app wraps to the second row.
	if first.Nodes[3].X != graphOriginX || first.Nodes[3].Y != graphOriginY+graphStepY {
		t.Fatalf("Nodes[3] at (%d,%d), want (%d,%d)",
			first.Nodes[3].X, first.Nodes[3].Y, graphOriginX, graphOriginY+graphStepY)
	}
}

func TestBuildDataFlowGraph_EdgeStyles(t *testing.T) {
	apps := []registry.Application{
		{ID: "portal", DisplayName: "Client Portal"},
		{ID: "store", DisplayName: "Storefront"},
	}
	now := time.Now()
	links := []dataflow.Link{
		{FromAppID: "portal", ToAppID: "store", DataType: "leads", Status: dataflow.StatusActive, LastSyncAt: now.Add(-90 * time.Minute), RecordCount: 311},
		{FromAppID: "store", ToAppID: "portal", DataType: "orders", Status: dataflow.StatusError},
	}

	graph := BuildDataFlowGraph(apps, links, now)
	if len(graph.Edges) != 2 {
		t.Fatalf("len(Edges) = %d, want 2", len(graph.Edges))
	}

	active, failed := graph.Edges[0], graph.Edges[1]
	if active.Dashed {
		t.Fatal("active edge rendered dashed")
	}
	if active.LastSyncLabel != "1h ago" {
		t.Fatalf("active LastSyncLabel = %q, want %q", active.LastSyncLabel, "1h ago")
	}
	if active.RecordCount != 311 {
		t.Fatalf("active RecordCount = %d, want 311", active.RecordCount)
	}
	if !failed.Dashed || failed.StatusClass == active.StatusClass {
		t.Fatalf("error edge = %+v, want dashed with distinct class", failed)
	}
	if failed.LastSyncLabel != "—" {
		t.Fatalf("error LastSyncLabel = %q, want placeholder", failed.LastSyncLabel)
	}
}
