package viewmodels

import (
	"time"

	"github.com/crossnav/crossnav/internal/dataflow"
	"github.com/crossnav/crossnav/internal/registry"
)

// Node layout constants. Positions derive from catalogue order alone so the
// graph is stable across renders and across sibling deployments.
const (
	graphColumns = 3
	graphOriginX = 120
	graphOriginY = 100
	graphStepX   = 240
	graphStepY   = 180
)

// GraphNode is one application placed on the data-flow canvas.
type GraphNode struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Tags  []string `json:"tags,omitempty"`
	X     int      `json:"x"`
	Y     int      `json:"y"`
}

// GraphEdge is one directed replication link between two nodes.
type GraphEdge struct {
	FromAppID     string `json:"fromAppId"`
	ToAppID       string `json:"toAppId"`
	DataType      string `json:"dataType"`
	Status        string `json:"status"`
	StatusClass   string `json:"statusClass"`
	Dashed        bool   `json:"dashed"`
	LastSyncLabel string `json:"lastSyncLabel"`
	RecordCount   int64  `json:"recordCount"`
}

// DataFlowViewData is the payload of the data-flow endpoint.
type DataFlowViewData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// BuildDataFlowGraph lays out every registered application as a node and every
// link as a directed edge. Freshness labels are computed against now on each
// call; the hosting dashboard's own refresh cadence keeps them current.
func BuildDataFlowGraph(apps []registry.Application, links []dataflow.Link, now time.Time) DataFlowViewData {
	out := DataFlowViewData{
		Nodes: make([]GraphNode, 0, len(apps)),
		Edges: make([]GraphEdge, 0, len(links)),
	}

	for i, app := range apps {
		out.Nodes = append(out.Nodes, GraphNode{
			ID:    app.ID,
			Label: app.DisplayName,
			Tags:  app.CapabilityTags,
			X:     graphOriginX + (i%graphColumns)*graphStepX,
			Y:     graphOriginY + (i/graphColumns)*graphStepY,
		})
	}

	for _, link := range links {
		edge := GraphEdge{
			FromAppID:     link.FromAppID,
			ToAppID:       link.ToAppID,
			DataType:      link.DataType,
			Status:        string(link.Status),
			LastSyncLabel: formatAge(now, link.LastSyncAt),
			RecordCount:   link.RecordCount,
		}
		switch link.Status {
		case dataflow.StatusActive:
			edge.StatusClass = badgeClassSuccess()
		case dataflow.StatusError:
			edge.StatusClass = badgeClassDanger()
			edge.Dashed = true
		default:
			edge.StatusClass = badgeClassNeutral()
			edge.Dashed = true
		}
		out.Edges = append(out.Edges, edge)
	}

	return out
}
