package layout

import (
	"github.com/simgraph/simgraph/pkg/graph"
	"github.com/simgraph/simgraph/pkg/scene"
)

// Fixed is the deterministic layout strategy: positions come from the
// projection coordinates via the global transform, with the
// cluster-isolation expansion applied when a single cluster is filtered.
// There is no iterative stepping; placement happens once per update and the
// results are pinned, so the layout is drag-free until the user moves a
// node. Edge endpoints are resolved through the scene's id lookup table,
// built once per reconciliation; no edge is ever rewritten to hold
// positions.
type Fixed struct {
	stats         ProjectionStats
	viewport      Size
	clusterFilter *int
}

// NewFixed creates a fixed layout using the given cached projection stats.
func NewFixed(stats ProjectionStats) *Fixed {
	return &Fixed{stats: stats}
}

// SetStats replaces the cached global projection stats (new dataset).
func (f *Fixed) SetStats(stats ProjectionStats) {
	f.stats = stats
}

// SetClusterFilter tells the layout whether a single cluster is isolated.
// Expansion only applies in that case.
func (f *Fixed) SetClusterFilter(clusterID *int) {
	f.clusterFilter = clusterID
}

// SetViewport updates the surface size used for recentering.
func (f *Fixed) SetViewport(viewport Size) {
	f.viewport = viewport
}

// Initialize places all scene nodes and pins them.
func (f *Fixed) Initialize(sc *scene.Scene, viewport Size) {
	f.viewport = viewport
	f.place(sc)
}

// OnFilterChanged re-places the new subset. Runtime state of surviving
// entities is untouched beyond the new pin.
func (f *Fixed) OnFilterChanged(sc *scene.Scene) {
	f.place(sc)
}

// Tick is a no-op: fixed positions never advance.
func (f *Fixed) Tick(dt float64) bool {
	return false
}

// Stop is a no-op: there is no simulation to halt.
func (f *Fixed) Stop() {}

// Place computes a single node's fixed-mode position without touching the
// scene. The physics path uses it to seed new entities for continuity.
func (f *Fixed) Place(data graph.Node, all []graph.Node) (float64, float64) {
	if f.clusterFilter != nil {
		cx, cy := Centroid(all)
		factor := ExpansionFactor(len(all))
		return f.stats.ProjectExpanded(data.X, data.Y, cx, cy, factor, f.viewport)
	}
	return f.stats.Project(data.X, data.Y, f.viewport)
}

func (f *Fixed) place(sc *scene.Scene) {
	if sc == nil || len(sc.Nodes) == 0 {
		return
	}

	if f.clusterFilter != nil {
		data := make([]graph.Node, len(sc.Nodes))
		for i, n := range sc.Nodes {
			data[i] = n.Data
		}
		cx, cy := Centroid(data)
		factor := ExpansionFactor(len(data))
		for _, n := range sc.Nodes {
			x, y := f.stats.ProjectExpanded(n.Data.X, n.Data.Y, cx, cy, factor, f.viewport)
			n.Pin(x, y)
		}
		return
	}

	for _, n := range sc.Nodes {
		x, y := f.stats.Project(n.Data.X, n.Data.Y, f.viewport)
		n.Pin(x, y)
	}
}
