package layout

import "github.com/simgraph/simgraph/pkg/graph"

// baseExtent is the nominal pixel span the full projection is scaled to
// before the viewport transform is applied.
const baseExtent = 1000.0

// Size is a viewport surface size in CSS pixels.
type Size struct {
	Width  float64
	Height float64
}

// Center returns the midpoint of the surface.
func (s Size) Center() (float64, float64) {
	return s.Width / 2, s.Height / 2
}

// ProjectionStats holds the global center and scale of the projection,
// computed once over the entire unfiltered node set. The values are cached
// for the lifetime of a dataset so that switching filters never rescales
// unrelated parts of the graph.
type ProjectionStats struct {
	CenterX float64
	CenterY float64
	Scale   float64
}

// ComputeProjectionStats derives the global transform parameters from all
// nodes of a dataset. Degenerate sets (empty, single point, zero spread)
// yield scale 1 rather than a division by zero.
func ComputeProjectionStats(nodes []graph.Node) ProjectionStats {
	if len(nodes) == 0 {
		return ProjectionStats{Scale: 1}
	}
	minX, minY := nodes[0].X, nodes[0].Y
	maxX, maxY := minX, minY
	for _, n := range nodes {
		if n.X < minX {
			minX = n.X
		}
		if n.Y < minY {
			minY = n.Y
		}
		if n.X > maxX {
			maxX = n.X
		}
		if n.Y > maxY {
			maxY = n.Y
		}
	}

	stats := ProjectionStats{
		CenterX: (minX + maxX) / 2,
		CenterY: (minY + maxY) / 2,
		Scale:   1,
	}
	span := maxX - minX
	if dy := maxY - minY; dy > span {
		span = dy
	}
	if span > 0 {
		stats.Scale = baseExtent / span
	}
	return stats
}

// ExpansionFactor selects the cluster-isolation expansion multiplier by
// cluster size. Smaller clusters get larger expansion: their absolute
// spread in projection space is lower, so they need more separation per
// node to stay legible at a similar zoom level. The steps are strictly
// non-increasing in size.
func ExpansionFactor(clusterSize int) float64 {
	switch {
	case clusterSize <= 10:
		return 120
	case clusterSize <= 20:
		return 110
	case clusterSize <= 35:
		return 100
	case clusterSize <= 50:
		return 90
	default:
		return 80
	}
}

// Centroid returns the mean projection position of the given nodes.
func Centroid(nodes []graph.Node) (float64, float64) {
	if len(nodes) == 0 {
		return 0, 0
	}
	var sx, sy float64
	for _, n := range nodes {
		sx += n.X
		sy += n.Y
	}
	f := float64(len(nodes))
	return sx / f, sy / f
}

// Project maps a node's intrinsic projection coordinates to a pre-viewport
// screen position: offset from the global center, scaled by the global
// scale, recentered on the viewport.
func (p ProjectionStats) Project(x, y float64, viewport Size) (float64, float64) {
	cx, cy := viewport.Center()
	return (x-p.CenterX)*p.Scale + cx, (y-p.CenterY)*p.Scale + cy
}

// ProjectExpanded maps a node through the cluster-isolation expansion and
// then the global transform: the node's offset from the cluster centroid is
// multiplied by factor before the usual projection. Without this step,
// small isolated clusters collapse to overlapping points once the global
// scale is applied.
func (p ProjectionStats) ProjectExpanded(x, y, centroidX, centroidY, factor float64, viewport Size) (float64, float64) {
	ex := centroidX + (x-centroidX)*factor
	ey := centroidY + (y-centroidY)*factor
	return p.Project(ex, ey, viewport)
}
