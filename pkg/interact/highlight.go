package interact

import (
	"github.com/simgraph/simgraph/pkg/graph"
	"github.com/simgraph/simgraph/pkg/scene"
)

// dimmedNodeOpacity is applied to every node outside the hovered node's
// direct neighborhood.
const dimmedNodeOpacity = 0.2

// connectedEdgeOpacity is applied to edges touching the hovered node; the
// tier then sets width and color.
const connectedEdgeOpacity = 0.9

// Unconnected edges are pushed further back while hovering. The filtered
// value is more aggressive: inside a small expanded cluster the edge
// density reads much noisier, so the background has to fade harder.
const (
	unconnectedEdgeOpacity         = 0.08
	unconnectedEdgeOpacityFiltered = 0.03
)

// TierStyle is the discrete styling for one similarity band. Styling is
// deliberately stepped, not a continuous gradient: five bands read at a
// glance where a gradient does not.
type TierStyle struct {
	Label string
	Width float64 // multiplier over the base edge width
	Color string
}

var (
	tier80    = TierStyle{Label: ">=0.8", Width: 3.0, Color: "#16a34a"}
	tier70    = TierStyle{Label: ">=0.7", Width: 2.5, Color: "#65a30d"}
	tier60    = TierStyle{Label: ">=0.6", Width: 2.0, Color: "#ca8a04"}
	tier50    = TierStyle{Label: ">=0.5", Width: 1.5, Color: "#ea580c"}
	tierBelow = TierStyle{Label: "<0.5", Width: 1.0, Color: "#64748b"}
)

// SimilarityTier maps a similarity to its discrete style band.
func SimilarityTier(similarity float64) TierStyle {
	switch {
	case similarity >= 0.8:
		return tier80
	case similarity >= 0.7:
		return tier70
	case similarity >= 0.6:
		return tier60
	case similarity >= 0.5:
		return tier50
	default:
		return tierBelow
	}
}

// Highlighter applies and clears hover highlighting on a scene. It owns no
// scene state beyond the currently hovered id; all styling goes through
// style patches so the patch stream stays the single render channel.
type Highlighter struct {
	hovered         string
	clusterFiltered bool
}

// NewHighlighter creates an idle highlighter.
func NewHighlighter() *Highlighter {
	return &Highlighter{}
}

// SetClusterFiltered switches the unconnected-edge dimming between the
// full-graph and the isolated-cluster tier.
func (h *Highlighter) SetClusterFiltered(filtered bool) {
	h.clusterFiltered = filtered
}

// Hovered returns the currently hovered node id, or "".
func (h *Highlighter) Hovered() string {
	return h.hovered
}

// Hover highlights nodeID and its direct neighbors: everything else dims,
// connected edges take their similarity-tier style, unconnected edges fade
// to the background. Returns the style patches to broadcast.
func (h *Highlighter) Hover(sc *scene.Scene, nodeID string) []scene.Patch {
	if sc == nil || sc.NodeByID(nodeID) == nil {
		return nil
	}
	h.hovered = nodeID

	edgeData := make([]graph.Edge, len(sc.Edges))
	for i, e := range sc.Edges {
		edgeData[i] = e.Data
	}
	neighbors := graph.NeighborIDs(edgeData, nodeID)

	var patches []scene.Patch
	for _, n := range sc.Nodes {
		style := n.Style
		if n.Data.ID == nodeID {
			style.Opacity = 1
		} else if _, ok := neighbors[n.Data.ID]; ok {
			style.Opacity = 1
		} else {
			style.Opacity = dimmedNodeOpacity
		}
		if style != n.Style {
			n.Style = style
			patches = append(patches, scene.Patch{Op: scene.OpStyleNode, ID: n.Data.ID, Node: n})
		}
	}

	dimmed := unconnectedEdgeOpacity
	if h.clusterFiltered {
		dimmed = unconnectedEdgeOpacityFiltered
	}
	for _, e := range sc.Edges {
		style := e.Style
		if e.Data.Touches(nodeID) {
			tier := SimilarityTier(e.Data.Similarity)
			style.Opacity = connectedEdgeOpacity
			style.Width = scene.DefaultEdgeStyle.Width * tier.Width
			style.Color = tier.Color
		} else {
			style.Opacity = dimmed
			style.Width = scene.DefaultEdgeStyle.Width
			style.Color = scene.DefaultEdgeStyle.Color
		}
		if style != e.Style {
			e.Style = style
			patches = append(patches, scene.Patch{Op: scene.OpStyleEdge, ID: e.Key(), Edge: e})
		}
	}
	return patches
}

// Clear restores default styling after the pointer leaves a node. Edge
// visibility is orthogonal to highlighting and survives the reset.
func (h *Highlighter) Clear(sc *scene.Scene) []scene.Patch {
	if sc == nil || h.hovered == "" {
		return nil
	}
	h.hovered = ""

	var patches []scene.Patch
	for _, n := range sc.Nodes {
		style := scene.DefaultNodeStyle
		style.Radius = n.Style.Radius
		style.Color = n.Style.Color
		if style != n.Style {
			n.Style = style
			patches = append(patches, scene.Patch{Op: scene.OpStyleNode, ID: n.Data.ID, Node: n})
		}
	}
	for _, e := range sc.Edges {
		style := scene.DefaultEdgeStyle
		style.Visible = e.Style.Visible
		if style != e.Style {
			e.Style = style
			patches = append(patches, scene.Patch{Op: scene.OpStyleEdge, ID: e.Key(), Edge: e})
		}
	}
	return patches
}
