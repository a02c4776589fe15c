package scene

import "github.com/simgraph/simgraph/pkg/graph"

// Point is a 2D position in pre-viewport screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeStyle is the rendered appearance of a node. Mutated by the
// interaction layer, never by the layouts.
type NodeStyle struct {
	Opacity float64 `json:"opacity"`
	Radius  float64 `json:"radius"`
	Color   string  `json:"color,omitempty"`
}

// EdgeStyle is the rendered appearance of an edge. Visibility toggling is a
// pure style change: it never creates or removes edge entities.
type EdgeStyle struct {
	Opacity float64 `json:"opacity"`
	Width   float64 `json:"width"`
	Color   string  `json:"color,omitempty"`
	Visible bool    `json:"visible"`
}

// Node is a rendered node: the immutable data record plus the runtime
// fields the engine owns. X/Y are the current pre-viewport position; the
// velocity fields belong exclusively to the physics layout; Fixed pins the
// node against simulation forces.
//
// Node entities are carried forward by identity across re-filters so that
// runtime state survives and nodes do not visually jump.
type Node struct {
	Data graph.Node

	X, Y   float64
	VX, VY float64
	Fixed  *Point

	Style NodeStyle
}

// Pin fixes the node at the given position and zeroes its velocity.
func (n *Node) Pin(x, y float64) {
	n.X, n.Y = x, y
	n.Fixed = &Point{X: x, Y: y}
	n.VX, n.VY = 0, 0
}

// Unpin releases the node back to free movement.
func (n *Node) Unpin() {
	n.Fixed = nil
}

// Edge is a rendered edge. It stays id-based permanently; endpoint
// positions are resolved through the scene's node index at render time and
// never written back into the edge.
type Edge struct {
	Data  graph.Edge
	Style EdgeStyle
}

// Key returns the edge's stable reconciliation key.
func (e *Edge) Key() string {
	return e.Data.Key()
}

// DefaultNodeStyle is the appearance of an unhighlighted node.
var DefaultNodeStyle = NodeStyle{Opacity: 1, Radius: 8}

// DefaultEdgeStyle is the appearance of an unhighlighted edge.
var DefaultEdgeStyle = EdgeStyle{Opacity: 0.35, Width: 1, Visible: true}

// Scene is the rendered entity graph: the output of reconciliation and the
// input to layouts, interaction styling, and the patch stream.
type Scene struct {
	Nodes []*Node
	Edges []*Edge

	nodeByID  map[string]*Node
	edgeByKey map[string]*Edge
}

// NodeByID returns the rendered node with the given id, or nil.
func (s *Scene) NodeByID(id string) *Node {
	return s.nodeByID[id]
}

// EdgeByKey returns the rendered edge with the given key, or nil.
func (s *Scene) EdgeByKey(key string) *Edge {
	return s.edgeByKey[key]
}

// Endpoints resolves an edge's endpoints to rendered nodes. Both are
// guaranteed non-nil for edges that passed reconciliation.
func (s *Scene) Endpoints(e *Edge) (*Node, *Node) {
	return s.nodeByID[e.Data.SourceID], s.nodeByID[e.Data.TargetID]
}

// Clone returns a deep copy of the scene. Snapshots handed to other
// goroutines must not alias entities the engine loop keeps mutating.
func (s *Scene) Clone() *Scene {
	if s == nil {
		return nil
	}
	c := &Scene{
		Nodes: make([]*Node, len(s.Nodes)),
		Edges: make([]*Edge, len(s.Edges)),
	}
	for i, n := range s.Nodes {
		cp := *n
		if n.Fixed != nil {
			f := *n.Fixed
			cp.Fixed = &f
		}
		c.Nodes[i] = &cp
	}
	for i, e := range s.Edges {
		cp := *e
		c.Edges[i] = &cp
	}
	c.index()
	return c
}

func (s *Scene) index() {
	s.nodeByID = make(map[string]*Node, len(s.Nodes))
	for _, n := range s.Nodes {
		s.nodeByID[n.Data.ID] = n
	}
	s.edgeByKey = make(map[string]*Edge, len(s.Edges))
	for _, e := range s.Edges {
		s.edgeByKey[e.Key()] = e
	}
}
