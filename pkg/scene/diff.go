package scene

import (
	"fmt"

	"github.com/simgraph/simgraph/pkg/graph"
)

// PatchOp identifies a scene mutation.
type PatchOp uint8

const (
	// OpAddNode inserts a node entity.
	OpAddNode PatchOp = 0x01
	// OpUpdateNode replaces a node's data record (same identity).
	OpUpdateNode PatchOp = 0x02
	// OpRemoveNode removes a node entity.
	OpRemoveNode PatchOp = 0x03
	// OpAddEdge inserts an edge entity.
	OpAddEdge PatchOp = 0x04
	// OpRemoveEdge removes an edge entity.
	OpRemoveEdge PatchOp = 0x05
	// OpStyleNode changes a node's style only.
	OpStyleNode PatchOp = 0x06
	// OpStyleEdge changes an edge's style only.
	OpStyleEdge PatchOp = 0x07
	// OpUpdateEdge replaces an edge's data record (same identity).
	OpUpdateEdge PatchOp = 0x08
)

// Patch is a single scene mutation, keyed by the entity's stable id
// (node id, or "sourceId-targetId" for edges).
type Patch struct {
	Op   PatchOp
	ID   string
	Node *Node `json:",omitempty"`
	Edge *Edge `json:",omitempty"`
}

// String returns a human-readable representation of the patch.
func (p Patch) String() string {
	switch p.Op {
	case OpAddNode:
		return fmt.Sprintf("AddNode(%s)", p.ID)
	case OpUpdateNode:
		return fmt.Sprintf("UpdateNode(%s)", p.ID)
	case OpRemoveNode:
		return fmt.Sprintf("RemoveNode(%s)", p.ID)
	case OpAddEdge:
		return fmt.Sprintf("AddEdge(%s)", p.ID)
	case OpRemoveEdge:
		return fmt.Sprintf("RemoveEdge(%s)", p.ID)
	case OpStyleNode:
		return fmt.Sprintf("StyleNode(%s)", p.ID)
	case OpStyleEdge:
		return fmt.Sprintf("StyleEdge(%s)", p.ID)
	case OpUpdateEdge:
		return fmt.Sprintf("UpdateEdge(%s)", p.ID)
	default:
		return fmt.Sprintf("Unknown(op=%d)", p.Op)
	}
}

// Result is the outcome of a reconciliation pass.
type Result struct {
	Scene   *Scene
	Patches []Patch
	Rebuilt bool // true only when no prior scene existed
}

// Reconcile diffs the new node/edge collections against the previous scene
// and produces the next scene plus the minimal patch set. Entities that
// persist across the change keep their identity, so runtime-only state
// (velocity, pins, current position) is carried forward and simulation
// momentum survives routine filter changes.
//
// A full rebuild happens only when prev is nil. Edges whose endpoints are
// missing from the node set are dropped here and never reach a layout.
func Reconcile(prev *Scene, nodes []graph.Node, edges []graph.Edge) Result {
	next := &Scene{
		Nodes: make([]*Node, 0, len(nodes)),
		Edges: make([]*Edge, 0, len(edges)),
	}
	var patches []Patch

	present := make(map[string]struct{}, len(nodes))
	for _, data := range nodes {
		present[data.ID] = struct{}{}

		if prev != nil {
			if old := prev.NodeByID(data.ID); old != nil {
				if old.Data != data {
					old.Data = data
					patches = append(patches, Patch{Op: OpUpdateNode, ID: data.ID, Node: old})
				}
				next.Nodes = append(next.Nodes, old)
				continue
			}
		}
		n := &Node{Data: data, Style: DefaultNodeStyle}
		next.Nodes = append(next.Nodes, n)
		patches = append(patches, Patch{Op: OpAddNode, ID: data.ID, Node: n})
	}

	if prev != nil {
		for _, old := range prev.Nodes {
			if _, ok := present[old.Data.ID]; !ok {
				patches = append(patches, Patch{Op: OpRemoveNode, ID: old.Data.ID})
			}
		}
	}

	seen := make(map[string]struct{}, len(edges))
	for _, data := range edges {
		// Dangling edges are dropped silently at this boundary.
		if _, ok := present[data.SourceID]; !ok {
			continue
		}
		if _, ok := present[data.TargetID]; !ok {
			continue
		}
		key := data.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if prev != nil {
			if old := prev.EdgeByKey(key); old != nil {
				if old.Data != data {
					old.Data = data
					patches = append(patches, Patch{Op: OpUpdateEdge, ID: key, Edge: old})
				}
				next.Edges = append(next.Edges, old)
				continue
			}
		}
		e := &Edge{Data: data, Style: DefaultEdgeStyle}
		next.Edges = append(next.Edges, e)
		patches = append(patches, Patch{Op: OpAddEdge, ID: key, Edge: e})
	}

	if prev != nil {
		for _, old := range prev.Edges {
			if _, ok := seen[old.Key()]; !ok {
				patches = append(patches, Patch{Op: OpRemoveEdge, ID: old.Key()})
			}
		}
	}

	next.index()
	return Result{Scene: next, Patches: patches, Rebuilt: prev == nil}
}

// SetEdgesVisible toggles edge visibility as a style-only change. Entity
// identities are untouched; the returned patches carry only restyles.
func SetEdgesVisible(s *Scene, visible bool) []Patch {
	if s == nil {
		return nil
	}
	patches := make([]Patch, 0, len(s.Edges))
	for _, e := range s.Edges {
		if e.Style.Visible == visible {
			continue
		}
		e.Style.Visible = visible
		patches = append(patches, Patch{Op: OpStyleEdge, ID: e.Key(), Edge: e})
	}
	return patches
}
