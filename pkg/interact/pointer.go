package interact

import (
	"github.com/simgraph/simgraph/pkg/layout"
	"github.com/simgraph/simgraph/pkg/scene"
)

// HitTest picks the topmost node whose radius covers the given pre-viewport
// position, or nil. Callers convert pointer coordinates out of the viewport
// transform first.
func HitTest(sc *scene.Scene, x, y float64) *scene.Node {
	if sc == nil {
		return nil
	}
	// Iterate back to front so later-drawn nodes win.
	for i := len(sc.Nodes) - 1; i >= 0; i-- {
		n := sc.Nodes[i]
		r := n.Style.Radius
		if r <= 0 {
			r = scene.DefaultNodeStyle.Radius
		}
		dx := x - n.X
		dy := y - n.Y
		if dx*dx+dy*dy <= r*r {
			return n
		}
	}
	return nil
}

// Dragger implements drag-to-reposition. The semantics depend on the
// layout mode: in physics mode the node is pinned only for the duration of
// the drag and released back into the simulation on drag end; in fixed mode
// there is no restoring force, so the node stays pinned where it was
// dropped.
type Dragger struct {
	mode    layout.Mode
	node    *scene.Node
	dragged bool
}

// NewDragger creates an idle dragger for the given mode.
func NewDragger(mode layout.Mode) *Dragger {
	return &Dragger{mode: mode}
}

// SetMode switches the drag semantics on a layout mode change. An active
// drag is carried over.
func (d *Dragger) SetMode(mode layout.Mode) {
	d.mode = mode
}

// Active reports whether a drag is in progress.
func (d *Dragger) Active() bool {
	return d.node != nil
}

// Start begins dragging the given node.
func (d *Dragger) Start(n *scene.Node) {
	if n == nil {
		return
	}
	d.node = n
	d.dragged = false
	n.Pin(n.X, n.Y)
}

// Move repositions the dragged node. No-op when no drag is active.
func (d *Dragger) Move(x, y float64) {
	if d.node == nil {
		return
	}
	d.dragged = true
	d.node.Pin(x, y)
}

// End finishes the drag and returns the node together with whether the
// pointer actually moved (a motionless press-release is a click, not a
// drag). In physics mode the node is unpinned.
func (d *Dragger) End() (*scene.Node, bool) {
	n := d.node
	if n == nil {
		return nil, false
	}
	d.node = nil
	if d.mode == layout.ModePhysics {
		n.Unpin()
	}
	return n, d.dragged
}

// Cancel aborts an in-flight drag without changing pin state beyond the
// mode's release rule. Used on scene teardown.
func (d *Dragger) Cancel() {
	if d.node != nil && d.mode == layout.ModePhysics {
		d.node.Unpin()
	}
	d.node = nil
	d.dragged = false
}
