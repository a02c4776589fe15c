package interact

import (
	"testing"

	"github.com/simgraph/simgraph/pkg/graph"
	"github.com/simgraph/simgraph/pkg/layout"
	"github.com/simgraph/simgraph/pkg/scene"
)

func pickScene() *scene.Scene {
	res := scene.Reconcile(nil,
		[]graph.Node{{ID: "under"}, {ID: "over"}},
		nil)
	// Same spot; "over" is drawn later.
	res.Scene.NodeByID("under").X, res.Scene.NodeByID("under").Y = 100, 100
	res.Scene.NodeByID("over").X, res.Scene.NodeByID("over").Y = 100, 100
	return res.Scene
}

func TestHitTestPicksTopmost(t *testing.T) {
	sc := pickScene()
	n := HitTest(sc, 100, 100)
	if n == nil || n.Data.ID != "over" {
		t.Fatalf("picked %v, want the later-drawn node", n)
	}
}

func TestHitTestRespectsRadius(t *testing.T) {
	sc := pickScene()
	r := scene.DefaultNodeStyle.Radius
	if HitTest(sc, 100+r, 100) == nil {
		t.Error("a point on the rim should hit")
	}
	if HitTest(sc, 100+r+1, 100) != nil {
		t.Error("a point outside the radius should miss")
	}
	if HitTest(nil, 0, 0) != nil {
		t.Error("nil scene should miss")
	}
}

func TestDragPhysicsReleasesPin(t *testing.T) {
	sc := pickScene()
	n := sc.NodeByID("over")
	d := NewDragger(layout.ModePhysics)

	d.Start(n)
	if n.Fixed == nil {
		t.Fatal("drag start must pin the node")
	}
	d.Move(200, 250)
	if n.X != 200 || n.Y != 250 {
		t.Errorf("node at (%v,%v), want (200,250)", n.X, n.Y)
	}

	got, moved := d.End()
	if got != n || !moved {
		t.Fatalf("End = (%v,%v), want the node with moved=true", got, moved)
	}
	if n.Fixed != nil {
		t.Error("physics mode must unpin on drag end")
	}
}

func TestDragFixedStaysPinned(t *testing.T) {
	sc := pickScene()
	n := sc.NodeByID("over")
	d := NewDragger(layout.ModeFixed)

	d.Start(n)
	d.Move(300, 300)
	d.End()

	if n.Fixed == nil {
		t.Fatal("fixed mode keeps the node pinned at the drop point")
	}
	if n.Fixed.X != 300 || n.Fixed.Y != 300 {
		t.Errorf("pin at (%v,%v), want (300,300)", n.Fixed.X, n.Fixed.Y)
	}
}

func TestPressReleaseWithoutMotionIsNotADrag(t *testing.T) {
	sc := pickScene()
	d := NewDragger(layout.ModePhysics)

	d.Start(sc.NodeByID("over"))
	_, moved := d.End()
	if moved {
		t.Error("a motionless press-release must not count as a drag")
	}
}

func TestDragIgnoresNilAndIdleCalls(t *testing.T) {
	d := NewDragger(layout.ModePhysics)
	d.Start(nil)
	if d.Active() {
		t.Error("nil start must not activate")
	}
	d.Move(1, 2) // no-op
	if n, moved := d.End(); n != nil || moved {
		t.Error("idle end must return nothing")
	}
}

func TestDragCancel(t *testing.T) {
	sc := pickScene()
	n := sc.NodeByID("over")
	d := NewDragger(layout.ModePhysics)

	d.Start(n)
	d.Cancel()
	if d.Active() {
		t.Error("cancel must deactivate the drag")
	}
	if n.Fixed != nil {
		t.Error("physics cancel must unpin")
	}
}
