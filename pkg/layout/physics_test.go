package layout

import (
	"math"
	"testing"

	"github.com/simgraph/simgraph/pkg/graph"
	"github.com/simgraph/simgraph/pkg/scene"
)

func physicsScene(edges []graph.Edge, nodes ...graph.Node) *scene.Scene {
	res := scene.Reconcile(nil, nodes, edges)
	return res.Scene
}

func dist(a, b *scene.Node) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func TestPhysicsRepulsionSeparatesNodes(t *testing.T) {
	sc := physicsScene(nil,
		graph.Node{ID: "a"},
		graph.Node{ID: "b"},
	)
	// Start nearly overlapping at the viewport center.
	sc.NodeByID("a").X, sc.NodeByID("a").Y = 399, 300
	sc.NodeByID("b").X, sc.NodeByID("b").Y = 401, 300

	p := NewPhysics()
	p.Initialize(sc, Size{Width: 800, Height: 600})

	before := dist(sc.NodeByID("a"), sc.NodeByID("b"))
	for i := 0; i < 30; i++ {
		p.Tick(0.016)
	}
	after := dist(sc.NodeByID("a"), sc.NodeByID("b"))
	if after <= before {
		t.Errorf("repulsion should separate nodes: %v -> %v", before, after)
	}
}

func TestPhysicsSpringPullsEdgeTogether(t *testing.T) {
	edges := []graph.Edge{{SourceID: "a", TargetID: "b", Similarity: 0.9}}
	sc := physicsScene(edges,
		graph.Node{ID: "a"},
		graph.Node{ID: "b"},
	)
	// Far beyond the rest length.
	sc.NodeByID("a").X, sc.NodeByID("a").Y = 100, 300
	sc.NodeByID("b").X, sc.NodeByID("b").Y = 700, 300

	p := NewPhysics()
	p.Initialize(sc, Size{Width: 800, Height: 600})

	before := dist(sc.NodeByID("a"), sc.NodeByID("b"))
	for i := 0; i < 30; i++ {
		p.Tick(0.016)
	}
	after := dist(sc.NodeByID("a"), sc.NodeByID("b"))
	if after >= before {
		t.Errorf("spring should pull endpoints together: %v -> %v", before, after)
	}
}

func TestPhysicsPinnedNodeStaysPut(t *testing.T) {
	sc := physicsScene(nil,
		graph.Node{ID: "a"},
		graph.Node{ID: "b"},
	)
	a := sc.NodeByID("a")
	a.Pin(100, 100)
	sc.NodeByID("b").X, sc.NodeByID("b").Y = 105, 100

	p := NewPhysics()
	p.Initialize(sc, Size{Width: 800, Height: 600})
	for i := 0; i < 20; i++ {
		p.Tick(0.016)
	}
	if a.X != 100 || a.Y != 100 {
		t.Errorf("pinned node moved to (%v,%v)", a.X, a.Y)
	}
	if a.VX != 0 || a.VY != 0 {
		t.Errorf("pinned node holds velocity (%v,%v)", a.VX, a.VY)
	}
}

func TestPhysicsStopIsDeterministic(t *testing.T) {
	sc := physicsScene(nil,
		graph.Node{ID: "a"},
		graph.Node{ID: "b"},
	)
	sc.NodeByID("b").X = 5

	p := NewPhysics()
	p.Initialize(sc, Size{Width: 800, Height: 600})
	p.Tick(0.016)
	p.Stop()

	for _, n := range sc.Nodes {
		if n.VX != 0 || n.VY != 0 {
			t.Fatalf("node %s keeps velocity after Stop", n.Data.ID)
		}
	}
	if p.Tick(0.016) {
		t.Error("a stopped simulation must not advance")
	}
	if p.Active() {
		t.Error("stopped simulation reports active")
	}
}

func TestPhysicsCoolsDown(t *testing.T) {
	sc := physicsScene(nil, graph.Node{ID: "a"})
	p := NewPhysics()
	p.Initialize(sc, Size{Width: 800, Height: 600})

	// alpha decays 2% per tick; it must cross the floor well within a few
	// thousand ticks.
	for i := 0; i < 5000 && p.Tick(0.016); i++ {
	}
	if p.Tick(0.016) {
		t.Error("simulation never cooled down")
	}
	if p.Active() {
		t.Error("cooled simulation reports active")
	}
}

func TestPhysicsReheatRestartsMotion(t *testing.T) {
	sc := physicsScene(nil, graph.Node{ID: "a"})
	p := NewPhysics()
	p.Initialize(sc, Size{Width: 800, Height: 600})
	for i := 0; i < 5000 && p.Tick(0.016); i++ {
	}

	p.Reheat()
	if !p.Tick(0.016) {
		t.Error("reheated simulation should advance again")
	}
}

func TestPhysicsEmptySceneIdle(t *testing.T) {
	p := NewPhysics()
	p.Initialize(physicsScene(nil), Size{Width: 800, Height: 600})
	if p.Tick(0.016) {
		t.Error("empty scene should not report motion")
	}
}
