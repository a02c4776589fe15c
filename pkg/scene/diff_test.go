package scene

import (
	"testing"

	"github.com/simgraph/simgraph/pkg/graph"
)

func nodes(ids ...string) []graph.Node {
	out := make([]graph.Node, len(ids))
	for i, id := range ids {
		out[i] = graph.Node{ID: id}
	}
	return out
}

func countOps(patches []Patch, op PatchOp) int {
	n := 0
	for _, p := range patches {
		if p.Op == op {
			n++
		}
	}
	return n
}

func TestReconcileFirstLoadRebuilds(t *testing.T) {
	res := Reconcile(nil, nodes("a", "b"), []graph.Edge{
		{SourceID: "a", TargetID: "b", Similarity: 0.5},
	})

	if !res.Rebuilt {
		t.Fatal("first load must report a rebuild")
	}
	if len(res.Scene.Nodes) != 2 || len(res.Scene.Edges) != 1 {
		t.Fatalf("scene has %d nodes / %d edges, want 2/1", len(res.Scene.Nodes), len(res.Scene.Edges))
	}
	if res.Scene.NodeByID("a").Style != DefaultNodeStyle {
		t.Error("new nodes start with the default style")
	}
}

func TestReconcilePreservesIdentity(t *testing.T) {
	first := Reconcile(nil, nodes("a", "b", "c"), []graph.Edge{
		{SourceID: "a", TargetID: "b", Similarity: 0.5},
	})

	// Give a surviving node runtime state that must be carried forward.
	a := first.Scene.NodeByID("a")
	a.X, a.Y = 42, 24
	a.VX = 7
	keptEdge := first.Scene.EdgeByKey("a-b")

	second := Reconcile(first.Scene, nodes("a", "b"), []graph.Edge{
		{SourceID: "a", TargetID: "b", Similarity: 0.5},
	})

	if second.Rebuilt {
		t.Fatal("re-filter must not rebuild")
	}
	if second.Scene.NodeByID("a") != a {
		t.Fatal("surviving node lost its identity")
	}
	if a.X != 42 || a.VX != 7 {
		t.Error("runtime state did not survive reconciliation")
	}
	if second.Scene.EdgeByKey("a-b") != keptEdge {
		t.Error("surviving edge lost its identity")
	}

	if got := countOps(second.Patches, OpRemoveNode); got != 1 {
		t.Errorf("got %d RemoveNode patches, want 1", got)
	}
	if got := countOps(second.Patches, OpAddNode); got != 0 {
		t.Errorf("got %d AddNode patches, want 0", got)
	}
}

func TestReconcileEmitsUpdateOnDataChange(t *testing.T) {
	first := Reconcile(nil, nodes("a"), nil)

	changed := []graph.Node{{ID: "a", Title: "renamed"}}
	second := Reconcile(first.Scene, changed, nil)

	if got := countOps(second.Patches, OpUpdateNode); got != 1 {
		t.Fatalf("got %d UpdateNode patches, want 1", got)
	}
	if second.Scene.NodeByID("a").Data.Title != "renamed" {
		t.Error("data record was not replaced")
	}
}

func TestReconcileEmitsUpdateOnEdgeDataChange(t *testing.T) {
	first := Reconcile(nil, nodes("a", "b"), []graph.Edge{
		{SourceID: "a", TargetID: "b", Similarity: 0.5},
	})
	kept := first.Scene.EdgeByKey("a-b")

	// Same pair, shifted similarity (a regeneration reload does this).
	second := Reconcile(first.Scene, nodes("a", "b"), []graph.Edge{
		{SourceID: "a", TargetID: "b", Similarity: 0.8},
	})

	if got := countOps(second.Patches, OpUpdateEdge); got != 1 {
		t.Fatalf("got %d UpdateEdge patches, want 1", got)
	}
	if second.Scene.EdgeByKey("a-b") != kept {
		t.Fatal("updated edge lost its identity")
	}
	if kept.Data.Similarity != 0.8 {
		t.Errorf("similarity = %v, want 0.8", kept.Data.Similarity)
	}

	// An unchanged edge emits nothing.
	third := Reconcile(second.Scene, nodes("a", "b"), []graph.Edge{
		{SourceID: "a", TargetID: "b", Similarity: 0.8},
	})
	if got := countOps(third.Patches, OpUpdateEdge); got != 0 {
		t.Errorf("got %d UpdateEdge patches for identical data, want 0", got)
	}
}

func TestReconcileDropsDanglingEdges(t *testing.T) {
	res := Reconcile(nil, nodes("a", "b"), []graph.Edge{
		{SourceID: "a", TargetID: "b", Similarity: 0.5},
		{SourceID: "a", TargetID: "ghost", Similarity: 0.9},
		{SourceID: "ghost", TargetID: "b", Similarity: 0.9},
	})
	if len(res.Scene.Edges) != 1 {
		t.Fatalf("got %d edges, want 1 (dangling edges must drop)", len(res.Scene.Edges))
	}
	a, b := res.Scene.Endpoints(res.Scene.Edges[0])
	if a == nil || b == nil {
		t.Error("surviving edge must resolve both endpoints")
	}
}

func TestReconcileDropsDuplicateEdgeKeys(t *testing.T) {
	res := Reconcile(nil, nodes("a", "b"), []graph.Edge{
		{SourceID: "a", TargetID: "b", Similarity: 0.5},
		{SourceID: "a", TargetID: "b", Similarity: 0.8},
	})
	if len(res.Scene.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(res.Scene.Edges))
	}
}

func TestReconcileRemovesDepartedEdges(t *testing.T) {
	first := Reconcile(nil, nodes("a", "b", "c"), []graph.Edge{
		{SourceID: "a", TargetID: "b", Similarity: 0.5},
		{SourceID: "b", TargetID: "c", Similarity: 0.5},
	})
	second := Reconcile(first.Scene, nodes("a", "b"), []graph.Edge{
		{SourceID: "a", TargetID: "b", Similarity: 0.5},
	})

	// b-c loses an endpoint and must be removed alongside node c.
	if got := countOps(second.Patches, OpRemoveEdge); got != 1 {
		t.Errorf("got %d RemoveEdge patches, want 1", got)
	}
	if second.Scene.EdgeByKey("b-c") != nil {
		t.Error("departed edge still indexed")
	}
}

func TestSetEdgesVisibleIsStyleOnly(t *testing.T) {
	res := Reconcile(nil, nodes("a", "b", "c"), []graph.Edge{
		{SourceID: "a", TargetID: "b", Similarity: 0.5},
		{SourceID: "b", TargetID: "c", Similarity: 0.5},
	})
	sc := res.Scene
	before := make([]*Edge, len(sc.Edges))
	copy(before, sc.Edges)

	patches := SetEdgesVisible(sc, false)
	if len(patches) != 2 {
		t.Fatalf("got %d patches, want 2", len(patches))
	}
	for i, p := range patches {
		if p.Op != OpStyleEdge {
			t.Fatalf("patch %d is %v, want StyleEdge", i, p.Op)
		}
	}
	for i, e := range sc.Edges {
		if e != before[i] {
			t.Fatal("edge identity changed on a visibility toggle")
		}
		if e.Style.Visible {
			t.Fatal("edge still visible")
		}
	}

	// Toggling to the current state is a no-op.
	if again := SetEdgesVisible(sc, false); len(again) != 0 {
		t.Errorf("idempotent toggle emitted %d patches", len(again))
	}
}

func TestPatchString(t *testing.T) {
	p := Patch{Op: OpAddNode, ID: "a"}
	if p.String() != "AddNode(a)" {
		t.Errorf("got %q", p.String())
	}
}
