package scene

import (
	"testing"

	"github.com/simgraph/simgraph/pkg/graph"
)

func TestCloneSharesNothingWithTheLiveScene(t *testing.T) {
	res := Reconcile(nil, nodes("a", "b"), []graph.Edge{
		{SourceID: "a", TargetID: "b", Similarity: 0.5},
	})
	live := res.Scene
	live.NodeByID("a").Pin(10, 20)

	snap := live.Clone()
	if snap.NodeByID("a") == live.NodeByID("a") {
		t.Fatal("clone aliases a live node")
	}
	if snap.EdgeByKey("a-b") == live.EdgeByKey("a-b") {
		t.Fatal("clone aliases a live edge")
	}
	if snap.NodeByID("a").Fixed == live.NodeByID("a").Fixed {
		t.Fatal("clone aliases a live pin")
	}

	// Mutations after the clone stay invisible to it.
	live.NodeByID("a").X = 999
	live.Edges[0].Style.Opacity = 0
	if snap.NodeByID("a").X != 10 {
		t.Errorf("snapshot X = %v, want 10", snap.NodeByID("a").X)
	}
	if snap.Edges[0].Style.Opacity != DefaultEdgeStyle.Opacity {
		t.Error("snapshot edge style changed with the live scene")
	}
}

func TestCloneNilScene(t *testing.T) {
	var s *Scene
	if s.Clone() != nil {
		t.Fatal("nil scene must clone to nil")
	}
}
