package graph

import (
	"fmt"
	"testing"
)

func testDataset() *Dataset {
	return &Dataset{
		Nodes: []Node{
			{ID: "a", Cluster: 0},
			{ID: "b", Cluster: 0},
			{ID: "c", Cluster: 1},
			{ID: "d", Cluster: 1},
		},
		Edges: []Edge{
			{SourceID: "a", TargetID: "b", Similarity: 0.9},
			{SourceID: "b", TargetID: "c", Similarity: 0.6}, // crosses clusters
			{SourceID: "c", TargetID: "d", Similarity: 0.7},
		},
	}
}

func TestFilterClusterNil(t *testing.T) {
	s := NewStore()
	s.Replace(testDataset())

	nodes, edges := s.FilterCluster(nil)
	if len(nodes) != 4 || len(edges) != 3 {
		t.Fatalf("nil filter: got %d nodes / %d edges, want 4/3", len(nodes), len(edges))
	}
}

func TestFilterClusterDropsBoundaryEdges(t *testing.T) {
	s := NewStore()
	s.Replace(testDataset())

	zero := 0
	nodes, edges := s.FilterCluster(&zero)
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1 (the b-c edge must not survive)", len(edges))
	}
	if edges[0].Key() != "a-b" {
		t.Errorf("surviving edge = %s, want a-b", edges[0].Key())
	}
}

func TestFilterClusterEmptyMatch(t *testing.T) {
	s := NewStore()
	s.Replace(testDataset())

	missing := 42
	nodes, edges := s.FilterCluster(&missing)
	if len(nodes) != 0 || len(edges) != 0 {
		t.Errorf("empty match should yield empty slices, got %d/%d", len(nodes), len(edges))
	}
}

func TestNeighborsRankedAndCapped(t *testing.T) {
	ds := &Dataset{Nodes: []Node{{ID: "hub"}}}
	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("n%d", i)
		ds.Nodes = append(ds.Nodes, Node{ID: id})
		ds.Edges = append(ds.Edges, Edge{
			SourceID:   "hub",
			TargetID:   id,
			Similarity: float64(i) / 20.0,
		})
	}

	s := NewStore()
	s.Replace(ds)

	got := s.Neighbors("hub")
	if len(got) != MaxNeighbors {
		t.Fatalf("got %d neighbors, want %d", len(got), MaxNeighbors)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Similarity > got[i-1].Similarity {
			t.Fatalf("neighbors not descending at %d: %v > %v", i, got[i].Similarity, got[i-1].Similarity)
		}
	}
	if got[0].Node.ID != "n14" {
		t.Errorf("strongest neighbor = %s, want n14", got[0].Node.ID)
	}
}

func TestNeighborsUnknownNode(t *testing.T) {
	s := NewStore()
	s.Replace(testDataset())
	if got := s.Neighbors("nope"); len(got) != 0 {
		t.Errorf("unknown node should have no neighbors, got %d", len(got))
	}
}

func TestNeighborIDs(t *testing.T) {
	edges := testDataset().Edges
	ids := NeighborIDs(edges, "b")
	if len(ids) != 2 {
		t.Fatalf("got %d neighbor ids, want 2", len(ids))
	}
	for _, want := range []string{"a", "c"} {
		if _, ok := ids[want]; !ok {
			t.Errorf("missing neighbor %s", want)
		}
	}
}
