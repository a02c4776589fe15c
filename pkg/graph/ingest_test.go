package graph

import (
	"math"
	"testing"
)

func TestIngestDropsMalformedNodes(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		dropped bool
	}{
		{"valid", Node{ID: "a", X: 1, Y: 2}, false},
		{"empty id", Node{ID: "", X: 1, Y: 2}, true},
		{"nan x", Node{ID: "b", X: math.NaN(), Y: 2}, true},
		{"inf y", Node{ID: "c", X: 1, Y: math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := &Dataset{Nodes: []Node{tt.node}}
			rep := Ingest(ds)
			if tt.dropped {
				if rep.NodesDropped != 1 || rep.NodesKept != 0 {
					t.Errorf("expected drop, got kept=%d dropped=%d", rep.NodesKept, rep.NodesDropped)
				}
			} else if rep.NodesKept != 1 || rep.NodesDropped != 0 {
				t.Errorf("expected keep, got kept=%d dropped=%d", rep.NodesKept, rep.NodesDropped)
			}
		})
	}
}

func TestIngestDropsDuplicateIDs(t *testing.T) {
	ds := &Dataset{Nodes: []Node{
		{ID: "a", X: 0, Y: 0},
		{ID: "a", X: 5, Y: 5},
	}}
	rep := Ingest(ds)
	if rep.NodesKept != 1 || rep.NodesDropped != 1 {
		t.Fatalf("kept=%d dropped=%d, want 1/1", rep.NodesKept, rep.NodesDropped)
	}
	if ds.Nodes[0].X != 0 {
		t.Errorf("first occurrence should win, got X=%v", ds.Nodes[0].X)
	}
}

func TestIngestNormalizesNoise(t *testing.T) {
	ds := &Dataset{Nodes: []Node{{ID: "a", Cluster: -7}}}
	Ingest(ds)
	if ds.Nodes[0].Cluster != Noise || !ds.Nodes[0].IsNoise {
		t.Errorf("negative cluster should normalize to Noise, got cluster=%d isNoise=%v",
			ds.Nodes[0].Cluster, ds.Nodes[0].IsNoise)
	}
}

func TestIngestValidatesEdges(t *testing.T) {
	nodes := []Node{{ID: "a"}, {ID: "b"}}
	tests := []struct {
		name string
		edge Edge
		kept bool
	}{
		{"valid", Edge{SourceID: "a", TargetID: "b", Similarity: 0.5}, true},
		{"similarity one", Edge{SourceID: "a", TargetID: "b", Similarity: 1}, true},
		{"similarity zero", Edge{SourceID: "a", TargetID: "b", Similarity: 0}, true},
		{"self loop", Edge{SourceID: "a", TargetID: "a", Similarity: 0.5}, false},
		{"empty source", Edge{SourceID: "", TargetID: "b", Similarity: 0.5}, false},
		{"unknown endpoint", Edge{SourceID: "a", TargetID: "zz", Similarity: 0.5}, false},
		{"similarity above one", Edge{SourceID: "a", TargetID: "b", Similarity: 1.01}, false},
		{"negative similarity", Edge{SourceID: "a", TargetID: "b", Similarity: -0.1}, false},
		{"nan similarity", Edge{SourceID: "a", TargetID: "b", Similarity: math.NaN()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := &Dataset{
				Nodes: append([]Node(nil), nodes...),
				Edges: []Edge{tt.edge},
			}
			rep := Ingest(ds)
			if tt.kept && rep.EdgesKept != 1 {
				t.Errorf("edge should be kept, dropped=%d", rep.EdgesDropped)
			}
			if !tt.kept && rep.EdgesDropped != 1 {
				t.Errorf("edge should be dropped, kept=%d", rep.EdgesKept)
			}
		})
	}
}

func TestIngestCanonicalizesEdgeOrder(t *testing.T) {
	ds := &Dataset{
		Nodes: []Node{{ID: "a"}, {ID: "b"}},
		Edges: []Edge{{SourceID: "b", TargetID: "a", Similarity: 0.9}},
	}
	Ingest(ds)
	if ds.Edges[0].SourceID != "a" || ds.Edges[0].TargetID != "b" {
		t.Errorf("edge = %s-%s, want a-b", ds.Edges[0].SourceID, ds.Edges[0].TargetID)
	}
}

func TestIngestDropsReversedDuplicatePair(t *testing.T) {
	ds := &Dataset{
		Nodes: []Node{{ID: "a"}, {ID: "b"}},
		Edges: []Edge{
			{SourceID: "a", TargetID: "b", Similarity: 0.9},
			{SourceID: "b", TargetID: "a", Similarity: 0.7},
		},
	}
	rep := Ingest(ds)
	if rep.EdgesKept != 1 || rep.EdgesDropped != 1 {
		t.Fatalf("kept=%d dropped=%d, want 1/1", rep.EdgesKept, rep.EdgesDropped)
	}
	// First occurrence wins, same as duplicate nodes.
	if ds.Edges[0].Similarity != 0.9 {
		t.Errorf("similarity = %v, want 0.9", ds.Edges[0].Similarity)
	}
}

func TestIngestComputesMissingClusterStats(t *testing.T) {
	ds := &Dataset{Nodes: []Node{
		{ID: "a", Cluster: 0, Raw: DocumentSummary{Area: "tax"}},
		{ID: "b", Cluster: 0, Raw: DocumentSummary{Area: "tax"}},
		{ID: "c", Cluster: 0, Raw: DocumentSummary{Area: "tort"}},
		{ID: "d", Cluster: 1},
	}}
	rep := Ingest(ds)
	if !rep.StatsComputed {
		t.Fatal("stats should have been computed")
	}
	if len(ds.ClusterStats) != 2 {
		t.Fatalf("got %d cluster stats, want 2", len(ds.ClusterStats))
	}
	if ds.ClusterStats[0].Size != 3 || ds.ClusterStats[0].DominantArea != "tax" {
		t.Errorf("cluster 0: size=%d dominant=%q, want 3/tax",
			ds.ClusterStats[0].Size, ds.ClusterStats[0].DominantArea)
	}
}

func TestIngestKeepsProvidedStats(t *testing.T) {
	ds := &Dataset{
		Nodes:        []Node{{ID: "a"}},
		ClusterStats: []ClusterStat{{ClusterID: 0, Size: 99}},
	}
	rep := Ingest(ds)
	if rep.StatsComputed {
		t.Error("provided stats should not be recomputed")
	}
	if ds.ClusterStats[0].Size != 99 {
		t.Errorf("provided stats mutated: %+v", ds.ClusterStats[0])
	}
}

func TestEdgeKeyAndOther(t *testing.T) {
	e := Edge{SourceID: "a", TargetID: "b", Similarity: 0.9}
	if e.Key() != "a-b" {
		t.Errorf("key = %q, want a-b", e.Key())
	}
	if e.Other("a") != "b" || e.Other("b") != "a" || e.Other("c") != "" {
		t.Error("Other endpoint resolution is wrong")
	}
	if !e.Touches("a") || e.Touches("c") {
		t.Error("Touches is wrong")
	}
}
