// Package provider defines the engine's upstream interfaces: the data
// provider that returns node/edge datasets on demand, and the command
// channel that triggers server-side recomputation. The layout engine never
// talks to the network directly; everything arrives through these.
package provider

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/simgraph/simgraph/pkg/graph"
)

// ErrNoCommandChannel is returned by providers that cannot trigger
// recomputation (e.g. a read-only snapshot file).
var ErrNoCommandChannel = errors.New("provider: no command channel available")

// Params selects what a graph load returns. TopK bounds edges per node;
// ClusterFilter restricts the load to one cluster; IncludeEdges=false
// yields a node-only scatter.
type Params struct {
	IncludeEdges  bool `json:"include_edges"`
	TopK          int  `json:"top_k"`
	ClusterFilter *int `json:"cluster_filter,omitempty"`
}

// DataProvider returns a dataset for the given parameters. Implementations
// must tolerate absent edges and must not block beyond ctx.
type DataProvider interface {
	LoadGraph(ctx context.Context, params Params) (*graph.Dataset, error)
}

// Task describes a regeneration accepted by the command channel.
type Task struct {
	TaskID               string `json:"task_id"`
	EstimatedTimeSeconds int    `json:"estimated_time_seconds"`
	DocumentCount        int    `json:"document_count"`
}

// CommandChannel triggers server-side cluster recomputation.
type CommandChannel interface {
	Regenerate(ctx context.Context, params Params) (Task, error)
}

// regenBuffer is added on top of the server's estimate before reloading.
const regenBuffer = 5 * time.Second

// AwaitRegeneration waits out the server's time estimate plus a fixed
// buffer, or returns early when ctx is cancelled. Completion is assumed,
// not confirmed: the command channel offers no status endpoint, so this is
// a best-effort synchronization (see DESIGN.md).
func AwaitRegeneration(ctx context.Context, task Task) error {
	wait := time.Duration(task.EstimatedTimeSeconds)*time.Second + regenBuffer
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PruneTopK keeps, per node, only the K highest-similarity edges. An edge
// survives when it ranks within the top K of either endpoint. K <= 0
// disables pruning.
func PruneTopK(edges []graph.Edge, k int) []graph.Edge {
	if k <= 0 || len(edges) == 0 {
		return edges
	}

	perNode := make(map[string][]graph.Edge)
	for _, e := range edges {
		perNode[e.SourceID] = append(perNode[e.SourceID], e)
		perNode[e.TargetID] = append(perNode[e.TargetID], e)
	}

	keep := make(map[string]struct{})
	for _, list := range perNode {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Similarity > list[j].Similarity
		})
		if len(list) > k {
			list = list[:k]
		}
		for _, e := range list {
			keep[e.Key()] = struct{}{}
		}
	}

	out := make([]graph.Edge, 0, len(keep))
	for _, e := range edges {
		if _, ok := keep[e.Key()]; ok {
			out = append(out, e)
		}
	}
	return out
}

// applyParams applies client-side parameter filtering to a full dataset.
// Shared by providers whose backing store is a complete snapshot.
func applyParams(ds *graph.Dataset, params Params) *graph.Dataset {
	out := &graph.Dataset{
		Nodes:        ds.Nodes,
		ClusterStats: ds.ClusterStats,
		Meta:         ds.Meta,
	}

	if params.ClusterFilter != nil {
		var nodes []graph.Node
		for _, n := range ds.Nodes {
			if n.Cluster == *params.ClusterFilter {
				nodes = append(nodes, n)
			}
		}
		out.Nodes = nodes
	}

	if params.IncludeEdges {
		ids := make(map[string]struct{}, len(out.Nodes))
		for _, n := range out.Nodes {
			ids[n.ID] = struct{}{}
		}
		var edges []graph.Edge
		for _, e := range ds.Edges {
			if _, ok := ids[e.SourceID]; !ok {
				continue
			}
			if _, ok := ids[e.TargetID]; !ok {
				continue
			}
			edges = append(edges, e)
		}
		out.Edges = PruneTopK(edges, params.TopK)
	}
	return out
}
