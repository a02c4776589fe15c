package graph

import "sort"

// MaxNeighbors bounds the neighbor query result size.
const MaxNeighbors = 10

// Store holds the current node/edge arrays and metadata. Pure data: no
// rendering state lives here. The store is replaced wholesale on each
// dataset load and mutated only by the owning view controller.
type Store struct {
	dataset *Dataset
	byID    map[string]int // node id -> index into dataset.Nodes
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a new dataset, discarding the previous one.
func (s *Store) Replace(ds *Dataset) {
	s.dataset = ds
	s.byID = make(map[string]int, len(ds.Nodes))
	for i := range ds.Nodes {
		s.byID[ds.Nodes[i].ID] = i
	}
}

// Empty reports whether the store has no dataset loaded.
func (s *Store) Empty() bool {
	return s.dataset == nil || len(s.dataset.Nodes) == 0
}

// Dataset returns the current dataset, or nil before the first load.
func (s *Store) Dataset() *Dataset {
	return s.dataset
}

// Node returns the node with the given id.
func (s *Store) Node(id string) (Node, bool) {
	if s.dataset == nil {
		return Node{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Node{}, false
	}
	return s.dataset.Nodes[i], true
}

// Nodes returns all nodes of the current dataset.
func (s *Store) Nodes() []Node {
	if s.dataset == nil {
		return nil
	}
	return s.dataset.Nodes
}

// Edges returns all edges of the current dataset.
func (s *Store) Edges() []Edge {
	if s.dataset == nil {
		return nil
	}
	return s.dataset.Edges
}

// ClusterStats returns the per-cluster aggregates.
func (s *Store) ClusterStats() []ClusterStat {
	if s.dataset == nil {
		return nil
	}
	return s.dataset.ClusterStats
}

// FilterCluster returns the node subset for a cluster filter together with
// only those edges whose both endpoints survive the filter. A nil filter
// returns the full graph. A filter matching zero nodes is valid and returns
// empty slices.
func (s *Store) FilterCluster(clusterID *int) ([]Node, []Edge) {
	if s.dataset == nil {
		return nil, nil
	}
	if clusterID == nil {
		return s.dataset.Nodes, s.dataset.Edges
	}

	var nodes []Node
	keep := make(map[string]struct{})
	for _, n := range s.dataset.Nodes {
		if n.Cluster == *clusterID {
			nodes = append(nodes, n)
			keep[n.ID] = struct{}{}
		}
	}

	var edges []Edge
	for _, e := range s.dataset.Edges {
		if _, ok := keep[e.SourceID]; !ok {
			continue
		}
		if _, ok := keep[e.TargetID]; !ok {
			continue
		}
		edges = append(edges, e)
	}
	return nodes, edges
}

// Neighbor is one entry of a neighbor query result.
type Neighbor struct {
	Node       Node
	Similarity float64
}

// Neighbors answers the neighbor query from already-loaded edges: all nodes
// sharing an edge with nodeID, ranked by similarity descending, capped at
// MaxNeighbors. No network round trip is involved.
func (s *Store) Neighbors(nodeID string) []Neighbor {
	if s.dataset == nil {
		return nil
	}
	var out []Neighbor
	for _, e := range s.dataset.Edges {
		other := e.Other(nodeID)
		if other == "" {
			continue
		}
		if n, ok := s.Node(other); ok {
			out = append(out, Neighbor{Node: n, Similarity: e.Similarity})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	if len(out) > MaxNeighbors {
		out = out[:MaxNeighbors]
	}
	return out
}

// NeighborIDs returns the id set of direct neighbors of nodeID among the
// given edges. Used by hover highlighting, which operates on the filtered
// edge subset rather than the full dataset.
func NeighborIDs(edges []Edge, nodeID string) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, e := range edges {
		if other := e.Other(nodeID); other != "" {
			ids[other] = struct{}{}
		}
	}
	return ids
}
