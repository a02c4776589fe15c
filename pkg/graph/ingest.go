package graph

import (
	"log"
	"math"
)

// debugLog is set by the host to enable verbose ingestion traces.
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function for the graph package.
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// IngestReport counts what ingestion kept and what it dropped.
type IngestReport struct {
	NodesKept     int
	NodesDropped  int
	EdgesKept     int
	EdgesDropped  int
	StatsComputed bool
}

// Ingest validates a raw dataset in place. Malformed node or edge records
// are dropped with a logged warning and never abort the load: a bad record
// costs one node or edge, not the scene.
//
// A node is malformed when its id is empty or a coordinate is NaN/Inf.
// An edge is malformed when either endpoint id is empty or unknown, when it
// is a self loop, or when similarity falls outside [0,1]. Edge endpoints
// are canonicalized to ascending id order so A-B and B-A share one key;
// the later occurrence of such a pair is dropped as a duplicate.
func Ingest(ds *Dataset) IngestReport {
	var rep IngestReport

	nodes := ds.Nodes[:0]
	ids := make(map[string]struct{}, len(ds.Nodes))
	for _, n := range ds.Nodes {
		if n.ID == "" || !finite(n.X) || !finite(n.Y) {
			rep.NodesDropped++
			log.Printf("[Graph] Dropping malformed node (id=%q x=%v y=%v)", n.ID, n.X, n.Y)
			continue
		}
		if _, dup := ids[n.ID]; dup {
			rep.NodesDropped++
			log.Printf("[Graph] Dropping duplicate node id %q", n.ID)
			continue
		}
		if n.Cluster < 0 {
			n.Cluster = Noise
			n.IsNoise = true
		}
		ids[n.ID] = struct{}{}
		nodes = append(nodes, n)
	}
	ds.Nodes = nodes
	rep.NodesKept = len(nodes)

	edges := ds.Edges[:0]
	keys := make(map[string]struct{}, len(ds.Edges))
	for _, e := range ds.Edges {
		if !validEdge(e, ids) {
			rep.EdgesDropped++
			log.Printf("[Graph] Dropping malformed edge %s-%s (similarity=%v)", e.SourceID, e.TargetID, e.Similarity)
			continue
		}
		if e.SourceID > e.TargetID {
			e.SourceID, e.TargetID = e.TargetID, e.SourceID
		}
		if _, dup := keys[e.Key()]; dup {
			rep.EdgesDropped++
			log.Printf("[Graph] Dropping duplicate edge %s", e.Key())
			continue
		}
		keys[e.Key()] = struct{}{}
		edges = append(edges, e)
	}
	ds.Edges = edges
	rep.EdgesKept = len(edges)

	if len(ds.ClusterStats) == 0 && len(ds.Nodes) > 0 {
		ds.ClusterStats = ComputeClusterStats(ds.Nodes)
		rep.StatsComputed = true
	}

	if debugLog != nil {
		debugLog("[Graph] Ingest kept", rep.NodesKept, "nodes /", rep.EdgesKept, "edges, dropped",
			rep.NodesDropped, "nodes /", rep.EdgesDropped, "edges")
	}
	return rep
}

func validEdge(e Edge, ids map[string]struct{}) bool {
	if e.SourceID == "" || e.TargetID == "" || e.SourceID == e.TargetID {
		return false
	}
	if e.Similarity < 0 || e.Similarity > 1 || !finite(e.Similarity) {
		return false
	}
	if _, ok := ids[e.SourceID]; !ok {
		return false
	}
	if _, ok := ids[e.TargetID]; !ok {
		return false
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ComputeClusterStats aggregates per-cluster sizes and area distributions
// from the node list. Used when the provider sends none.
func ComputeClusterStats(nodes []Node) []ClusterStat {
	byCluster := make(map[int]*ClusterStat)
	order := make([]int, 0, 8)
	for _, n := range nodes {
		st, ok := byCluster[n.Cluster]
		if !ok {
			st = &ClusterStat{ClusterID: n.Cluster, AreaDistribution: make(map[string]int)}
			byCluster[n.Cluster] = st
			order = append(order, n.Cluster)
		}
		st.Size++
		if area := n.Raw.Area; area != "" {
			st.AreaDistribution[area]++
		}
	}

	stats := make([]ClusterStat, 0, len(order))
	for _, id := range order {
		st := byCluster[id]
		best := 0
		for area, count := range st.AreaDistribution {
			if count > best {
				best = count
				st.DominantArea = area
			}
		}
		stats = append(stats, *st)
	}
	return stats
}
