package graph

import "time"

// Noise is the cluster id assigned to nodes that no cluster claimed.
const Noise = -1

// DocumentSummary carries the display-only document fields attached to a
// node. The engine never reads these; they ride along for detail panels.
type DocumentSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CaseLabel string    `json:"case_label,omitempty"`
	Area      string    `json:"area,omitempty"`
	Snippet   string    `json:"snippet,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Node is a document in projection space. X and Y are the precomputed
// low-dimensional projection coordinates, not screen coordinates.
type Node struct {
	ID        string          `json:"id"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Cluster   int             `json:"cluster"`
	IsNoise   bool            `json:"is_noise"`
	CaseLabel string          `json:"case_label,omitempty"`
	Title     string          `json:"title,omitempty"`
	Raw       DocumentSummary `json:"raw,omitempty"`
}

// Edge connects two nodes by id with a similarity weight in [0,1].
// Edges never hold node references; resolution to positions happens in a
// transient per-render lookup so filtering never mutates edge records.
type Edge struct {
	SourceID   string  `json:"source_id"`
	TargetID   string  `json:"target_id"`
	Similarity float64 `json:"similarity"`
}

// Key returns the stable reconciliation key for the edge. Ingestion
// canonicalizes endpoint order, so the key identifies the unordered pair.
func (e Edge) Key() string {
	return e.SourceID + "-" + e.TargetID
}

// Touches reports whether the edge has the given node as either endpoint.
func (e Edge) Touches(nodeID string) bool {
	return e.SourceID == nodeID || e.TargetID == nodeID
}

// Other returns the endpoint opposite to nodeID, or "" if the edge does not
// touch nodeID.
func (e Edge) Other(nodeID string) string {
	switch nodeID {
	case e.SourceID:
		return e.TargetID
	case e.TargetID:
		return e.SourceID
	}
	return ""
}

// ClusterStat is a read-only per-cluster aggregate used for list and legend
// rendering. The layout engine does not consume it.
type ClusterStat struct {
	ClusterID        int            `json:"cluster_id"`
	Size             int            `json:"size"`
	DominantArea     string         `json:"dominant_area,omitempty"`
	AreaDistribution map[string]int `json:"area_distribution,omitempty"`
}

// Metadata describes how and when the dataset was produced. Display only.
type Metadata struct {
	CreatedAt     time.Time `json:"created_at"`
	Algorithm     string    `json:"algorithm"`
	DocumentCount int       `json:"document_count"`
	ClusterCount  int       `json:"cluster_count"`
	NoiseCount    int       `json:"noise_count"`
}

// Dataset is one complete load from the data provider.
type Dataset struct {
	Nodes        []Node        `json:"nodes"`
	Edges        []Edge        `json:"edges,omitempty"`
	ClusterStats []ClusterStat `json:"cluster_stats,omitempty"`
	Meta         Metadata      `json:"metadata"`
}
