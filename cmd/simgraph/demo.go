package main

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/simgraph/simgraph/pkg/graph"
)

func newDemoCommand() *cobra.Command {
	var (
		out      string
		clusters int
		perCl    int
		noise    int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a synthetic dataset snapshot",
		Long: `Demo generates a synthetic clustered dataset and writes it as a JSON
snapshot usable with "simgraph serve --snapshot". Useful for trying the
engine without a projection pipeline.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := generateDataset(clusters, perCl, noise, seed)
			raw, err := json.MarshalIndent(ds, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, raw, 0644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("Wrote %s: %d documents, %d clusters, %d noise\n",
				out, ds.Meta.DocumentCount, ds.Meta.ClusterCount, ds.Meta.NoiseCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "demo.json", "Output snapshot path")
	cmd.Flags().IntVarP(&clusters, "clusters", "c", 6, "Number of clusters")
	cmd.Flags().IntVarP(&perCl, "size", "n", 12, "Documents per cluster")
	cmd.Flags().IntVar(&noise, "noise", 5, "Number of noise documents")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")

	return cmd
}

var demoAreas = []string{"contract", "tort", "property", "employment", "tax", "ip"}

// generateDataset places clusters on a ring and samples members with
// gaussian spread around each center, so the projection looks like real
// embedding output.
func generateDataset(clusters, perCluster, noise int, seed int64) *graph.Dataset {
	rng := rand.New(rand.NewSource(seed))
	ds := &graph.Dataset{}

	for c := 0; c < clusters; c++ {
		angle := 2 * math.Pi * float64(c) / float64(clusters)
		cx, cy := 40*math.Cos(angle), 40*math.Sin(angle)
		area := demoAreas[c%len(demoAreas)]

		for i := 0; i < perCluster; i++ {
			id := fmt.Sprintf("doc-%d-%d", c, i)
			ds.Nodes = append(ds.Nodes, graph.Node{
				ID:        id,
				X:         cx + rng.NormFloat64()*6,
				Y:         cy + rng.NormFloat64()*6,
				Cluster:   c,
				CaseLabel: fmt.Sprintf("Case %d/%d", c+1, i+1),
				Title:     fmt.Sprintf("Synthetic %s document %d.%d", area, c+1, i+1),
				Raw: graph.DocumentSummary{
					ID:    id,
					Title: fmt.Sprintf("Synthetic %s document %d.%d", area, c+1, i+1),
					Area:  area,
				},
			})
		}
	}
	for i := 0; i < noise; i++ {
		id := fmt.Sprintf("doc-noise-%d", i)
		ds.Nodes = append(ds.Nodes, graph.Node{
			ID:      id,
			X:       rng.NormFloat64() * 60,
			Y:       rng.NormFloat64() * 60,
			Cluster: graph.Noise,
			IsNoise: true,
			Title:   fmt.Sprintf("Outlier document %d", i+1),
			Raw:     graph.DocumentSummary{ID: id, Title: fmt.Sprintf("Outlier document %d", i+1)},
		})
	}

	ds.Edges = demoEdges(ds.Nodes)
	ds.ClusterStats = graph.ComputeClusterStats(ds.Nodes)
	ds.Meta = graph.Metadata{
		CreatedAt:     time.Now().UTC(),
		Algorithm:     "synthetic-ring",
		DocumentCount: len(ds.Nodes),
		ClusterCount:  clusters,
		NoiseCount:    noise,
	}
	return ds
}

// demoEdges derives similarities from projection distance: the closest
// pairs within each cluster get the strongest links, plus a few weak
// cross-cluster ties so tier styling has something to show.
func demoEdges(nodes []graph.Node) []graph.Edge {
	type cand struct {
		edge graph.Edge
		dist float64
	}
	var edges []graph.Edge

	byCluster := make(map[int][]graph.Node)
	for _, n := range nodes {
		if !n.IsNoise {
			byCluster[n.Cluster] = append(byCluster[n.Cluster], n)
		}
	}

	for _, members := range byCluster {
		var cands []cand
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				dx := members[i].X - members[j].X
				dy := members[i].Y - members[j].Y
				d := math.Hypot(dx, dy)
				sim := math.Max(0.5, 1-d/30)
				cands = append(cands, cand{
					edge: graph.Edge{SourceID: members[i].ID, TargetID: members[j].ID, Similarity: sim},
					dist: d,
				})
			}
		}
		sort.Slice(cands, func(a, b int) bool { return cands[a].dist < cands[b].dist })
		limit := len(members) * 2
		if limit > len(cands) {
			limit = len(cands)
		}
		for _, c := range cands[:limit] {
			edges = append(edges, c.edge)
		}
	}

	// Weak ties between consecutive clusters.
	ids := make([]int, 0, len(byCluster))
	for id := range byCluster {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for i := 0; i+1 < len(ids); i++ {
		a, b := byCluster[ids[i]], byCluster[ids[i+1]]
		if len(a) > 0 && len(b) > 0 {
			edges = append(edges, graph.Edge{SourceID: a[0].ID, TargetID: b[0].ID, Similarity: 0.42})
		}
	}
	return edges
}
