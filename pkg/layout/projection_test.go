package layout

import (
	"math"
	"testing"

	"github.com/simgraph/simgraph/pkg/graph"
)

func TestComputeProjectionStats(t *testing.T) {
	tests := []struct {
		name  string
		nodes []graph.Node
		want  ProjectionStats
	}{
		{
			name:  "empty",
			nodes: nil,
			want:  ProjectionStats{Scale: 1},
		},
		{
			name:  "single point",
			nodes: []graph.Node{{ID: "a", X: 5, Y: -3}},
			want:  ProjectionStats{CenterX: 5, CenterY: -3, Scale: 1},
		},
		{
			name: "wider than tall",
			nodes: []graph.Node{
				{ID: "a", X: -10, Y: 0},
				{ID: "b", X: 10, Y: 4},
			},
			// span is the larger axis (20), scale = 1000/20
			want: ProjectionStats{CenterX: 0, CenterY: 2, Scale: 50},
		},
		{
			name: "taller than wide",
			nodes: []graph.Node{
				{ID: "a", X: 0, Y: -50},
				{ID: "b", X: 4, Y: 50},
			},
			want: ProjectionStats{CenterX: 2, CenterY: 0, Scale: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProjectionStats(tt.nodes)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExpansionFactorTiers(t *testing.T) {
	tests := []struct {
		size int
		want float64
	}{
		{1, 120},
		{8, 120},
		{10, 120},
		{11, 110},
		{20, 110},
		{21, 100},
		{35, 100},
		{36, 90},
		{50, 90},
		{51, 80},
		{500, 80},
	}
	for _, tt := range tests {
		if got := ExpansionFactor(tt.size); got != tt.want {
			t.Errorf("ExpansionFactor(%d) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestExpansionFactorNonIncreasing(t *testing.T) {
	prev := ExpansionFactor(1)
	for size := 2; size <= 200; size++ {
		f := ExpansionFactor(size)
		if f > prev {
			t.Fatalf("factor increased at size %d: %v > %v", size, f, prev)
		}
		prev = f
	}
}

func TestProjectMapsGlobalCenterToViewportCenter(t *testing.T) {
	stats := ProjectionStats{CenterX: 12, CenterY: -4, Scale: 50}
	vp := Size{Width: 800, Height: 600}

	x, y := stats.Project(12, -4, vp)
	if x != 400 || y != 300 {
		t.Errorf("global center maps to (%v,%v), want (400,300)", x, y)
	}
}

func TestProjectExpandedSpreadsAroundCentroid(t *testing.T) {
	stats := ProjectionStats{Scale: 1}
	vp := Size{Width: 0, Height: 0}

	// Node 1 unit from the centroid, factor 120: offset becomes 120.
	x, y := stats.ProjectExpanded(11, 5, 10, 5, 120, vp)
	if math.Abs(x-130) > 1e-9 || y != 5 {
		t.Errorf("got (%v,%v), want (130,5)", x, y)
	}

	// The centroid itself is a fixed point of the expansion.
	x, y = stats.ProjectExpanded(10, 5, 10, 5, 120, vp)
	if x != 10 || y != 5 {
		t.Errorf("centroid moved to (%v,%v)", x, y)
	}
}

func TestCentroid(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 10, Y: 20},
	}
	cx, cy := Centroid(nodes)
	if cx != 5 || cy != 10 {
		t.Errorf("centroid = (%v,%v), want (5,10)", cx, cy)
	}

	cx, cy = Centroid(nil)
	if cx != 0 || cy != 0 {
		t.Errorf("empty centroid = (%v,%v), want origin", cx, cy)
	}
}
