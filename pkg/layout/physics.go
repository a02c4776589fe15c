package layout

import (
	"math"

	"github.com/simgraph/simgraph/pkg/scene"
)

// Simulation tuning. Spring rest length and strength are fixed by design;
// the remaining constants were tuned against datasets in the 1k-10k node
// range.
const (
	springLength      = 80.0
	springStrength    = 0.5
	repulsionStrength = 2000.0
	collisionRadius   = 14.0
	centeringStrength = 0.03
	damping           = 0.85

	// repulsionCell is the spatial grid cell size used to approximate
	// long-range repulsion. Cells beyond the immediate neighborhood act on
	// a node through their aggregate centroid instead of per pair.
	repulsionCell = 160.0

	alphaDecay = 0.02
	alphaMin   = 0.005
)

// force is one composable term of the simulation. Forces write into node
// velocities; integration happens once per tick after all forces ran.
type force interface {
	apply(p *Physics)
}

// Physics is the iterative force-driven layout strategy. It owns the
// velocity fields of the scene nodes while active. Forces are installed on
// activation and removed on Stop, so a stopped simulation cannot drift.
type Physics struct {
	sc       *scene.Scene
	viewport Size
	forces   []force
	alpha    float64
	running  bool
}

// NewPhysics creates an inactive physics layout.
func NewPhysics() *Physics {
	return &Physics{}
}

// Initialize activates the simulation for the scene. Node positions are
// taken as-is: the view controller seeds fresh entities from the fixed
// transform before switching, which keeps mode switches visually
// continuous.
func (p *Physics) Initialize(sc *scene.Scene, viewport Size) {
	p.sc = sc
	p.viewport = viewport
	p.installForces()
	p.alpha = 1
	p.running = true
}

// OnFilterChanged re-installs forces for the new rendered subset and
// reheats the simulation. The spring force is re-evaluated here: it is
// omitted entirely when the subset has no edges.
func (p *Physics) OnFilterChanged(sc *scene.Scene) {
	p.sc = sc
	if p.running {
		p.installForces()
		p.alpha = 1
	}
}

// SetViewport re-targets the centering force, e.g. after a resize.
func (p *Physics) SetViewport(viewport Size) {
	p.viewport = viewport
}

// Reheat restores full simulation activity so the layout re-settles.
func (p *Physics) Reheat() {
	if p.running {
		p.alpha = 1
	}
}

// Active reports whether the simulation is running and has not cooled down.
func (p *Physics) Active() bool {
	return p.running && p.alpha >= alphaMin
}

// Stop removes all forces and halts the simulation deterministically.
// Velocities are zeroed so no residual drift survives a mode switch.
func (p *Physics) Stop() {
	p.forces = nil
	p.running = false
	if p.sc != nil {
		for _, n := range p.sc.Nodes {
			n.VX, n.VY = 0, 0
		}
	}
}

func (p *Physics) installForces() {
	p.forces = []force{
		repulsionForce{},
		collisionForce{},
		centeringForce{},
	}
	// Absent rather than zero-strength: a no-edge scatter should not pay
	// for edge iteration every frame.
	if p.sc != nil && len(p.sc.Edges) > 0 {
		p.forces = append(p.forces, springForce{})
	}
}

// Tick advances the simulation by dt seconds and integrates velocities into
// positions. Pinned nodes are snapped to their pin and keep zero velocity.
// Returns false once the simulation has cooled below the activity floor.
func (p *Physics) Tick(dt float64) bool {
	if !p.running || p.sc == nil || len(p.sc.Nodes) == 0 {
		return false
	}
	if p.alpha < alphaMin {
		return false
	}

	for _, f := range p.forces {
		f.apply(p)
	}

	for _, n := range p.sc.Nodes {
		if n.Fixed != nil {
			n.X, n.Y = n.Fixed.X, n.Fixed.Y
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= damping
		n.VY *= damping
		n.X += n.VX * dt * p.alpha
		n.Y += n.VY * dt * p.alpha
	}

	p.alpha *= 1 - alphaDecay
	return true
}

type cellKey struct{ ix, iy int }

type cell struct {
	nodes  []*scene.Node
	sumX   float64
	sumY   float64
	weight float64
}

func bucketNodes(nodes []*scene.Node) map[cellKey]*cell {
	grid := make(map[cellKey]*cell)
	for _, n := range nodes {
		k := cellKey{int(math.Floor(n.X / repulsionCell)), int(math.Floor(n.Y / repulsionCell))}
		c := grid[k]
		if c == nil {
			c = &cell{}
			grid[k] = c
		}
		c.nodes = append(c.nodes, n)
		c.sumX += n.X
		c.sumY += n.Y
		c.weight++
	}
	return grid
}

// repulsionForce pushes all node pairs apart. Nearby pairs (same or
// adjacent grid cell) interact exactly; distant cells act through their
// centroid, which keeps the force O(n·cells) instead of O(n²).
type repulsionForce struct{}

func (repulsionForce) apply(p *Physics) {
	grid := bucketNodes(p.sc.Nodes)
	for k, c := range grid {
		for _, n := range c.nodes {
			for ok, oc := range grid {
				dx := ok.ix - k.ix
				dy := ok.iy - k.iy
				if dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1 {
					for _, m := range oc.nodes {
						if m == n {
							continue
						}
						repel(n, m.X, m.Y, 1)
					}
					continue
				}
				repel(n, oc.sumX/oc.weight, oc.sumY/oc.weight, oc.weight)
			}
		}
	}
}

func repel(n *scene.Node, x, y, weight float64) {
	dx := n.X - x
	dy := n.Y - y
	dist2 := dx*dx + dy*dy + 0.01
	f := repulsionStrength * weight / dist2
	inv := 1.0 / math.Sqrt(dist2)
	n.VX += f * dx * inv
	n.VY += f * dy * inv
}

// collisionForce separates overlapping nodes with a fixed minimum radius.
// Only same- and adjacent-cell pairs can overlap at sane cell sizes.
type collisionForce struct{}

func (collisionForce) apply(p *Physics) {
	grid := bucketNodes(p.sc.Nodes)
	minDist := 2 * collisionRadius
	for k, c := range grid {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				oc := grid[cellKey{k.ix + dx, k.iy + dy}]
				if oc == nil {
					continue
				}
				for _, a := range c.nodes {
					for _, b := range oc.nodes {
						if a == b {
							continue
						}
						ddx := b.X - a.X
						ddy := b.Y - a.Y
						dist := math.Sqrt(ddx*ddx + ddy*ddy)
						if dist >= minDist || dist == 0 {
							continue
						}
						push := (minDist - dist) / dist * 0.5
						a.VX -= ddx * push
						a.VY -= ddy * push
					}
				}
			}
		}
	}
}

// centeringForce is a weak pull toward the viewport center, applied to each
// axis independently.
type centeringForce struct{}

func (centeringForce) apply(p *Physics) {
	cx, cy := p.viewport.Center()
	for _, n := range p.sc.Nodes {
		n.VX += (cx - n.X) * centeringStrength
		n.VY += (cy - n.Y) * centeringStrength
	}
}

// springForce pulls edge endpoints toward the fixed rest length. Endpoints
// are resolved through the scene index per application; edge records stay
// id-based.
type springForce struct{}

func (springForce) apply(p *Physics) {
	for _, e := range p.sc.Edges {
		a, b := p.sc.Endpoints(e)
		if a == nil || b == nil {
			continue
		}
		dx := b.X - a.X
		dy := b.Y - a.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist == 0 {
			continue
		}
		f := springStrength * (dist - springLength) / dist
		a.VX += f * dx
		a.VY += f * dy
		b.VX -= f * dx
		b.VY -= f * dy
	}
}
