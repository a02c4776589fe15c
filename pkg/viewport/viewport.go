package viewport

import (
	"math"
	"sync"
	"time"

	"github.com/simgraph/simgraph/pkg/scene"
)

const (
	// animDuration is how long every transform change animates. Snapping
	// would lose the user's orientation.
	animDuration = 750 * time.Millisecond

	// resizeDebounce coalesces bursts of resize/zoom events.
	resizeDebounce = 150 * time.Millisecond

	// resizeThreshold ignores sub-pixel-ish jitter that would otherwise
	// cause resize feedback loops.
	resizeThreshold = 5.0

	// physicsScaleCap limits close-up on tiny clusters in the fit-to-box
	// path regardless of tier.
	physicsScaleCap = 1.2
)

// Transform is the single authoritative pan/zoom state. Rendered
// coordinates are screen = position*Scale + Translate.
type Transform struct {
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	Scale      float64 `json:"scale"`
}

// Identity is the neutral transform: no translate, scale 1.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Apply maps a pre-viewport position to final screen space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.TranslateX, y*t.Scale + t.TranslateY
}

// Path selects which scale heuristic CenterOnNodes uses.
type Path uint8

const (
	// PathPhysics fits the bounding box with tiered padding and zoom caps.
	// Used before/without the expansion step, where the spread is unknown.
	PathPhysics Path = iota
	// PathFixed picks the target scale directly by node-count tier: the
	// expansion step already produced a known approximate spread, so
	// fit-to-box would be redundant.
	PathFixed
)

// Controller owns the viewport transform, the fit/center heuristics, and
// resize adaptation. All mutations are marshaled onto the engine loop via
// the run callback, so the transform has a single owner.
type Controller struct {
	width  float64
	height float64

	current Transform
	anim    *animation

	run      func(func()) // engine-loop executor
	onResize func(width, height float64)

	mu          sync.Mutex
	resizeTimer *time.Timer
	pendingW    float64
	pendingH    float64
}

// New creates a controller for a surface of the given size. run executes a
// function on the engine loop; onResize is invoked there after a debounced,
// genuine size change.
func New(width, height float64, run func(func()), onResize func(width, height float64)) *Controller {
	if run == nil {
		run = func(fn func()) { fn() }
	}
	return &Controller{
		width:    width,
		height:   height,
		current:  Identity(),
		run:      run,
		onResize: onResize,
	}
}

// Size returns the current surface dimensions.
func (c *Controller) Size() (float64, float64) {
	return c.width, c.height
}

// Current returns the transform as of the last animation step.
func (c *Controller) Current() Transform {
	return c.current
}

// Animating reports whether a transform transition is in flight.
func (c *Controller) Animating() bool {
	return c.anim != nil
}

// FitAll animates back to the identity transform. Used when a filter is
// cleared.
func (c *Controller) FitAll() {
	c.animateTo(Identity())
}

// CenterOnNodes animates the viewport so the bounding-box midpoint of the
// given nodes lands on the viewport center, with the scale chosen by the
// path's node-count tiers. A single node maps exactly to the center; an
// empty set is a no-op.
func (c *Controller) CenterOnNodes(nodes []*scene.Node, path Path) {
	if len(nodes) == 0 {
		return
	}

	minX, minY := nodes[0].X, nodes[0].Y
	maxX, maxY := minX, minY
	for _, n := range nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}

	var scale float64
	if path == PathFixed {
		scale = fixedPathScale(len(nodes))
	} else {
		scale = physicsPathScale(len(nodes), maxX-minX, maxY-minY, c.width, c.height)
	}

	midX := (minX + maxX) / 2
	midY := (minY + maxY) / 2
	c.animateTo(Transform{
		TranslateX: c.width/2 - midX*scale,
		TranslateY: c.height/2 - midY*scale,
		Scale:      scale,
	})
}

// physicsPathScale fits the padded bounding box into the surface, capped by
// the tier's max zoom and an absolute ceiling.
func physicsPathScale(count int, boxW, boxH, width, height float64) float64 {
	var padding, maxZoom float64
	switch {
	case count <= 5:
		padding, maxZoom = 300, 1.5
	case count <= 15:
		padding, maxZoom = 400, 1.2
	case count <= 30:
		padding, maxZoom = 500, 0.9
	default:
		padding, maxZoom = 600, 0.7
	}

	// Degenerate boxes (single node, collinear points) still get the
	// padding extent, which also guards the divisions below.
	boxW += 2 * padding
	boxH += 2 * padding

	scale := math.Min(width/boxW, height/boxH)
	scale = math.Min(scale, maxZoom)
	return math.Min(scale, physicsScaleCap)
}

// fixedPathScale picks the target scale directly from the node-count tier.
func fixedPathScale(count int) float64 {
	switch {
	case count <= 5:
		return 0.35
	case count <= 10:
		return 0.30
	case count <= 20:
		return 0.25
	case count <= 35:
		return 0.20
	case count <= 50:
		return 0.18
	default:
		return 0.15
	}
}

// Resize requests a surface resize. Events are debounced and deltas below
// the pixel threshold are dropped; a genuine change updates the dimensions
// on the engine loop and notifies the owner.
func (c *Controller) Resize(width, height float64) {
	if math.Abs(width-c.width) < resizeThreshold && math.Abs(height-c.height) < resizeThreshold {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingW, c.pendingH = width, height
	if c.resizeTimer != nil {
		c.resizeTimer.Stop()
	}
	c.resizeTimer = time.AfterFunc(resizeDebounce, func() {
		c.mu.Lock()
		w, h := c.pendingW, c.pendingH
		c.mu.Unlock()
		c.run(func() {
			if math.Abs(w-c.width) < resizeThreshold && math.Abs(h-c.height) < resizeThreshold {
				return
			}
			c.width, c.height = w, h
			if c.onResize != nil {
				c.onResize(w, h)
			}
		})
	})
}

// Dispose cancels any pending resize timer. Must be called on teardown.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resizeTimer != nil {
		c.resizeTimer.Stop()
		c.resizeTimer = nil
	}
}

// Tick advances the in-flight animation by dt seconds. Returns true while
// the transform is still changing.
func (c *Controller) Tick(dt float64) bool {
	if c.anim == nil {
		return false
	}
	c.current = c.anim.step(dt)
	if c.anim.done() {
		c.anim = nil
	}
	return true
}

// SetImmediate installs a transform without animation. Used by direct
// pan/zoom gestures, which must track the pointer exactly.
func (c *Controller) SetImmediate(t Transform) {
	c.anim = nil
	c.current = t
}

func (c *Controller) animateTo(target Transform) {
	c.anim = &animation{from: c.current, to: target, duration: animDuration.Seconds()}
}

// animation interpolates between two transforms with cubic in-out easing.
type animation struct {
	from     Transform
	to       Transform
	elapsed  float64
	duration float64
}

func (a *animation) step(dt float64) Transform {
	a.elapsed += dt
	t := a.elapsed / a.duration
	if t >= 1 {
		return a.to
	}
	e := easeCubicInOut(t)
	return Transform{
		TranslateX: a.from.TranslateX + (a.to.TranslateX-a.from.TranslateX)*e,
		TranslateY: a.from.TranslateY + (a.to.TranslateY-a.from.TranslateY)*e,
		Scale:      a.from.Scale + (a.to.Scale-a.from.Scale)*e,
	}
}

func (a *animation) done() bool {
	return a.elapsed >= a.duration
}

func easeCubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 1 + u*u*u/2
}
