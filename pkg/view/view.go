// Package view hosts the view controller: the single owner of the engine
// state that wires the data provider, layouts, scene reconciler, viewport,
// and interaction layer together.
package view

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/simgraph/simgraph/pkg/frame"
	"github.com/simgraph/simgraph/pkg/graph"
	"github.com/simgraph/simgraph/pkg/interact"
	"github.com/simgraph/simgraph/pkg/layout"
	"github.com/simgraph/simgraph/pkg/provider"
	"github.com/simgraph/simgraph/pkg/scene"
	"github.com/simgraph/simgraph/pkg/viewport"
)

// Sink receives the rendered output of the engine. The stream hub
// implements it for browser shells; tests implement it as a recorder.
// All methods are invoked on the engine loop and must not block.
type Sink interface {
	SceneRebuilt(sc *scene.Scene, view viewport.Transform)
	Patches(patches []scene.Patch)
	Positions(nodes []*scene.Node)
	Transform(view viewport.Transform)
	DatasetInfo(meta graph.Metadata, stats []graph.ClusterStat)
	InlineError(msg string)
	Status(msg string)
}

// Events are the notifications the engine emits toward the page shell and
// sibling panels. Any callback may be nil. Invoked on the engine loop.
type Events struct {
	NodeSelected         func(nodeID string, neighbors []graph.Neighbor)
	ClusterFilterChanged func(clusterID *int)
	LayoutModeChanged    func(mode layout.Mode)
}

// Options configures a GraphView.
type Options struct {
	Provider provider.DataProvider
	Commands provider.CommandChannel // optional; Regenerate errors without one
	Sink     Sink                    // optional
	Events   Events

	Width  float64
	Height float64

	TopK         int  // edges per node requested from the provider
	IncludeEdges bool // request edges at all
	Mode         layout.Mode

	// FrameInterval overrides the animation frame rate; zero means the
	// default. Tests shrink it.
	FrameInterval time.Duration
}

// DefaultTopK bounds edges per node when the caller does not say.
const DefaultTopK = 5

// GraphView is the orchestrator. Every field below is owned by the frame
// loop goroutine; external calls marshal through it. Instances are
// self-contained: two views in one process never share state, and Dispose
// releases every timer and goroutine the view created.
type GraphView struct {
	loop *frame.Loop

	dataProvider provider.DataProvider
	commands     provider.CommandChannel
	sink         Sink
	events       Events

	store   *graph.Store
	stats   layout.ProjectionStats
	physics *layout.Physics
	fixed   *layout.Fixed
	active  layout.Strategy
	mode    layout.Mode

	sc   *scene.Scene
	vp   *viewport.Controller
	hl   *interact.Highlighter
	drag *interact.Dragger

	clusterFilter *int
	topK          int
	includeEdges  bool
	showEdges     bool

	generation  uint64
	regenCancel context.CancelFunc
	removeTick  func()
	disposed    bool
}

// New creates and starts a view. The engine loop runs until Dispose.
func New(opts Options) *GraphView {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = frame.DefaultInterval
	}

	v := &GraphView{
		loop:         frame.NewWithInterval(interval),
		dataProvider: opts.Provider,
		commands:     opts.Commands,
		sink:         opts.Sink,
		events:       opts.Events,
		store:        graph.NewStore(),
		physics:      layout.NewPhysics(),
		fixed:        layout.NewFixed(layout.ProjectionStats{Scale: 1}),
		mode:         opts.Mode,
		hl:           interact.NewHighlighter(),
		drag:         interact.NewDragger(opts.Mode),
		topK:         opts.TopK,
		includeEdges: opts.IncludeEdges,
		showEdges:    opts.IncludeEdges,
	}
	v.vp = viewport.New(opts.Width, opts.Height, v.loop.Do, v.handleResize)
	if v.mode == layout.ModeFixed {
		v.active = v.fixed
	} else {
		v.active = v.physics
	}

	v.loop.Start()
	v.removeTick = v.loop.AddTicker(v.onFrame)
	return v
}

// Dispose tears the view down: pending timers are cancelled, the
// simulation is halted, and the frame loop goroutine exits. Idempotent.
func (v *GraphView) Dispose() {
	v.loop.Call(func() {
		if v.disposed {
			return
		}
		v.disposed = true
		if v.regenCancel != nil {
			v.regenCancel()
		}
		v.vp.Dispose()
		v.physics.Stop()
		v.drag.Cancel()
	})
	v.loop.Stop()
}

// Load fetches the full dataset from the provider and rebuilds or
// reconciles the scene when the result arrives. Loads are cancellable by
// supersession: a newer Load or top-K change makes this result a no-op.
func (v *GraphView) Load(ctx context.Context) {
	v.loop.Do(func() { v.startLoad(ctx) })
}

// startLoad runs on the loop. The actual fetch happens on its own
// goroutine; only the completion re-enters the loop.
func (v *GraphView) startLoad(ctx context.Context) {
	v.generation++
	gen := v.generation
	params := provider.Params{IncludeEdges: v.includeEdges, TopK: v.topK}

	go func() {
		ds, err := v.dataProvider.LoadGraph(ctx, params)
		v.loop.Do(func() {
			if gen != v.generation {
				log.Printf("[Engine] Discarding stale load (generation %d < %d)", gen, v.generation)
				return
			}
			if err != nil {
				// The last good scene stays rendered.
				log.Printf("[Engine] Graph load failed: %v", err)
				v.inlineError(fmt.Sprintf("failed to load graph: %v", err))
				return
			}
			v.applyDataset(ds)
		})
	}()
}

// applyDataset installs a freshly loaded dataset. The global projection
// stats are computed here, once, over the unfiltered node set, and cached
// until the next dataset replaces them.
func (v *GraphView) applyDataset(ds *graph.Dataset) {
	v.store.Replace(ds)
	v.stats = layout.ComputeProjectionStats(ds.Nodes)
	v.fixed.SetStats(v.stats)

	if v.sink != nil {
		v.sink.DatasetInfo(ds.Meta, ds.ClusterStats)
	}
	v.refresh(true)
}

// refresh re-filters, reconciles, lays out, and publishes the scene.
// recenter moves the viewport (dataset loads and filter changes do;
// edge-visibility toggles and top-K reloads keep the camera still).
func (v *GraphView) refresh(recenter bool) {
	nodes, edges := v.store.FilterCluster(v.clusterFilter)

	v.fixed.SetClusterFilter(v.clusterFilter)
	v.hl.SetClusterFiltered(v.clusterFilter != nil)

	res := scene.Reconcile(v.sc, nodes, edges)
	v.sc = res.Scene
	v.seedNewNodes(res, nodes)
	for _, e := range v.sc.Edges {
		e.Style.Visible = v.showEdges
	}
	size := v.surface()
	if res.Rebuilt {
		v.active.Initialize(v.sc, size)
	} else {
		v.active.OnFilterChanged(v.sc)
	}

	if recenter {
		if v.clusterFilter != nil {
			path := viewport.PathPhysics
			if v.mode == layout.ModeFixed {
				path = viewport.PathFixed
			}
			v.vp.CenterOnNodes(v.sc.Nodes, path)
		} else {
			v.vp.FitAll()
		}
	}

	if v.sink != nil {
		if res.Rebuilt {
			v.sink.SceneRebuilt(v.sc, v.vp.Current())
		} else if len(res.Patches) > 0 {
			v.sink.Patches(res.Patches)
		}
	}
}

// seedNewNodes places entities that just entered the rendered set at their
// fixed-transform position, so physics mode starts them where fixed mode
// would put them instead of at the origin.
func (v *GraphView) seedNewNodes(res scene.Result, all []graph.Node) {
	for _, p := range res.Patches {
		if p.Op != scene.OpAddNode || p.Node == nil {
			continue
		}
		x, y := v.fixed.Place(p.Node.Data, all)
		p.Node.X, p.Node.Y = x, y
	}
}

// onFrame is the per-animation-frame callback: advance the active layout
// and the viewport animation, publish whatever moved.
func (v *GraphView) onFrame(dt float64) {
	if v.disposed {
		return
	}
	moved := v.active.Tick(dt)
	animating := v.vp.Tick(dt)

	if v.sink == nil {
		return
	}
	if moved && v.sc != nil {
		v.sink.Positions(v.sc.Nodes)
	}
	if animating {
		v.sink.Transform(v.vp.Current())
	}
}

// handleResize runs on the loop after the debounced resize fired: the
// layouts get the new surface and, in physics mode, the simulation is
// nudged to re-settle around the new center.
func (v *GraphView) handleResize(w, h float64) {
	size := layout.Size{Width: w, Height: h}
	v.physics.SetViewport(size)
	v.fixed.SetViewport(size)
	if v.mode == layout.ModePhysics {
		v.physics.Reheat()
	}
	log.Printf("[Engine] Surface resized to %.0fx%.0f", w, h)
}

func (v *GraphView) surface() layout.Size {
	w, h := v.vp.Size()
	return layout.Size{Width: w, Height: h}
}

func (v *GraphView) inlineError(msg string) {
	if v.sink != nil {
		v.sink.InlineError(msg)
	}
}
