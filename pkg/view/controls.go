package view

import (
	"context"
	"fmt"
	"log"

	"github.com/simgraph/simgraph/pkg/graph"
	"github.com/simgraph/simgraph/pkg/interact"
	"github.com/simgraph/simgraph/pkg/layout"
	"github.com/simgraph/simgraph/pkg/provider"
	"github.com/simgraph/simgraph/pkg/scene"
	"github.com/simgraph/simgraph/pkg/viewport"
)

// SetClusterFilter isolates one cluster, or clears the filter with nil.
// The subset is re-filtered from the loaded dataset and reconciled
// incrementally; clearing animates back to the identity transform, while
// isolating centers on the subset with the mode's scale heuristic. The
// cached global projection stats are untouched either way.
func (v *GraphView) SetClusterFilter(clusterID *int) {
	v.loop.Do(func() {
		if equalFilter(v.clusterFilter, clusterID) {
			return
		}
		v.clusterFilter = cloneFilter(clusterID)
		v.refresh(true)
		if v.events.ClusterFilterChanged != nil {
			v.events.ClusterFilterChanged(cloneFilter(v.clusterFilter))
		}
	})
}

// SetTopK changes the per-node edge bound and reloads from the provider,
// since the bound is applied server-side. The in-flight load, if any, is
// superseded.
func (v *GraphView) SetTopK(k int) {
	if k <= 0 {
		k = DefaultTopK
	}
	v.loop.Do(func() {
		if k == v.topK {
			return
		}
		v.topK = k
		v.startLoad(context.Background())
	})
}

// SetShowEdges toggles edge rendering. This is a pure style change: no
// entity is created or removed, identities are stable, and no layout or
// viewport work happens.
func (v *GraphView) SetShowEdges(show bool) {
	v.loop.Do(func() {
		if show == v.showEdges {
			return
		}
		v.showEdges = show
		patches := scene.SetEdgesVisible(v.sc, show)
		if v.sink != nil && len(patches) > 0 {
			v.sink.Patches(patches)
		}
	})
}

// SetMode switches between the physics simulation and the fixed
// projection layout. The outgoing strategy is stopped first (forces
// removed, no residual drift); the incoming one starts from the current
// node positions, so the switch is visually continuous.
func (v *GraphView) SetMode(mode layout.Mode) {
	v.loop.Do(func() {
		if mode == v.mode {
			return
		}
		v.active.Stop()
		v.mode = mode
		v.drag.SetMode(mode)

		if mode == layout.ModeFixed {
			v.active = v.fixed
		} else {
			// Free every pin the fixed layout installed, then re-enable
			// all forces.
			if v.sc != nil {
				for _, n := range v.sc.Nodes {
					n.Unpin()
				}
			}
			v.active = v.physics
		}
		v.active.Initialize(v.sc, v.surface())

		log.Printf("[Engine] Layout mode switched to %s", mode)
		if v.events.LayoutModeChanged != nil {
			v.events.LayoutModeChanged(mode)
		}
	})
}

// Hover applies similarity-tiered highlighting around the given node.
func (v *GraphView) Hover(nodeID string) {
	v.loop.Do(func() {
		if v.hl.Hovered() == nodeID {
			return
		}
		patches := v.hl.Clear(v.sc)
		patches = append(patches, v.hl.Hover(v.sc, nodeID)...)
		if v.sink != nil && len(patches) > 0 {
			v.sink.Patches(patches)
		}
	})
}

// Leave clears hover highlighting.
func (v *GraphView) Leave() {
	v.loop.Do(func() {
		patches := v.hl.Clear(v.sc)
		if v.sink != nil && len(patches) > 0 {
			v.sink.Patches(patches)
		}
	})
}

// Click resolves the neighbor query for the node (top 10 by similarity,
// descending) and emits the NodeSelected event for external detail
// rendering.
func (v *GraphView) Click(nodeID string) {
	v.loop.Do(func() {
		if _, ok := v.store.Node(nodeID); !ok {
			return
		}
		neighbors := v.store.Neighbors(nodeID)
		if v.events.NodeSelected != nil {
			v.events.NodeSelected(nodeID, neighbors)
		}
	})
}

// DragStart begins dragging a node.
func (v *GraphView) DragStart(nodeID string) {
	v.loop.Do(func() {
		if v.sc == nil {
			return
		}
		v.drag.Start(v.sc.NodeByID(nodeID))
	})
}

// DragMove repositions the dragged node in pre-viewport coordinates.
func (v *GraphView) DragMove(x, y float64) {
	v.loop.Do(func() {
		v.drag.Move(x, y)
		if v.drag.Active() {
			v.physics.Reheat()
		}
	})
}

// DragEnd releases the drag. In physics mode the node rejoins the free
// simulation; in fixed mode it stays pinned at the drop location.
func (v *GraphView) DragEnd() {
	v.loop.Do(func() {
		if n, moved := v.drag.End(); n != nil && moved && v.sink != nil {
			v.sink.Positions([]*scene.Node{n})
		}
	})
}

// HitTest resolves a pre-viewport position to a node id, or "".
func (v *GraphView) HitTest(x, y float64) string {
	var id string
	v.loop.Call(func() {
		if n := interact.HitTest(v.sc, x, y); n != nil {
			id = n.Data.ID
		}
	})
	return id
}

// SetTransform installs a transform immediately, without animation. Used
// for direct pan/zoom gestures from the shell, which already track the
// pointer.
func (v *GraphView) SetTransform(t viewport.Transform) {
	v.loop.Do(func() {
		v.vp.SetImmediate(t)
	})
}

// FitAll animates the viewport back to the identity transform.
func (v *GraphView) FitAll() {
	v.loop.Do(func() {
		v.vp.FitAll()
	})
}

// Resize requests a (debounced) surface resize. The threshold check reads
// the current dimensions, so it marshals onto the loop like every other
// control.
func (v *GraphView) Resize(w, h float64) {
	v.loop.Do(func() {
		v.vp.Resize(w, h)
	})
}

// Regenerate triggers server-side recomputation through the command
// channel, waits out the estimate plus a buffer, then reloads. The engine
// stays interactive throughout; progress is surfaced as status frames.
// Dispose cancels the wait.
func (v *GraphView) Regenerate() {
	v.loop.Do(func() {
		if v.commands == nil {
			v.inlineError(provider.ErrNoCommandChannel.Error())
			return
		}
		if v.regenCancel != nil {
			v.regenCancel()
		}
		ctx, cancel := context.WithCancel(context.Background())
		v.regenCancel = cancel

		go func() {
			task, err := v.commands.Regenerate(ctx, provider.Params{IncludeEdges: v.includeEdges, TopK: v.topK})
			if err != nil {
				v.loop.Do(func() {
					log.Printf("[Engine] Regeneration failed: %v", err)
					v.inlineError(fmt.Sprintf("regeneration failed: %v", err))
				})
				return
			}

			v.loop.Do(func() {
				if v.sink != nil {
					v.sink.Status(fmt.Sprintf("regenerating %d documents (task %s, ~%ds)",
						task.DocumentCount, task.TaskID, task.EstimatedTimeSeconds))
				}
			})

			if err := provider.AwaitRegeneration(ctx, task); err != nil {
				return // cancelled; nothing to report
			}
			v.loop.Do(func() {
				if v.sink != nil {
					v.sink.Status("regeneration finished, reloading graph")
				}
				v.startLoad(context.Background())
			})
		}()
	})
}

// Scene returns the current rendered scene. Test and inspection hook; the
// read runs on the engine loop, but the returned pointers stay live, so
// callers on other goroutines must use Snapshot instead.
func (v *GraphView) Scene() *scene.Scene {
	var sc *scene.Scene
	v.loop.Call(func() { sc = v.sc })
	return sc
}

// Snapshot returns a deep copy of the scene plus the transform it was
// rendered under, both read on the engine loop. The copy shares nothing
// with the live scene and is safe to encode on any goroutine while the
// simulation keeps running.
func (v *GraphView) Snapshot() (*scene.Scene, viewport.Transform) {
	var sc *scene.Scene
	var t viewport.Transform
	v.loop.Call(func() {
		sc = v.sc.Clone()
		t = v.vp.Current()
	})
	return sc, t
}

// Size returns the current surface dimensions.
func (v *GraphView) Size() (float64, float64) {
	var w, h float64
	v.loop.Call(func() { w, h = v.vp.Size() })
	return w, h
}

// CurrentTransform returns the viewport transform.
func (v *GraphView) CurrentTransform() viewport.Transform {
	var t viewport.Transform
	v.loop.Call(func() { t = v.vp.Current() })
	return t
}

// ProjectionStats returns the cached global projection stats.
func (v *GraphView) ProjectionStats() layout.ProjectionStats {
	var s layout.ProjectionStats
	v.loop.Call(func() { s = v.stats })
	return s
}

// Mode returns the active layout mode.
func (v *GraphView) Mode() layout.Mode {
	var m layout.Mode
	v.loop.Call(func() { m = v.mode })
	return m
}

// ClusterFilter returns the active cluster filter, or nil.
func (v *GraphView) ClusterFilter() *int {
	var f *int
	v.loop.Call(func() { f = cloneFilter(v.clusterFilter) })
	return f
}

// Neighbors answers the neighbor query without emitting events.
func (v *GraphView) Neighbors(nodeID string) []graph.Neighbor {
	var out []graph.Neighbor
	v.loop.Call(func() { out = v.store.Neighbors(nodeID) })
	return out
}

func equalFilter(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneFilter(f *int) *int {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
