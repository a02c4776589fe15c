package layout

import "github.com/simgraph/simgraph/pkg/scene"

// Mode selects which layout philosophy drives node positions.
type Mode uint8

const (
	// ModePhysics runs the iterative force simulation.
	ModePhysics Mode = iota
	// ModeFixed places nodes deterministically from projection coordinates.
	ModeFixed
)

// String returns the wire/config name of the mode.
func (m Mode) String() string {
	if m == ModeFixed {
		return "fixed"
	}
	return "physics"
}

// ParseMode parses a mode name; unknown names fall back to physics.
func ParseMode(s string) Mode {
	if s == "fixed" {
		return ModeFixed
	}
	return ModePhysics
}

// Strategy is the common surface of the two layout variants. The
// orchestrator holds one instance of each and activates exactly one at a
// time; isolating the force-simulation lifecycle from the deterministic
// placement path keeps their failure modes apart.
//
// Initialize activates the strategy for the given scene. OnFilterChanged
// re-runs placement after the rendered subset changed without resetting
// runtime state. Tick advances one animation frame and reports whether any
// position changed (always false for the fixed variant). Stop deactivates
// the strategy; for the physics variant this removes all forces and halts
// the simulation deterministically, with no residual drift.
type Strategy interface {
	Initialize(sc *scene.Scene, viewport Size)
	OnFilterChanged(sc *scene.Scene)
	Tick(dt float64) bool
	Stop()
}
