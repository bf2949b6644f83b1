package blight

import (
	"math"

	"github.com/blightworks/blight/internal/blight/config"
)

// WardEngine heals corruption inside ward spheres and enforces their
// absolute protection: any source or cell discovered inside a ward is
// removed outright.
type WardEngine struct {
	grid Grid
	cat  *Catalog
	rng  Rand
}

// NewWardEngine creates a ward engine.
func NewWardEngine(grid Grid, cat *Catalog, rng Rand) *WardEngine {
	return &WardEngine{grid: grid, cat: cat, rng: rng}
}

// Tick runs one ward pass: active healing for every ward, then protection
// enforcement. Enforcement runs last so the ward always wins over anything
// the earlier pipeline stages did this tick.
func (e *WardEngine) Tick(st *State, cfg *config.Config) (healed, removedSources, removedCells int) {
	for _, w := range st.Wards {
		healed += e.healPass(st, w, cfg)
	}
	removedSources, removedCells = e.enforceProtection(st, cfg)
	return healed, removedSources, removedCells
}

// healPass heals up to the ward's per-pass budget using the configured
// scan mode.
func (e *WardEngine) healPass(st *State, w *Ward, cfg *config.Config) int {
	mult := w.HealMultiplier
	if mult <= 0 {
		mult = cfg.SpeedMultiplier
	}
	budget := int(float64(cfg.WardHealRate) * mult)
	if budget < 1 {
		budget = 1
	}

	var healed int
	switch cfg.WardScanMode {
	case "radial":
		healed = e.healRadial(st, w, budget, cfg)
	case "random":
		healed = e.healRandom(st, w, budget, cfg)
	default:
		healed = e.healRaster(st, w, budget, cfg)
	}
	w.BlocksHealed += healed
	return healed
}

// healRaster advances the deterministic 3D cursor through [-r, r]^3,
// healing every corrupted offset it lands on, exactly once per full pass.
func (e *WardEngine) healRaster(st *State, w *Ward, budget int, cfg *config.Config) int {
	r := cfg.WardRadius
	w.resetRaster(r)

	var healed int
	// One cursor step per budget unit keeps the pass bounded; the cube
	// completes over many passes.
	steps := budget * 8
	for i := 0; i < steps && healed < budget; i++ {
		p := w.Pos.Offset(w.ScanX, w.ScanY, w.ScanZ)
		w.advanceRaster(r)
		if e.healAt(st, p) {
			healed++
		}
	}
	return healed
}

// healRadial heals outward from the ward centre: random points at the
// current clean radius, advancing the radius after enough consecutive
// failures so an empty shell cannot stall the sweep.
func (e *WardEngine) healRadial(st *State, w *Ward, budget int, cfg *config.Config) int {
	var healed int
	for i := 0; i < budget*4 && healed < budget; i++ {
		p := e.randomAtRadius(w.Pos, w.CleanRadius)
		if e.healAt(st, p) {
			healed++
			w.RadialFailures = 0
			continue
		}
		w.RadialFailures++
		if w.RadialFailures >= cfg.RadialFailureLimit {
			w.RadialFailures = 0
			w.CleanRadius++
			if w.CleanRadius > cfg.WardRadius {
				w.CleanRadius = 0
			}
			if w.CleanRadius > w.MaxCleanRadius {
				w.MaxCleanRadius = w.CleanRadius
			}
		}
	}
	return healed
}

// healRandom picks uniform points inside the protection sphere. No
// progress tracking, lowest overhead, least thorough.
func (e *WardEngine) healRandom(st *State, w *Ward, budget int, cfg *config.Config) int {
	r := cfg.WardRadius
	var healed int
	for i := 0; i < budget*4 && healed < budget; i++ {
		dx := e.rng.IntN(2*r+1) - r
		dy := e.rng.IntN(2*r+1) - r
		dz := e.rng.IntN(2*r+1) - r
		if dx*dx+dy*dy+dz*dz > r*r {
			continue
		}
		if e.healAt(st, w.Pos.Offset(dx, dy, dz)) {
			healed++
		}
	}
	return healed
}

// randomAtRadius returns a random integer point at (approximately) the
// given distance from center.
func (e *WardEngine) randomAtRadius(center Pos, radius int) Pos {
	if radius == 0 {
		return center
	}
	theta := e.rng.Float64() * 2 * math.Pi
	phi := e.rng.Float64() * math.Pi
	r := float64(radius)
	return center.Offset(
		int(r*math.Sin(phi)*math.Cos(theta)),
		int(r*math.Cos(phi)),
		int(r*math.Sin(phi)*math.Sin(theta)),
	)
}

// healAt heals a single corrupted point and clears its pending regrowth.
func (e *WardEngine) healAt(st *State, p Pos) bool {
	k, ok := e.grid.Get(p)
	if !ok {
		return false
	}
	result, ok := e.cat.Heal(k)
	if !ok {
		return false
	}

	if result == "" {
		e.grid.Remove(p)
	} else {
		e.grid.Set(p, result)
	}
	st.UntrackRegrow(p)
	return true
}

// enforceProtection removes every source and cell discovered inside any
// ward's protection sphere. Protection is absolute, not gradual.
func (e *WardEngine) enforceProtection(st *State, cfg *config.Config) (removedSources, removedCells int) {
	r := cfg.WardRadius

	for _, src := range st.Sources.All() {
		for _, w := range st.Wards {
			if w.Covers(src.Pos, r) {
				st.Sources.Remove(src.ID)
				removedSources++
				break
			}
		}
	}

	for cp := range st.Cells {
		center := Pos{cp.X<<4 + 8, 0, cp.Z<<4 + 8}
		for _, w := range st.Wards {
			// Horizontal test only: cells are unbounded vertically.
			dx, dz := center.X-w.Pos.X, center.Z-w.Pos.Z
			if dx*dx+dz*dz <= r*r {
				delete(st.Cells, cp)
				removedCells++
				break
			}
		}
	}
	return removedSources, removedCells
}
