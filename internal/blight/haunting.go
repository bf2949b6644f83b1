package blight

import (
	"math"

	"github.com/blightworks/blight/internal/blight/config"
)

// HauntingEngine periodically relocates stalled, unsaturated sources
// toward players so that exhausted corruption keeps applying pressure
// instead of dying out in a consumed area.
type HauntingEngine struct {
	grid    Grid
	sampler *Sampler
	rng     Rand
	locator PlayerLocator
}

// NewHauntingEngine creates a haunting engine. A nil locator disables
// relocation entirely.
func NewHauntingEngine(grid Grid, sampler *Sampler, rng Rand, locator PlayerLocator) *HauntingEngine {
	return &HauntingEngine{grid: grid, sampler: sampler, rng: rng, locator: locator}
}

// Relocate moves at most one eligible source per pass to a spot near a
// random player. Eligible sources are unsaturated, non-healing,
// non-protected and stalled at max radius. Returns the number relocated.
func (e *HauntingEngine) Relocate(st *State, cfg *config.Config) int {
	if e.locator == nil {
		return 0
	}
	if st.Tick-st.LastHauntTick < cfg.TicksFor(cfg.HauntIntervalSeconds) {
		return 0
	}
	players := e.locator.PlayerPositions()
	if len(players) == 0 {
		return 0
	}

	for _, src := range st.Sources.All() {
		if src.Saturated || src.Healing || src.Protected {
			continue
		}
		if src.StallCounter < cfg.StallLimit || !src.AtMaxRadius() {
			continue
		}

		target := players[e.rng.IntN(len(players))]
		site, ok := e.findHauntSite(st, target, cfg)
		if !ok {
			continue
		}

		src.Pos = site
		src.CurrentRadius = cfg.InitialRadius
		src.ClampRadius()
		src.StallCounter = 0
		src.Attempts = 0
		src.Successes = 0
		src.RelocatedTick = st.Tick
		st.LastHauntTick = st.Tick
		return 1
	}
	return 0
}

// findHauntSite probes columns in a ring around the player at the
// configured haunt distance band.
func (e *HauntingEngine) findHauntSite(st *State, player Pos, cfg *config.Config) (Pos, bool) {
	band := cfg.HauntMaxDistance - cfg.HauntMinDistance

	for i := 0; i < 12; i++ {
		angle := e.rng.Float64() * 2 * math.Pi
		dist := float64(cfg.HauntMinDistance)
		if band > 0 {
			dist += e.rng.Float64() * float64(band)
		}
		x := player.X + int(dist*math.Cos(angle))
		z := player.Z + int(dist*math.Sin(angle))

		for dy := 16; dy >= -16; dy-- {
			p := Pos{x, player.Y + dy, z}
			if p.Y < cfg.MinSourceY {
				continue
			}
			if _, ok := e.grid.Get(p); !ok {
				continue
			}
			if st.WardCover(p, cfg.WardRadius) {
				break
			}
			if e.sampler.CountConvertibleNearby(p, 2) >= 5 {
				return p, true
			}
		}
	}
	return Pos{}, false
}
