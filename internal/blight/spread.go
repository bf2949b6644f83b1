package blight

import (
	"time"

	"github.com/blightworks/blight/internal/blight/config"
)

// SpreadEngine performs per-source radius-bounded spread and heal work and
// drives the adaptive radius-growth state machine.
type SpreadEngine struct {
	grid    Grid
	cat     *Catalog
	sampler *Sampler
}

// NewSpreadEngine creates a spread engine over the given grid and catalog.
func NewSpreadEngine(grid Grid, cat *Catalog, sampler *Sampler) *SpreadEngine {
	return &SpreadEngine{grid: grid, cat: cat, sampler: sampler}
}

// effectiveAmount is the per-tick conversion budget for a source.
func effectiveAmount(s *Source, cfg *config.Config) int {
	n := int(float64(s.Amount) * cfg.SpeedMultiplier)
	if n < 1 {
		n = 1
	}
	return n
}

// SpreadFromSource attempts up to five weighted samples per budgeted
// conversion, corrupting each convertible hit. Misses (no terrain,
// untransformable kind, already corrupted, ward cover) are normal negative
// outcomes folded into the success-rate window. Returns blocks changed.
func (e *SpreadEngine) SpreadFromSource(st *State, src *Source, cfg *config.Config, now time.Time) int {
	budget := effectiveAmount(src, cfg)
	var changed int

	for i := 0; i < budget*5 && changed < budget; i++ {
		dx, dy, dz := e.sampler.WeightedOffset(src.CurrentRadius)
		p := src.Pos.Offset(dx, dy, dz)

		src.Attempts++
		if e.corruptAt(st, p, cfg, now) {
			src.Successes++
			src.BlocksTotal++
			src.BlocksSinceMetastasis++
			changed++
		}
		e.updateRadiusState(st, src, cfg)
	}
	return changed
}

// HealFromSource is the symmetric operation for healing sources: weighted
// samples are resolved through the inverse table, and a "heal to none"
// removes the block entirely.
func (e *SpreadEngine) HealFromSource(st *State, src *Source, cfg *config.Config) int {
	budget := effectiveAmount(src, cfg)
	var changed int

	for i := 0; i < budget*5 && changed < budget; i++ {
		dx, dy, dz := e.sampler.WeightedOffset(src.CurrentRadius)
		p := src.Pos.Offset(dx, dy, dz)

		src.Attempts++
		if e.healAt(st, p) {
			src.Successes++
			src.BlocksTotal++
			changed++
		}
		e.updateRadiusState(st, src, cfg)
	}
	return changed
}

// corruptAt converts a single point if the catalog allows it and no ward
// covers it, registering the regrowth entry.
func (e *SpreadEngine) corruptAt(st *State, p Pos, cfg *config.Config, now time.Time) bool {
	k, ok := e.grid.Get(p)
	if !ok {
		return false
	}
	result, regrow, ok := e.cat.Devastation(k)
	if !ok {
		return false
	}
	if st.WardCover(p, cfg.WardRadius) {
		return false
	}

	e.grid.Set(p, result)
	st.TrackRegrow(p, regrow, now)
	return true
}

// healAt reverses a single corrupted point and drops any pending regrowth.
func (e *SpreadEngine) healAt(st *State, p Pos) bool {
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

// updateRadiusState evaluates the success rate every full attempt window.
// Radius only grows while the source is starving locally, which keeps
// dense terrain saturating at a small radius and stops unbounded growth in
// sparse terrain. Stalling at max radius feeds the emergency-metastasis
// trigger.
func (e *SpreadEngine) updateRadiusState(st *State, src *Source, cfg *config.Config) {
	if src.Attempts < successWindow {
		return
	}

	rate := float64(src.Successes) / float64(src.Attempts)
	grace := src.InGrace(st.Tick, cfg.TicksFor(cfg.RelocationGraceSeconds))
	// Whether the window being judged was spent at max radius; growth
	// applied below must not turn the same window into a stall cycle.
	atMax := src.AtMaxRadius()

	if rate < cfg.LowSuccessRate && src.CurrentRadius < src.Range {
		step := cfg.RadiusGrowthStep
		if rate < cfg.LowSuccessRate/2 {
			step *= 2
		}
		if grace {
			step *= 2
		}
		src.CurrentRadius += step
		src.ClampRadius()
	}

	if rate < cfg.VeryLowSuccessRate && atMax && !src.Healing {
		if grace {
			src.StallCounter = 0
		} else {
			src.StallCounter++
		}
	} else {
		src.StallCounter = 0
	}

	src.Attempts = 0
	src.Successes = 0
}
