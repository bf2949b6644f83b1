package blight

import (
	"time"

	"github.com/blightworks/blight/internal/blight/config"
)

// World height bounds for cell scans.
const (
	worldMinY = 0
	worldMaxY = 255
)

// maxBleedPerCell bounds the in-flight bleed queue of a single cell.
const maxBleedPerCell = 64

// maxRepairSeeds bounds how many frontier seeds a repair scan collects.
const maxRepairSeeds = 64

var cardinals = [4]struct{ dx, dz int }{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

// FrontierEngine advances per-cell flood-fill corruption: frontier
// expansion bounded by the cell footprint, finite-budget bleed across cell
// boundaries, periodic promotion of neighbour cells, and repair of stuck
// frontiers.
type FrontierEngine struct {
	grid Grid
	cat  *Catalog
	rng  Rand
}

// NewFrontierEngine creates a frontier engine.
func NewFrontierEngine(grid Grid, cat *Catalog, rng Rand) *FrontierEngine {
	return &FrontierEngine{grid: grid, cat: cat, rng: rng}
}

// MarkPoint corrupts p, creates its cell if needed and seeds the frontier
// from it. This is the entry point for administrative marking. A point
// that resists conversion and is not already corrupted (ward cover, air,
// unconvertible terrain) leaves the frontier unseeded.
func (e *FrontierEngine) MarkPoint(st *State, p Pos, cfg *config.Config, now time.Time) *Cell {
	c := st.EnsureCell(CellOf(p))
	c.FrontierInitialized = true

	if e.convert(st, p, cfg, now) {
		c.recordDevastated(1)
		c.Frontier = append(c.Frontier, p)
		return c
	}
	if k, ok := e.grid.Get(p); ok && e.cat.IsCorrupted(k) {
		c.Frontier = append(c.Frontier, p)
	}
	return c
}

// TickCells advances every tracked cell one frontier step.
func (e *FrontierEngine) TickCells(st *State, cfg *config.Config, now time.Time) {
	for _, c := range st.CellsInOrder() {
		e.tickCell(st, c, cfg, now)
	}
}

func (e *FrontierEngine) tickCell(st *State, c *Cell, cfg *config.Config, now time.Time) {
	// Terminal states: fully devastated cells never re-enter expansion,
	// unrepairable cells are permanently out of the repair queue.
	if c.FullyDevastated {
		return
	}

	e.processBleed(st, c, cfg, now)

	if !c.FrontierInitialized {
		return
	}

	if len(c.Frontier) > 0 {
		e.expandFrontier(st, c, cfg, now)
	}

	if len(c.Frontier) == 0 {
		c.EmptyFrontierChecks++
		if c.EmptyFrontierChecks >= cfg.EmptyFrontierLimit {
			e.maybeRepair(st, c, cfg, now)
		}
	} else {
		c.EmptyFrontierChecks = 0
	}

	e.maybeSpreadToNeighbor(st, c, cfg, now)
}

// expandFrontier attempts conversion of each frontier point's four
// horizontal neighbours (with vertical probing when configured). Newly
// converted points form the next frontier; points that convert nothing are
// exhausted and dropped. Neighbours falling outside the cell footprint
// become bleed points instead of direct conversions.
func (e *FrontierEngine) expandFrontier(st *State, c *Cell, cfg *config.Config, now time.Time) {
	var next []Pos
	for _, f := range c.Frontier {
		for _, d := range cardinals {
			n := f.Offset(d.dx, 0, d.dz)
			for _, cand := range e.verticalCandidates(n, cfg) {
				if !c.Contains(cand) {
					e.enqueueBleed(st, cand, cfg.BleedBudget)
					break
				}
				if e.convert(st, cand, cfg, now) {
					c.recordDevastated(1)
					next = append(next, cand)
					break
				}
			}
		}
	}
	c.Frontier = next
}

// verticalCandidates lists the positions tried for one horizontal
// neighbour: the point itself, then one step up and one step down when
// vertical spread is enabled, so the frontier can climb terrain.
func (e *FrontierEngine) verticalCandidates(n Pos, cfg *config.Config) []Pos {
	if !cfg.VerticalSpread {
		return []Pos{n}
	}
	return []Pos{n, n.Offset(0, 1, 0), n.Offset(0, -1, 0)}
}

// enqueueBleed registers corruption crossing into the cell owning p. The
// owning cell is created on this first contact but stays untracked
// (frontier-uninitialized) until a spread decision promotes it.
func (e *FrontierEngine) enqueueBleed(st *State, p Pos, budget int) {
	if budget <= 0 {
		return
	}
	c := st.EnsureCell(CellOf(p))
	if c.FullyDevastated || len(c.Bleed) >= maxBleedPerCell {
		return
	}
	c.Bleed = append(c.Bleed, BleedPoint{Pos: p, Remaining: budget})
}

// processBleed drains the cell's bleed queue: each point is converted in
// place and, while budget remains, spreads one step further. Every onward
// spread carries a strictly smaller budget; spent points are discarded.
func (e *FrontierEngine) processBleed(st *State, c *Cell, cfg *config.Config, now time.Time) {
	if len(c.Bleed) == 0 {
		return
	}
	queue := c.Bleed
	c.Bleed = nil

	for _, bp := range queue {
		if bp.Remaining <= 0 {
			continue
		}
		if !e.convert(st, bp.Pos, cfg, now) {
			continue
		}
		owner := st.EnsureCell(CellOf(bp.Pos))
		owner.recordDevastated(1)

		rem := bp.Remaining - 1
		if rem <= 0 {
			continue
		}
		d := cardinals[e.rng.IntN(len(cardinals))]
		n := bp.Pos.Offset(d.dx, 0, d.dz)
		for _, cand := range e.verticalCandidates(n, cfg) {
			if k, ok := e.grid.Get(cand); ok && e.cat.IsConvertible(k) {
				e.enqueueBleed(st, cand, rem)
				break
			}
		}
	}
}

// maybeRepair runs one repair attempt when the cooldown allows it. A cell
// whose devastation count has not moved since the previous attempt burns
// one of its bounded repair attempts; exhausting them marks the cell
// unrepairable so it stops costing a rescan every pass. A repair that
// finds no convertible terrain left declares the cell fully devastated.
func (e *FrontierEngine) maybeRepair(st *State, c *Cell, cfg *config.Config, now time.Time) {
	if c.Unrepairable {
		return
	}
	if c.LastRepairTick > 0 && st.Tick-c.LastRepairTick < cfg.TicksFor(cfg.RepairCooldownSeconds) {
		return // stays queued
	}

	if c.LastRepairTick > 0 {
		if c.BlocksDevastated == c.BlocksAtLastRepair {
			c.RepairAttempts++
		} else {
			c.RepairAttempts = 0
		}
	}
	c.LastRepairTick = st.Tick
	c.BlocksAtLastRepair = c.BlocksDevastated

	if c.RepairAttempts >= cfg.RepairAttemptLimit {
		c.Unrepairable = true
		return
	}

	seeds, convertible := e.scanCell(c, cfg)
	if convertible == 0 && c.BlocksDevastated > 0 {
		c.FullyDevastated = true
		c.DevastationLevel = 1
		return
	}
	if len(seeds) > 0 {
		c.Frontier = seeds
		c.EmptyFrontierChecks = 0
	}
}

// scanCell rescans the full cell footprint for corrupted points that still
// have a convertible neighbour (bleed or manual marking leaves those
// unlisted) and counts the convertible terrain remaining.
func (e *FrontierEngine) scanCell(c *Cell, cfg *config.Config) (seeds []Pos, convertible int) {
	baseX, baseZ := c.Pos.X<<4, c.Pos.Z<<4

	for x := baseX; x < baseX+16; x++ {
		for z := baseZ; z < baseZ+16; z++ {
			for y := worldMinY; y <= worldMaxY; y++ {
				p := Pos{x, y, z}
				k, ok := e.grid.Get(p)
				if !ok {
					continue
				}
				if e.cat.IsConvertible(k) {
					convertible++
					continue
				}
				if !e.cat.IsCorrupted(k) || len(seeds) >= maxRepairSeeds {
					continue
				}
				if e.hasConvertibleNeighbor(p, cfg) {
					seeds = append(seeds, p)
				}
			}
		}
	}
	return seeds, convertible
}

func (e *FrontierEngine) hasConvertibleNeighbor(p Pos, cfg *config.Config) bool {
	for _, d := range cardinals {
		for _, cand := range e.verticalCandidates(p.Offset(d.dx, 0, d.dz), cfg) {
			if k, ok := e.grid.Get(cand); ok && e.cat.IsConvertible(k) {
				return true
			}
		}
	}
	return false
}

// maybeSpreadToNeighbor runs the independent periodic cell-to-cell spread
// decision: at most once per configured interval, with the configured
// chance, one cardinal neighbour cell is promoted to a tracked cell.
func (e *FrontierEngine) maybeSpreadToNeighbor(st *State, c *Cell, cfg *config.Config, now time.Time) {
	if c.BlocksDevastated == 0 {
		return
	}
	if st.Tick-c.LastSpreadCheckTick < cfg.TicksFor(cfg.CellSpreadIntervalSeconds) {
		return
	}
	c.LastSpreadCheckTick = st.Tick

	if e.rng.Float64() >= cfg.CellSpreadChance {
		return
	}

	d := cardinals[e.rng.IntN(len(cardinals))]
	ncp := CellPos{c.Pos.X + d.dx, c.Pos.Z + d.dz}
	if nc, ok := st.Cells[ncp]; ok && (nc.FrontierInitialized || nc.FullyDevastated || nc.Unrepairable) {
		return
	}
	e.Promote(st, ncp, cfg, now)
}

// Promote turns a cell into a tracked, frontier-expanding cell. Promotion
// takes precedence over bleed: in-flight bleed points are absorbed — the
// already-corrupted ones seed the frontier, the rest are dropped. A cell
// with no corrupted bleed gets a fresh seed converted near the surface.
func (e *FrontierEngine) Promote(st *State, cp CellPos, cfg *config.Config, now time.Time) *Cell {
	c := st.EnsureCell(cp)
	if c.FrontierInitialized {
		return c
	}
	c.FrontierInitialized = true

	var seeds []Pos
	for _, bp := range c.Bleed {
		if k, ok := e.grid.Get(bp.Pos); ok && e.cat.IsCorrupted(k) {
			seeds = append(seeds, bp.Pos)
		}
	}
	c.Bleed = nil

	if len(seeds) == 0 {
		if p, ok := e.seedCell(st, c, cfg, now); ok {
			seeds = append(seeds, p)
		}
	}
	c.Frontier = seeds
	return c
}

// seedCell converts the topmost convertible block of a random column
// inside the cell to start its frontier.
func (e *FrontierEngine) seedCell(st *State, c *Cell, cfg *config.Config, now time.Time) (Pos, bool) {
	baseX, baseZ := c.Pos.X<<4, c.Pos.Z<<4

	for i := 0; i < 16; i++ {
		x := baseX + e.rng.IntN(16)
		z := baseZ + e.rng.IntN(16)
		for y := worldMaxY; y >= worldMinY; y-- {
			p := Pos{x, y, z}
			k, ok := e.grid.Get(p)
			if !ok {
				continue
			}
			if !e.cat.IsConvertible(k) {
				break // solid but unconvertible column top
			}
			if e.convert(st, p, cfg, now) {
				c.recordDevastated(1)
				return p, true
			}
			break
		}
	}
	return Pos{}, false
}

// convert corrupts one point through the catalog, honouring ward cover and
// registering the regrowth entry.
func (e *FrontierEngine) convert(st *State, p Pos, cfg *config.Config, now time.Time) bool {
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
