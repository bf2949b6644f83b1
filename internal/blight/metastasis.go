package blight

import (
	"math"

	"github.com/blightworks/blight/internal/blight/config"
)

// MetastasisEngine spawns child sources from saturated or stalled parents.
type MetastasisEngine struct {
	grid    Grid
	cat     *Catalog
	sampler *Sampler
	rng     Rand
}

// NewMetastasisEngine creates a metastasis engine.
func NewMetastasisEngine(grid Grid, cat *Catalog, sampler *Sampler, rng Rand) *MetastasisEngine {
	return &MetastasisEngine{grid: grid, cat: cat, sampler: sampler, rng: rng}
}

// ShouldSpawn reports whether the source has earned a regular metastasis:
// enough blocks converted since the last child, and grown to full range.
func (e *MetastasisEngine) ShouldSpawn(src *Source) bool {
	return !src.Healing && !src.Saturated &&
		src.BlocksSinceMetastasis >= src.MetastasisThreshold &&
		src.AtMaxRadius()
}

// ShouldSpawnWhileStalled is the escape valve for sources that can no
// longer find open terrain at their own radius. Saturation is terminal:
// a saturated source never takes this path either.
func (e *MetastasisEngine) ShouldSpawnWhileStalled(src *Source, cfg *config.Config) bool {
	return !src.Healing && !src.Saturated &&
		src.StallCounter >= cfg.StallLimit
}

// TrySpawnChild attempts one metastasis from parent. It enforces the spawn
// cooldown, makes room in the registry (evicting if needed), and searches
// for a viable site. On success the child inherits the parent's amount and
// threshold with a randomized range, and the parent saturates after its
// third child. Repeated site-search failures also saturate the parent so
// it stops occupying capacity.
func (e *MetastasisEngine) TrySpawnChild(st *State, parent *Source, cfg *config.Config) bool {
	if parent.Saturated || parent.Healing {
		return false
	}

	cooldown := cfg.TicksFor(cfg.ChildSpawnDelaySeconds / cfg.SpeedMultiplier)
	if parent.LastChildSpawnTick > 0 && st.Tick-parent.LastChildSpawnTick < cooldown {
		return false
	}

	if !st.Sources.EnsureCapacity(1, cfg.MaxSources) {
		return false
	}

	site, ok := e.findSpawnSite(st, parent, cfg)
	if !ok {
		e.recordFailedSpawn(parent, cfg)
		return false
	}

	child := &Source{
		ID:                  st.Sources.NextID(),
		ParentID:            parent.ID,
		Pos:                 site,
		Range:               e.childRange(parent, cfg),
		CurrentRadius:       cfg.InitialRadius,
		Amount:              parent.Amount,
		Generation:          parent.Generation + 1,
		MetastasisThreshold: parent.MetastasisThreshold,
		CreatedTick:         st.Tick,
	}
	child.ClampRadius()
	st.Sources.Add(child)

	parent.ChildrenSpawned++
	parent.LastChildSpawnTick = st.Tick
	parent.BlocksSinceMetastasis = 0
	parent.FailedSpawns = 0
	if parent.ChildrenSpawned >= maxChildrenPerSource {
		parent.Saturated = true
	}
	return true
}

// recordFailedSpawn counts a fruitless site search; a source that keeps
// failing is marked saturated even without reaching the child cap.
func (e *MetastasisEngine) recordFailedSpawn(src *Source, cfg *config.Config) {
	src.FailedSpawns++
	if src.FailedSpawns >= cfg.FailedSpawnLimit {
		src.Saturated = true
	}
}

// childRange randomizes the child's range around the parent's by the
// configured fractional variance.
func (e *MetastasisEngine) childRange(parent *Source, cfg *config.Config) int {
	factor := 1 + (e.rng.Float64()*2-1)*cfg.RangeVariance
	r := int(float64(parent.Range) * factor)
	if r < 1 {
		r = 1
	}
	return r
}

// findSpawnSite tries the pillar search first, then the long-range search.
func (e *MetastasisEngine) findSpawnSite(st *State, parent *Source, cfg *config.Config) (Pos, bool) {
	if p, ok := e.pillarSearch(st, parent, cfg); ok {
		return p, true
	}
	return e.longRangeSearch(st, parent, cfg)
}

// pillarSearch probes random columns between 1.2x the parent's current
// radius and 2x its range, looking for a foothold with at least a handful
// of convertible neighbours.
func (e *MetastasisEngine) pillarSearch(st *State, parent *Source, cfg *config.Config) (Pos, bool) {
	minDist := 1.2 * float64(parent.CurrentRadius)
	maxDist := 2 * float64(parent.Range)
	if maxDist <= minDist {
		maxDist = minDist + 1
	}

	for i := 0; i < 20; i++ {
		angle := e.rng.Float64() * 2 * math.Pi
		dist := minDist + e.rng.Float64()*(maxDist-minDist)
		x := parent.Pos.X + int(dist*math.Cos(angle))
		z := parent.Pos.Z + int(dist*math.Sin(angle))

		if p, ok := e.probeColumn(st, x, parent.Pos.Y, z, 5, cfg); ok {
			return p, true
		}
	}
	return Pos{}, false
}

// longRangeSearch widens the net at 2x, 4x, 6x and 8x the parent's range
// (capped at 128 units), demanding a richer site and no overlap with
// existing sources.
func (e *MetastasisEngine) longRangeSearch(st *State, parent *Source, cfg *config.Config) (Pos, bool) {
	for _, mult := range []int{2, 4, 6, 8} {
		dist := mult * parent.Range
		if dist > 128 {
			dist = 128
		}

		for i := 0; i < 10; i++ {
			angle := e.rng.Float64() * 2 * math.Pi
			x := parent.Pos.X + int(float64(dist)*math.Cos(angle))
			z := parent.Pos.Z + int(float64(dist)*math.Sin(angle))

			p, ok := e.probeColumn(st, x, parent.Pos.Y, z, 10, cfg)
			if !ok {
				continue
			}
			if e.overlapsExisting(st, p) {
				continue
			}
			return p, true
		}
	}
	return Pos{}, false
}

// probeColumn walks a vertical column around yCenter looking for anchored
// terrain with at least minNearby convertible points around it. Candidates
// below the configured minimum elevation or under ward cover are rejected.
func (e *MetastasisEngine) probeColumn(st *State, x, yCenter, z, minNearby int, cfg *config.Config) (Pos, bool) {
	for dy := 16; dy >= -16; dy-- {
		p := Pos{x, yCenter + dy, z}
		if p.Y < cfg.MinSourceY {
			continue
		}
		if _, ok := e.grid.Get(p); !ok {
			continue
		}
		if st.WardCover(p, cfg.WardRadius) {
			return Pos{}, false
		}
		if e.sampler.CountConvertibleNearby(p, 2) >= minNearby {
			return p, true
		}
	}
	return Pos{}, false
}

// overlapsExisting reports whether the candidate sits inside another
// source's range.
func (e *MetastasisEngine) overlapsExisting(st *State, p Pos) bool {
	for _, s := range st.Sources.All() {
		if p.DistSq(s.Pos) <= s.Range*s.Range {
			return true
		}
	}
	return false
}
