package blight

import (
	"log/slog"
	"time"

	"github.com/blightworks/blight/internal/blight/config"
)

// Simulation wires the engines into the tick pipeline. Ordering is fixed:
// spread/heal and cell frontiers advance first, metastasis and haunting
// consume the registry after, wards run last and win over everything, and
// regeneration runs on its own slower cadence.
type Simulation struct {
	log *slog.Logger

	grid    Grid
	cat     *Catalog
	rng     Rand
	sampler *Sampler

	spread   *SpreadEngine
	meta     *MetastasisEngine
	haunt    *HauntingEngine
	frontier *FrontierEngine
	wards    *WardEngine
	regen    *RegenEngine

	state *State
}

// New builds a simulation over the given grid. locator may be nil, which
// disables haunting.
func New(grid Grid, locator PlayerLocator, rng Rand, log *slog.Logger) *Simulation {
	cat := NewCatalog()
	sampler := NewSampler(grid, cat, rng)

	return &Simulation{
		log:      log,
		grid:     grid,
		cat:      cat,
		rng:      rng,
		sampler:  sampler,
		spread:   NewSpreadEngine(grid, cat, sampler),
		meta:     NewMetastasisEngine(grid, cat, sampler, rng),
		haunt:    NewHauntingEngine(grid, sampler, rng, locator),
		frontier: NewFrontierEngine(grid, cat, rng),
		wards:    NewWardEngine(grid, cat, rng),
		regen:    NewRegenEngine(grid, cat),
		state:    NewState(),
	}
}

// State exposes the mutable simulation state for persistence and admin
// commands.
func (s *Simulation) State() *State { return s.state }

// ReplaceState swaps in a loaded state, e.g. after a reload from disk.
func (s *Simulation) ReplaceState(st *State) { s.state = st }

// Catalog returns the transformation catalog.
func (s *Simulation) Catalog() *Catalog { return s.cat }

// TickSources runs one fast-cadence step: every source spreads or heals,
// then eligible sources metastasize. The pause flag short-circuits before
// any mutation.
func (s *Simulation) TickSources(cfg *config.Config, now time.Time) {
	st := s.state
	if st.Paused {
		return
	}
	st.Tick++

	for _, src := range st.Sources.All() {
		if src.Healing {
			s.spread.HealFromSource(st, src, cfg)
		} else {
			s.spread.SpreadFromSource(st, src, cfg, now)
		}
	}

	for _, src := range st.Sources.All() {
		if s.meta.ShouldSpawn(src) || s.meta.ShouldSpawnWhileStalled(src, cfg) {
			if s.meta.TrySpawnChild(st, src, cfg) {
				s.log.Debug("metastasis",
					"parent", src.ID,
					"generation", src.Generation+1,
					"children", src.ChildrenSpawned,
				)
			}
		}
	}
}

// TickCells runs one coarse-cadence step: cell frontiers expand, then
// wards heal and enforce protection. Wards always run last.
func (s *Simulation) TickCells(cfg *config.Config, now time.Time) {
	st := s.state
	if st.Paused {
		return
	}

	s.frontier.TickCells(st, cfg, now)

	healed, removedSources, removedCells := s.wards.Tick(st, cfg)
	if removedSources > 0 || removedCells > 0 {
		s.log.Info("ward protection enforced",
			"sources_removed", removedSources,
			"cells_removed", removedCells,
			"healed", healed,
		)
	}
}

// TickMaintenance runs the slow housekeeping step: regeneration, registry
// upkeep and haunting relocation.
func (s *Simulation) TickMaintenance(cfg *config.Config, now time.Time) {
	st := s.state
	if st.Paused {
		return
	}

	s.regen.Tick(st, now, cfg)

	if n := st.Sources.RemoveInvalid(s.grid); n > 0 {
		s.log.Info("removed unanchored sources", "count", n)
	}
	if n := st.Sources.CleanupSaturated(cfg.MaxSources); n > 0 {
		s.log.Info("cleaned up saturated sources", "count", n)
	}
	if n := s.haunt.Relocate(st, cfg); n > 0 {
		s.log.Info("haunting relocation", "count", n)
	}
}

// AddSource creates a manually placed source. Manual sources are protected
// from eviction. Returns nil when no capacity could be freed.
func (s *Simulation) AddSource(p Pos, rng, amount int, healing bool, cfg *config.Config) *Source {
	st := s.state
	if !st.Sources.EnsureCapacity(1, cfg.MaxSources) {
		return nil
	}

	src := &Source{
		ID:                  st.Sources.NextID(),
		Pos:                 p,
		Range:               rng,
		CurrentRadius:       cfg.InitialRadius,
		Amount:              amount,
		Healing:             healing,
		Protected:           true,
		MetastasisThreshold: cfg.MetastasisThreshold,
		CreatedTick:         st.Tick,
	}
	src.ClampRadius()
	st.Sources.Add(src)

	s.log.Info("source created",
		"id", src.ID,
		"pos", p,
		"range", rng,
		"healing", healing,
	)
	return src
}

// RemoveAllSources drops the entire source population.
func (s *Simulation) RemoveAllSources() int {
	st := s.state
	n := st.Sources.Count()
	for _, src := range st.Sources.All() {
		st.Sources.Remove(src.ID)
	}
	return n
}

// AddWard places a protective ward. The raster cursor starts at the cube
// corner for the configured radius.
func (s *Simulation) AddWard(p Pos, now time.Time, cfg *config.Config) *Ward {
	w := &Ward{
		Pos:          p,
		DiscoveredAt: now,
		ScanX:        -cfg.WardRadius,
		ScanY:        -cfg.WardRadius,
		ScanZ:        -cfg.WardRadius,
	}
	s.state.Wards = append(s.state.Wards, w)
	s.log.Info("ward placed", "pos", p, "radius", cfg.WardRadius)
	return w
}

// MarkCell corrupts a point and starts frontier expansion in its cell.
func (s *Simulation) MarkCell(p Pos, cfg *config.Config, now time.Time) *Cell {
	return s.frontier.MarkPoint(s.state, p, cfg, now)
}

// MobSpawnCandidates returns the cells whose mob-spawn cooldown has
// elapsed, arming each cooldown. The spawning collaborator polls this
// between ticks; the simulation itself only does the bookkeeping.
func (s *Simulation) MobSpawnCandidates(cfg *config.Config) []CellPos {
	cooldown := cfg.TicksFor(cfg.MobSpawnCooldownSeconds)

	var out []CellPos
	for _, c := range s.state.CellsInOrder() {
		if c.ShouldSpawnMob(s.state.Tick, cooldown) {
			out = append(out, c.Pos)
		}
	}
	return out
}

// SourceReport is a per-source snapshot for operator inspection.
type SourceReport struct {
	ID               int
	Pos              Pos
	Generation       int
	CurrentRadius    int
	Range            int
	BlocksTotal      int
	StallCounter     int
	Healing          bool
	Saturated        bool
	LocalDevastation float64
}

// SourceReports lists every source with the devastation fraction of its
// current sphere. The fraction is an exhaustive scan, cubic in the
// radius, so this belongs on the console path, not in a tick.
func (s *Simulation) SourceReports() []SourceReport {
	var out []SourceReport
	for _, src := range s.state.Sources.All() {
		out = append(out, SourceReport{
			ID:               src.ID,
			Pos:              src.Pos,
			Generation:       src.Generation,
			CurrentRadius:    src.CurrentRadius,
			Range:            src.Range,
			BlocksTotal:      src.BlocksTotal,
			StallCounter:     src.StallCounter,
			Healing:          src.Healing,
			Saturated:        src.Saturated,
			LocalDevastation: s.sampler.LocalDevastationPercent(src.Pos, src.CurrentRadius),
		})
	}
	return out
}

// Stats summarizes the live population for logs and the stats command.
type Stats struct {
	Tick             int64
	Sources          int
	SaturatedSources int
	HealingSources   int
	Cells            int
	FullyDevastated  int
	Unrepairable     int
	BlocksDevastated int
	RegrowPending    int
	Wards            int
	Paused           bool
}

// Stats computes aggregate counters over the current state.
func (s *Simulation) Stats() Stats {
	st := s.state
	out := Stats{
		Tick:          st.Tick,
		Sources:       st.Sources.Count(),
		Cells:         len(st.Cells),
		RegrowPending: len(st.Regrow),
		Wards:         len(st.Wards),
		Paused:        st.Paused,
	}
	st.Sources.ForEach(func(src *Source) {
		if src.Saturated {
			out.SaturatedSources++
		}
		if src.Healing {
			out.HealingSources++
		}
	})
	for _, c := range st.Cells {
		if c.FullyDevastated {
			out.FullyDevastated++
		}
		if c.Unrepairable {
			out.Unrepairable++
		}
		out.BlocksDevastated += c.BlocksDevastated
	}
	return out
}
