package blight

// BleedPoint is corruption that crossed into a cell that is not yet
// frontier-tracked. Remaining is the infection budget: it decrements on
// every further spread and the point is discarded at zero.
type BleedPoint struct {
	Pos       Pos `json:"pos"`
	Remaining int `json:"remaining"`
}

// Cell tracks aggregate corruption for one 16x16 world column. Cells are
// created on first corruption contact (marking or bleed) and only removed
// by explicit administrative action or ward suppression.
type Cell struct {
	Pos CellPos `json:"pos"`

	DevastationLevel float64 `json:"devastation_level"` // advisory fraction 0..1
	FullyDevastated  bool    `json:"fully_devastated,omitempty"`
	BlocksDevastated int     `json:"blocks_devastated"`

	Frontier            []Pos        `json:"frontier,omitempty"`
	FrontierInitialized bool         `json:"frontier_initialized,omitempty"`
	Bleed               []BleedPoint `json:"bleed,omitempty"`

	// Stuck-frontier repair bookkeeping.
	EmptyFrontierChecks int   `json:"empty_frontier_checks"`
	RepairAttempts      int   `json:"repair_attempts"`
	LastRepairTick      int64 `json:"last_repair_tick"`
	BlocksAtLastRepair  int   `json:"blocks_at_last_repair"`
	Unrepairable        bool  `json:"unrepairable,omitempty"` // terminal

	LastSpreadCheckTick int64 `json:"last_spread_check_tick"`
	LastMobSpawnTick    int64 `json:"last_mob_spawn_tick"`
}

// cellVolume is the denominator for the advisory devastation level: one
// chunk-sized 16x16x16 region.
const cellVolume = 16 * 16 * 16

// recordDevastated bumps the block counter and the advisory level.
func (c *Cell) recordDevastated(n int) {
	c.BlocksDevastated += n
	c.DevastationLevel = float64(c.BlocksDevastated) / float64(cellVolume)
	if c.DevastationLevel > 1 {
		c.DevastationLevel = 1
	}
}

// Contains reports whether the block position falls inside this cell's
// footprint.
func (c *Cell) Contains(p Pos) bool {
	return CellOf(p) == c.Pos
}

// ShouldSpawnMob reports whether the cell's mob-spawn cooldown has elapsed
// at the given tick, and arms the cooldown when it has. The spawning
// itself belongs to an external collaborator.
func (c *Cell) ShouldSpawnMob(tick, cooldownTicks int64) bool {
	if c.BlocksDevastated == 0 {
		return false
	}
	if tick-c.LastMobSpawnTick < cooldownTicks {
		return false
	}
	c.LastMobSpawnTick = tick
	return true
}
