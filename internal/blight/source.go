package blight

// successWindow is the number of attempts after which a source's success
// rate is evaluated and its counters reset.
const successWindow = 100

// maxChildrenPerSource caps metastasis fan-out from a single parent.
const maxChildrenPerSource = 3

// Source is a point spreader (or healer, when Healing is set). It converts
// terrain within CurrentRadius of its position each tick; the radius grows
// toward Range while the source is starving locally.
type Source struct {
	ID       int64 `json:"id"`
	ParentID int64 `json:"parent_id,omitempty"` // 0 for root sources
	Pos      Pos   `json:"pos"`

	Range         int  `json:"range"`
	CurrentRadius int  `json:"current_radius"`
	Amount        int  `json:"amount"`
	Healing       bool `json:"healing,omitempty"`
	Protected     bool `json:"protected,omitempty"` // manually created; exempt from eviction

	// Rolling success-rate window.
	Attempts  int `json:"attempts"`
	Successes int `json:"successes"`

	Generation            int  `json:"generation"`
	BlocksTotal           int  `json:"blocks_total"`
	BlocksSinceMetastasis int  `json:"blocks_since_metastasis"`
	MetastasisThreshold   int  `json:"metastasis_threshold"`
	Saturated             bool `json:"saturated,omitempty"` // terminal
	StallCounter          int  `json:"stall_counter"`
	FailedSpawns          int  `json:"failed_spawns"`

	ChildrenSpawned    int   `json:"children_spawned"`
	LastChildSpawnTick int64 `json:"last_child_spawn_tick"`

	CreatedTick   int64 `json:"created_tick"`
	RelocatedTick int64 `json:"relocated_tick,omitempty"` // 0 = never relocated
}

// InGrace reports whether the source is still inside its post-relocation
// protection window at the given tick.
func (s *Source) InGrace(tick, graceTicks int64) bool {
	return s.RelocatedTick > 0 && tick-s.RelocatedTick < graceTicks
}

// ClampRadius keeps CurrentRadius inside [0, Range].
func (s *Source) ClampRadius() {
	if s.CurrentRadius > s.Range {
		s.CurrentRadius = s.Range
	}
	if s.CurrentRadius < 0 {
		s.CurrentRadius = 0
	}
}

// AtMaxRadius reports whether the source has grown to its full range.
func (s *Source) AtMaxRadius() bool {
	return s.CurrentRadius >= s.Range
}
