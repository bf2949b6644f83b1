package blight

import (
	"slices"
	"time"
)

// State is the complete mutable simulation state: everything that must
// survive a save/reload cycle. It is owned by the scheduler and passed
// into each tick; there is no ambient global state.
type State struct {
	Sources *Registry
	Cells   map[CellPos]*Cell
	Regrow  map[Pos]*RegrowingPoint
	Wards   []*Ward
	Paused  bool
	Tick    int64

	// LastHauntTick rate-limits haunting relocation.
	LastHauntTick int64
}

// NewState returns an empty simulation state.
func NewState() *State {
	return &State{
		Sources: NewRegistry(),
		Cells:   make(map[CellPos]*Cell),
		Regrow:  make(map[Pos]*RegrowingPoint),
	}
}

// EnsureCell returns the cell at cp, creating it on first contact.
func (st *State) EnsureCell(cp CellPos) *Cell {
	if c, ok := st.Cells[cp]; ok {
		return c
	}
	c := &Cell{Pos: cp}
	st.Cells[cp] = c
	return c
}

// CellsInOrder returns the tracked cells in stable (x, z) order.
func (st *State) CellsInOrder() []*Cell {
	out := make([]*Cell, 0, len(st.Cells))
	for _, c := range st.Cells {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *Cell) int {
		if a.Pos.X != b.Pos.X {
			return a.Pos.X - b.Pos.X
		}
		return a.Pos.Z - b.Pos.Z
	})
	return out
}

// TrackRegrow records a corrupted point for later regeneration,
// overwriting any pending entry at the same position.
func (st *State) TrackRegrow(p Pos, target Kind, now time.Time) {
	st.Regrow[p] = &RegrowingPoint{Pos: p, Target: target, ChangedAt: now}
}

// UntrackRegrow drops the pending regeneration at p, if any.
func (st *State) UntrackRegrow(p Pos) {
	delete(st.Regrow, p)
}

// WardCover reports whether any ward's protection sphere of the given
// radius covers p. Corruption is never created inside a ward.
func (st *State) WardCover(p Pos, radius int) bool {
	for _, w := range st.Wards {
		if w.Covers(p, radius) {
			return true
		}
	}
	return false
}
