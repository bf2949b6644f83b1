// Package blight implements the landscape-corruption simulation: point
// sources convert terrain around them, corrupted chunks grow via frontier
// flood fill and bleed into neighbours, saturated sources metastasize into
// children, wards suppress and heal, and corrupted blocks regrow over time.
package blight

import "math/rand/v2"

// Kind is a namespaced terrain identifier, e.g. "minecraft:stone" or
// "blight:rotstone".
type Kind string

// Pos is an integer block position in the world.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Offset returns p shifted by (dx, dy, dz).
func (p Pos) Offset(dx, dy, dz int) Pos {
	return Pos{p.X + dx, p.Y + dy, p.Z + dz}
}

// DistSq returns the squared euclidean distance to q.
func (p Pos) DistSq(q Pos) int {
	dx, dy, dz := p.X-q.X, p.Y-q.Y, p.Z-q.Z
	return dx*dx + dy*dy + dz*dz
}

// CellPos identifies a 16x16 world cell (chunk column).
type CellPos struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// CellOf returns the cell containing the block position.
func CellOf(p Pos) CellPos {
	return CellPos{p.X >> 4, p.Z >> 4}
}

// Grid is the world accessor the simulation runs against. Get reports the
// terrain kind at a position, or false where nothing occupies it. The core
// never caches grid state across ticks; every spread or heal re-reads
// before writing.
type Grid interface {
	Get(p Pos) (Kind, bool)
	Set(p Pos, k Kind)
	Remove(p Pos)
}

// Rand is the uniform random source consumed by the sampling formulas.
// Implementations must return IntN in [0, n) and Float64 in [0, 1).
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// PlayerLocator reports current player positions for haunting relocation.
// A nil locator disables haunting.
type PlayerLocator interface {
	PlayerPositions() []Pos
}

// NewRand returns the default non-deterministic random source.
func NewRand() Rand {
	return stdRand{}
}

type stdRand struct{}

func (stdRand) IntN(n int) int   { return rand.IntN(n) }
func (stdRand) Float64() float64 { return rand.Float64() }
