package blight

import (
	"math/rand/v2"

	"github.com/blightworks/blight/internal/blight/config"
)

// fakeGrid is a plain in-memory grid for tests.
type fakeGrid struct {
	blocks map[Pos]Kind
}

func newFakeGrid() *fakeGrid {
	return &fakeGrid{blocks: make(map[Pos]Kind)}
}

func (g *fakeGrid) Get(p Pos) (Kind, bool) {
	k, ok := g.blocks[p]
	return k, ok
}

func (g *fakeGrid) Set(p Pos, k Kind) { g.blocks[p] = k }
func (g *fakeGrid) Remove(p Pos)      { delete(g.blocks, p) }

// fillSlab fills the inclusive box with the given kind.
func (g *fakeGrid) fillSlab(x0, x1, y0, y1, z0, z1 int, k Kind) {
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for z := z0; z <= z1; z++ {
				g.blocks[Pos{x, y, z}] = k
			}
		}
	}
}

func (g *fakeGrid) count(k Kind) int {
	var n int
	for _, v := range g.blocks {
		if v == k {
			n++
		}
	}
	return n
}

// testRand returns a deterministic random source.
func testRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

// testConfig returns clamped defaults with the probabilistic cell-to-cell
// spread disabled so tests stay isolated from it.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.CellSpreadChance = 0
	cfg.Clamp()
	return cfg
}
