package world

import "github.com/blightworks/blight/internal/blight"

const (
	seaLevel  = 62
	maxHeight = 250
)

// FlatGenerator produces a uniform layered landscape: bedrock at y=0,
// stone at y=1-2, dirt at y=3, grass at y=4. Useful for tests and quick
// experiments.
type FlatGenerator struct{}

// NewFlatGenerator creates a FlatGenerator. The seed is accepted for
// interface symmetry and ignored.
func NewFlatGenerator(_ int64) *FlatGenerator {
	return &FlatGenerator{}
}

func (g *FlatGenerator) KindAt(x, y, z int) blight.Kind {
	switch {
	case y == 0:
		return "minecraft:bedrock"
	case y <= 2:
		return "minecraft:stone"
	case y == 3:
		return "minecraft:dirt"
	case y == 4:
		return "minecraft:grass_block"
	default:
		return ""
	}
}

func (g *FlatGenerator) HeightAt(x, z int) int { return 4 }

// DefaultGenerator produces noise-based rolling terrain with water below
// sea level and sand along the shore.
type DefaultGenerator struct {
	terrain *NoiseGenerator
	detail  *NoiseGenerator
}

// NewDefaultGenerator creates a DefaultGenerator from a seed.
func NewDefaultGenerator(seed int64) *DefaultGenerator {
	return &DefaultGenerator{
		terrain: NewNoiseGenerator(seed),
		detail:  NewNoiseGenerator(seed + 1),
	}
}

func (g *DefaultGenerator) HeightAt(x, z int) int {
	base := g.terrain.OctaveNoise2D(float64(x)/128.0, float64(z)/128.0, 6, 0.5)
	detail := g.detail.OctaveNoise2D(float64(x)/32.0, float64(z)/32.0, 3, 0.5)

	h := int(float64(seaLevel) + base*16.0 + detail*4.0)
	if h < 1 {
		h = 1
	}
	if h > maxHeight {
		h = maxHeight
	}
	return h
}

func (g *DefaultGenerator) KindAt(x, y, z int) blight.Kind {
	if y < 0 || y > maxHeight {
		return ""
	}
	if y == 0 {
		return "minecraft:bedrock"
	}

	h := g.HeightAt(x, z)
	switch {
	case y > h:
		if y <= seaLevel {
			return "minecraft:water"
		}
		return ""
	case y == h:
		if h <= seaLevel+1 {
			return "minecraft:sand"
		}
		return "minecraft:grass_block"
	case y >= h-3:
		if h <= seaLevel+1 {
			return "minecraft:sand"
		}
		return "minecraft:dirt"
	default:
		return "minecraft:stone"
	}
}
