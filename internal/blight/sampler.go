package blight

import "math"

// Sampler provides weighted random offsets and local-area statistics over
// the world grid. It holds no state of its own.
type Sampler struct {
	grid Grid
	cat  *Catalog
	rng  Rand
}

// NewSampler creates a sampler over the given grid, catalog and random
// source.
func NewSampler(grid Grid, cat *Catalog, rng Rand) *Sampler {
	return &Sampler{grid: grid, cat: cat, rng: rng}
}

// WeightedOffset draws a random integer offset with magnitude at most
// maxDistance. Direction comes from a uniform angle pair; the distance is
// maxDistance * (1 - sqrt(u)), which concentrates samples near the origin
// while still reaching the full radius. The spherical-to-integer
// conversion truncates rather than rounds; the resulting radial bias is a
// deliberate part of the spread shape.
func (s *Sampler) WeightedOffset(maxDistance int) (dx, dy, dz int) {
	if maxDistance <= 0 {
		return 0, 0, 0
	}

	theta := s.rng.Float64() * 2 * math.Pi
	phi := s.rng.Float64() * math.Pi
	dist := float64(maxDistance) * (1 - math.Sqrt(s.rng.Float64()))

	sinPhi := math.Sin(phi)
	dx = int(dist * sinPhi * math.Cos(theta))
	dy = int(dist * math.Cos(phi))
	dz = int(dist * sinPhi * math.Sin(theta))
	return dx, dy, dz
}

// LocalDevastationPercent exhaustively classifies every integer point
// within a spherical radius of center and returns the devastated fraction
// of the points that matter (corrupted or still convertible). An area with
// no convertible points left counts as fully saturated (1.0): barren
// terrain is treated as already done, not as un-spreadable.
func (s *Sampler) LocalDevastationPercent(center Pos, radius int) float64 {
	if radius < 0 {
		return 1.0
	}

	var devastated, convertible int
	rsq := radius * radius
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			for dz := -radius; dz <= radius; dz++ {
				if dx*dx+dy*dy+dz*dz > rsq {
					continue
				}
				k, ok := s.grid.Get(center.Offset(dx, dy, dz))
				if !ok {
					continue
				}
				switch {
				case s.cat.IsCorrupted(k):
					devastated++
				case s.cat.IsConvertible(k):
					convertible++
				}
			}
		}
	}

	if convertible == 0 {
		return 1.0
	}
	return float64(devastated) / float64(devastated+convertible)
}

// CountConvertibleNearby counts convertible points in the cube of the
// given radius around center. The cubic scan is cheaper than a spherical
// one and is only used for candidate scoring during metastasis search.
func (s *Sampler) CountConvertibleNearby(center Pos, radius int) int {
	if radius < 0 {
		return 0
	}

	var n int
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			for dz := -radius; dz <= radius; dz++ {
				if k, ok := s.grid.Get(center.Offset(dx, dy, dz)); ok && s.cat.IsConvertible(k) {
					n++
				}
			}
		}
	}
	return n
}
