package blight

import "time"

// Ward is a protective volume. Corruption cannot be created inside its
// sphere, sources and cells discovered inside it are removed, and it
// actively heals corrupted blocks using one of three scan strategies.
type Ward struct {
	Pos          Pos       `json:"pos"`
	DiscoveredAt time.Time `json:"discovered_at"`
	BlocksHealed int       `json:"blocks_healed"`

	// Raster mode: deterministic 3D cursor over [-r, r]^3.
	ScanX          int  `json:"scan_x"`
	ScanY          int  `json:"scan_y"`
	ScanZ          int  `json:"scan_z"`
	RasterComplete bool `json:"raster_complete,omitempty"`

	// Radial mode: outward-only clean radius.
	CleanRadius    int `json:"clean_radius"`
	RadialFailures int `json:"radial_failures"`

	// MaxCleanRadius never resets; external collaborators use it for
	// visual effects.
	MaxCleanRadius int `json:"max_clean_radius"`

	// HealMultiplier overrides the global speed multiplier when > 0.
	HealMultiplier float64 `json:"heal_multiplier,omitempty"`
}

// Covers reports whether the position lies inside the ward's protection
// sphere of the given radius.
func (w *Ward) Covers(p Pos, radius int) bool {
	return w.Pos.DistSq(p) <= radius*radius
}

// advanceRaster steps the raster cursor one offset forward, wrapping and
// marking the pass complete when the cube is exhausted.
func (w *Ward) advanceRaster(radius int) {
	w.ScanZ++
	if w.ScanZ <= radius {
		return
	}
	w.ScanZ = -radius
	w.ScanY++
	if w.ScanY <= radius {
		return
	}
	w.ScanY = -radius
	w.ScanX++
	if w.ScanX > radius {
		w.ScanX = -radius
		w.RasterComplete = true
	}
}

// resetRaster clamps the cursor into the current cube, for wards restored
// from older saves or after a radius change.
func (w *Ward) resetRaster(radius int) {
	if w.ScanX < -radius || w.ScanX > radius ||
		w.ScanY < -radius || w.ScanY > radius ||
		w.ScanZ < -radius || w.ScanZ > radius {
		w.ScanX, w.ScanY, w.ScanZ = -radius, -radius, -radius
	}
}
