// Package world provides the in-memory block grid the daemon runs the
// simulation against: a seeded terrain generator plus an override map for
// every block the simulation has changed.
package world

import (
	"sync"

	"github.com/blightworks/blight/internal/blight"
)

// Generator produces the base terrain kind at a coordinate. An empty kind
// means nothing occupies the position.
type Generator interface {
	KindAt(x, y, z int) blight.Kind
	HeightAt(x, z int) int
}

// World tracks terrain with a generator for the base landscape and
// overrides for simulation modifications. It implements blight.Grid.
type World struct {
	mu        sync.RWMutex
	overrides map[blight.Pos]blight.Kind
	generator Generator
}

// New creates a World with the given generator.
func New(generator Generator) *World {
	return &World{
		overrides: make(map[blight.Pos]blight.Kind),
		generator: generator,
	}
}

// Get returns the terrain kind at p. Overrides take precedence over the
// generated base; an empty override means the block was removed.
func (w *World) Get(p blight.Pos) (blight.Kind, bool) {
	w.mu.RLock()
	k, ok := w.overrides[p]
	w.mu.RUnlock()
	if ok {
		if k == "" {
			return "", false
		}
		return k, true
	}

	base := w.generator.KindAt(p.X, p.Y, p.Z)
	if base == "" {
		return "", false
	}
	return base, true
}

// Set stores a block override. Setting a block back to its generated base
// removes the override instead.
func (w *World) Set(p blight.Pos, k blight.Kind) {
	base := w.generator.KindAt(p.X, p.Y, p.Z)

	w.mu.Lock()
	defer w.mu.Unlock()
	if k == base {
		delete(w.overrides, p)
	} else {
		w.overrides[p] = k
	}
}

// Remove clears the block at p.
func (w *World) Remove(p blight.Pos) {
	base := w.generator.KindAt(p.X, p.Y, p.Z)

	w.mu.Lock()
	defer w.mu.Unlock()
	if base == "" {
		delete(w.overrides, p)
	} else {
		w.overrides[p] = ""
	}
}

// HeightAt returns the generated terrain height at (x, z).
func (w *World) HeightAt(x, z int) int {
	return w.generator.HeightAt(x, z)
}

// OverrideCount returns the number of stored overrides.
func (w *World) OverrideCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.overrides)
}

// ForEachOverride calls fn for every block override under a read lock.
func (w *World) ForEachOverride(fn func(p blight.Pos, k blight.Kind)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for p, k := range w.overrides {
		fn(p, k)
	}
}

// LoadOverrides bulk-installs overrides, replacing any current set.
func (w *World) LoadOverrides(overrides map[blight.Pos]blight.Kind) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.overrides = overrides
}
