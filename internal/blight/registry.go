package blight

import (
	"slices"
)

// Registry owns the live source population. IDs are monotonic and never
// reused while a child still references them through ParentID.
type Registry struct {
	sources map[int64]*Source
	nextID  int64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[int64]*Source), nextID: 1}
}

// NextID allocates the next source identifier.
func (r *Registry) NextID() int64 {
	id := r.nextID
	r.nextID++
	return id
}

// SetNextID restores the identifier counter, used on state reload.
func (r *Registry) SetNextID(id int64) {
	if id > r.nextID {
		r.nextID = id
	}
}

// CurrentNextID returns the identifier counter for persistence.
func (r *Registry) CurrentNextID() int64 { return r.nextID }

// Add inserts a source. A zero ID gets the next identifier assigned.
func (r *Registry) Add(s *Source) {
	if s.ID == 0 {
		s.ID = r.NextID()
	} else if s.ID >= r.nextID {
		r.nextID = s.ID + 1
	}
	r.sources[s.ID] = s
}

// Remove deletes the source with the given id.
func (r *Registry) Remove(id int64) {
	delete(r.sources, id)
}

// Get returns the source with the given id, or nil.
func (r *Registry) Get(id int64) *Source {
	return r.sources[id]
}

// Count returns the number of live sources.
func (r *Registry) Count() int { return len(r.sources) }

// All returns the live sources ordered by id. The stable order keeps tick
// processing and eviction reproducible for a given population.
func (r *Registry) All() []*Source {
	out := make([]*Source, 0, len(r.sources))
	for _, s := range r.sources {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Source) int {
		return int(a.ID - b.ID)
	})
	return out
}

// ForEach calls fn for every live source in id order.
func (r *Registry) ForEach(fn func(*Source)) {
	for _, s := range r.All() {
		fn(s)
	}
}

// EnsureCapacity makes room for n new sources under the max cap, evicting
// the lowest-priority sources first: saturated before unsaturated, then
// deeper generations, then higher lifetime block counts. Young productive
// unsaturated roots are kept the longest. Healing and protected sources
// are never evicted. Returns false if room could not be made.
func (r *Registry) EnsureCapacity(n, max int) bool {
	need := len(r.sources) + n - max
	if need <= 0 {
		return true
	}

	candidates := make([]*Source, 0, len(r.sources))
	for _, s := range r.sources {
		if s.Healing || s.Protected {
			continue
		}
		candidates = append(candidates, s)
	}
	slices.SortFunc(candidates, evictionOrder)

	for _, s := range candidates {
		if need <= 0 {
			break
		}
		delete(r.sources, s.ID)
		need--
	}
	return need <= 0
}

// evictionOrder sorts sources so that the first elements are evicted
// first.
func evictionOrder(a, b *Source) int {
	if a.Saturated != b.Saturated {
		if a.Saturated {
			return -1
		}
		return 1
	}
	if a.Generation != b.Generation {
		return b.Generation - a.Generation
	}
	if a.BlocksTotal != b.BlocksTotal {
		return b.BlocksTotal - a.BlocksTotal
	}
	return int(a.ID - b.ID)
}

// RemoveInvalid drops sources whose anchor position no longer resolves to
// any terrain. A source with no anchor cannot meaningfully spread. Returns
// the number removed.
func (r *Registry) RemoveInvalid(grid Grid) int {
	var removed int
	for id, s := range r.sources {
		if _, ok := grid.Get(s.Pos); !ok {
			delete(r.sources, id)
			removed++
		}
	}
	return removed
}

// CleanupSaturated removes roughly a quarter of the saturated, unprotected,
// non-healing sources to make room for continued metastasis. It only runs
// above half capacity so the world keeps some visible "done" sources.
// Returns the number removed.
func (r *Registry) CleanupSaturated(max int) int {
	if len(r.sources) <= max/2 {
		return 0
	}

	var saturated []*Source
	for _, s := range r.sources {
		if s.Saturated && !s.Protected && !s.Healing {
			saturated = append(saturated, s)
		}
	}
	if len(saturated) == 0 {
		return 0
	}

	// Deepest generations and most productive first.
	slices.SortFunc(saturated, func(a, b *Source) int {
		if a.Generation != b.Generation {
			return b.Generation - a.Generation
		}
		if a.BlocksTotal != b.BlocksTotal {
			return b.BlocksTotal - a.BlocksTotal
		}
		return int(a.ID - b.ID)
	})

	n := (len(saturated) + 3) / 4
	for _, s := range saturated[:n] {
		delete(r.sources, s.ID)
	}
	return n
}
