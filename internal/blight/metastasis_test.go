package blight

import "testing"

func newMetastasisFixture(seed uint64) (*fakeGrid, *MetastasisEngine, *State) {
	g := newFakeGrid()
	cat := NewCatalog()
	rng := testRand(seed)
	e := NewMetastasisEngine(g, cat, NewSampler(g, cat, rng), rng)
	return g, e, NewState()
}

func TestShouldSpawn(t *testing.T) {
	_, e, _ := newMetastasisFixture(1)

	src := &Source{Range: 8, CurrentRadius: 8, BlocksSinceMetastasis: 500, MetastasisThreshold: 100}
	if !e.ShouldSpawn(src) {
		t.Error("earned source at max radius should spawn")
	}

	below := *src
	below.CurrentRadius = 4
	if e.ShouldSpawn(&below) {
		t.Error("source below max radius must not spawn")
	}

	unearned := *src
	unearned.BlocksSinceMetastasis = 50
	if e.ShouldSpawn(&unearned) {
		t.Error("source below the block threshold must not spawn")
	}

	healer := *src
	healer.Healing = true
	if e.ShouldSpawn(&healer) {
		t.Error("healing sources never metastasize")
	}

	done := *src
	done.Saturated = true
	if e.ShouldSpawn(&done) {
		t.Error("saturated sources never metastasize")
	}
}

func TestShouldSpawnWhileStalled(t *testing.T) {
	_, e, _ := newMetastasisFixture(1)
	cfg := testConfig()

	src := &Source{StallCounter: cfg.StallLimit}
	if !e.ShouldSpawnWhileStalled(src, cfg) {
		t.Error("stalled source should trigger emergency metastasis")
	}
	src.StallCounter = cfg.StallLimit - 1
	if e.ShouldSpawnWhileStalled(src, cfg) {
		t.Error("source below the stall limit must not trigger")
	}

	src.StallCounter = cfg.StallLimit
	src.Saturated = true
	if e.ShouldSpawnWhileStalled(src, cfg) {
		t.Error("saturated source passed the stalled spawn gate")
	}

	src.Saturated = false
	src.Healing = true
	if e.ShouldSpawnWhileStalled(src, cfg) {
		t.Error("healing source passed the stalled spawn gate")
	}
}

func TestSaturatedSourceNeverSpawns(t *testing.T) {
	g, e, st := newMetastasisFixture(17)
	g.fillSlab(-60, 60, 9, 11, -60, 60, "minecraft:grass_block")

	cfg := testConfig()
	// Saturated, yet otherwise primed on every trigger: over the block
	// threshold, at max radius, stalled past the limit, rich terrain.
	parent := &Source{
		ID:                    1,
		Pos:                   Pos{0, 10, 0},
		Range:                 8,
		CurrentRadius:         8,
		BlocksSinceMetastasis: 500,
		MetastasisThreshold:   100,
		StallCounter:          cfg.StallLimit + 5,
		Saturated:             true,
	}
	st.Sources.Add(parent)
	st.Tick = 1

	if e.ShouldSpawn(parent) {
		t.Error("saturated source passed the regular spawn gate")
	}
	if e.ShouldSpawnWhileStalled(parent, cfg) {
		t.Error("saturated source passed the stalled spawn gate")
	}
	if e.TrySpawnChild(st, parent, cfg) {
		t.Error("saturated source spawned a child")
	}
	if st.Sources.Count() != 1 {
		t.Fatalf("source count = %d, want 1", st.Sources.Count())
	}
	if parent.ChildrenSpawned != 0 || parent.FailedSpawns != 0 {
		t.Errorf("saturated source bookkeeping moved: children=%d failed=%d",
			parent.ChildrenSpawned, parent.FailedSpawns)
	}
}

func TestTrySpawnChild(t *testing.T) {
	g, e, st := newMetastasisFixture(9)
	g.fillSlab(-60, 60, 9, 11, -60, 60, "minecraft:grass_block")

	cfg := testConfig()
	parent := &Source{
		ID:                    1,
		Pos:                   Pos{0, 10, 0},
		Range:                 8,
		CurrentRadius:         8,
		Amount:                2,
		BlocksSinceMetastasis: 500,
		MetastasisThreshold:   100,
	}
	st.Sources.Add(parent)
	st.Tick = 1

	if !e.TrySpawnChild(st, parent, cfg) {
		t.Fatal("spawn failed over rich terrain")
	}
	if st.Sources.Count() != 2 {
		t.Fatalf("source count = %d, want 2", st.Sources.Count())
	}

	var child *Source
	for _, s := range st.Sources.All() {
		if s.ID != parent.ID {
			child = s
		}
	}
	if child.ParentID != parent.ID {
		t.Errorf("child parent = %d, want %d", child.ParentID, parent.ID)
	}
	if child.Generation != parent.Generation+1 {
		t.Errorf("child generation = %d, want %d", child.Generation, parent.Generation+1)
	}
	if child.Amount != parent.Amount {
		t.Errorf("child amount = %d, want inherited %d", child.Amount, parent.Amount)
	}
	if child.CurrentRadius != cfg.InitialRadius {
		t.Errorf("child radius = %d, want %d", child.CurrentRadius, cfg.InitialRadius)
	}
	lo := int(float64(parent.Range) * (1 - cfg.RangeVariance))
	hi := int(float64(parent.Range)*(1+cfg.RangeVariance)) + 1
	if child.Range < lo || child.Range > hi {
		t.Errorf("child range = %d, want within [%d, %d]", child.Range, lo, hi)
	}
	if child.Pos.Y < cfg.MinSourceY {
		t.Errorf("child spawned at y=%d, below the minimum", child.Pos.Y)
	}
	if parent.BlocksSinceMetastasis != 0 {
		t.Error("parent block counter not reset after spawning")
	}

	// The cooldown blocks an immediate second spawn.
	parent.BlocksSinceMetastasis = 500
	if e.TrySpawnChild(st, parent, cfg) {
		t.Error("spawn succeeded inside the cooldown window")
	}
}

func TestParentSaturatesAfterThreeChildren(t *testing.T) {
	g, e, st := newMetastasisFixture(11)
	g.fillSlab(-60, 60, 9, 11, -60, 60, "minecraft:grass_block")

	cfg := testConfig()
	cooldown := cfg.TicksFor(cfg.ChildSpawnDelaySeconds / cfg.SpeedMultiplier)

	parent := &Source{ID: 1, Pos: Pos{0, 10, 0}, Range: 8, CurrentRadius: 8, MetastasisThreshold: 100}
	st.Sources.Add(parent)

	for i := 0; i < 3; i++ {
		st.Tick += cooldown + 1
		if !e.TrySpawnChild(st, parent, cfg) {
			t.Fatalf("spawn %d failed", i+1)
		}
	}

	if parent.ChildrenSpawned != 3 {
		t.Errorf("children = %d, want 3", parent.ChildrenSpawned)
	}
	if !parent.Saturated {
		t.Error("parent not saturated after the third child")
	}
}

func TestFailedSpawnsSaturate(t *testing.T) {
	_, e, st := newMetastasisFixture(1)
	cfg := testConfig()
	cooldown := cfg.TicksFor(cfg.ChildSpawnDelaySeconds / cfg.SpeedMultiplier)

	// Empty grid: no viable site anywhere.
	parent := &Source{ID: 1, Pos: Pos{0, 10, 0}, Range: 8, CurrentRadius: 8, MetastasisThreshold: 100}
	st.Sources.Add(parent)

	for i := 0; i < cfg.FailedSpawnLimit; i++ {
		st.Tick += cooldown + 1
		if e.TrySpawnChild(st, parent, cfg) {
			t.Fatal("spawn succeeded on an empty grid")
		}
	}

	if parent.FailedSpawns != cfg.FailedSpawnLimit {
		t.Errorf("failed spawns = %d, want %d", parent.FailedSpawns, cfg.FailedSpawnLimit)
	}
	if !parent.Saturated {
		t.Error("parent not saturated after exhausting spawn attempts")
	}
}

func TestProbeColumnRejectsWardedSites(t *testing.T) {
	g, e, st := newMetastasisFixture(5)
	g.fillSlab(-60, 60, 9, 11, -60, 60, "minecraft:grass_block")

	cfg := testConfig()
	parent := &Source{ID: 1, Pos: Pos{0, 10, 0}, Range: 8, CurrentRadius: 8, MetastasisThreshold: 100}
	st.Sources.Add(parent)

	// Blanket the whole search area with overlapping wards.
	for x := -160; x <= 160; x += cfg.WardRadius {
		for z := -160; z <= 160; z += cfg.WardRadius {
			st.Wards = append(st.Wards, &Ward{Pos: Pos{x, 10, z}})
		}
	}

	if _, ok := e.findSpawnSite(st, parent, cfg); ok {
		t.Error("found a spawn site under blanket ward cover")
	}
}

func TestChildRangeFloor(t *testing.T) {
	_, e, _ := newMetastasisFixture(1)
	cfg := testConfig()
	cfg.RangeVariance = 1
	cfg.Clamp()

	parent := &Source{Range: 1}
	for i := 0; i < 100; i++ {
		if r := e.childRange(parent, cfg); r < 1 {
			t.Fatalf("child range = %d, want at least 1", r)
		}
	}
}
