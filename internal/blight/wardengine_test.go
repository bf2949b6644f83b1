package blight

import "testing"

func newWardFixture(seed uint64) (*fakeGrid, *WardEngine, *State) {
	g := newFakeGrid()
	return g, NewWardEngine(g, NewCatalog(), testRand(seed)), NewState()
}

func TestEnforceProtectionSources(t *testing.T) {
	_, e, st := newWardFixture(1)
	cfg := testConfig() // ward radius 16

	st.Wards = append(st.Wards, &Ward{Pos: Pos{0, 64, 0}})
	inside := &Source{ID: 1, Pos: Pos{10, 64, 0}}   // distance 10
	outside := &Source{ID: 2, Pos: Pos{20, 64, 0}}  // distance 20
	vertical := &Source{ID: 3, Pos: Pos{0, 100, 0}} // distance 36, above
	st.Sources.Add(inside)
	st.Sources.Add(outside)
	st.Sources.Add(vertical)

	_, removedSources, _ := e.Tick(st, cfg)
	if removedSources != 1 {
		t.Fatalf("removed %d sources, want 1", removedSources)
	}
	if st.Sources.Get(inside.ID) != nil {
		t.Error("source inside ward sphere survived")
	}
	if st.Sources.Get(outside.ID) == nil || st.Sources.Get(vertical.ID) == nil {
		t.Error("source outside ward sphere removed")
	}
}

func TestEnforceProtectionCells(t *testing.T) {
	_, e, st := newWardFixture(1)
	cfg := testConfig()

	st.Wards = append(st.Wards, &Ward{Pos: Pos{8, 200, 8}})
	st.EnsureCell(CellPos{0, 0}) // centre (8, 8): horizontal distance 0
	st.EnsureCell(CellPos{4, 4}) // centre (72, 72): well outside

	_, _, removedCells := e.Tick(st, cfg)
	if removedCells != 1 {
		t.Fatalf("removed %d cells, want 1", removedCells)
	}
	if _, ok := st.Cells[CellPos{0, 0}]; ok {
		t.Error("cell under the ward survived; the vertical distance must not matter")
	}
	if _, ok := st.Cells[CellPos{4, 4}]; !ok {
		t.Error("distant cell removed")
	}
}

func TestHealRasterCoversCube(t *testing.T) {
	g, e, st := newWardFixture(1)
	cfg := testConfig()
	cfg.WardRadius = 2
	cfg.Clamp()

	w := &Ward{Pos: Pos{0, 64, 0}, ScanX: -2, ScanY: -2, ScanZ: -2}
	st.Wards = append(st.Wards, w)

	corrupted := []Pos{{-2, 62, -2}, {0, 64, 0}, {2, 66, 1}}
	for _, p := range corrupted {
		g.Set(p, "blight:rot")
		st.TrackRegrow(p, "minecraft:dirt", w.DiscoveredAt)
	}

	// Budget 5 advances 40 cursor steps per pass; four passes exhaust the
	// 125-point cube.
	for i := 0; i < 4; i++ {
		e.Tick(st, cfg)
	}

	for _, p := range corrupted {
		if k, _ := g.Get(p); k != "minecraft:dirt" {
			t.Errorf("point %v = %q, want healed to minecraft:dirt", p, k)
		}
	}
	if !w.RasterComplete {
		t.Error("raster pass not marked complete")
	}
	if len(st.Regrow) != 0 {
		t.Errorf("healed points left %d pending regrow entries", len(st.Regrow))
	}
	if w.BlocksHealed != len(corrupted) {
		t.Errorf("blocks healed = %d, want %d", w.BlocksHealed, len(corrupted))
	}
}

func TestHealRadialAdvancesOnFailure(t *testing.T) {
	_, e, st := newWardFixture(1)
	cfg := testConfig()
	cfg.WardScanMode = "radial"
	cfg.Clamp()

	w := &Ward{Pos: Pos{0, 64, 0}}
	st.Wards = append(st.Wards, w)

	// Empty grid: every attempt fails, the clean radius marches outward.
	e.Tick(st, cfg) // budget 5, 20 attempts, failure limit 10
	if w.CleanRadius != 2 {
		t.Errorf("clean radius = %d after 20 failures, want 2", w.CleanRadius)
	}
	if w.MaxCleanRadius != 2 {
		t.Errorf("max clean radius = %d, want 2", w.MaxCleanRadius)
	}

	// The radius wraps past the ward radius but the max never regresses.
	w.CleanRadius = cfg.WardRadius
	w.MaxCleanRadius = cfg.WardRadius
	e.Tick(st, cfg)
	if w.CleanRadius > cfg.WardRadius {
		t.Errorf("clean radius = %d exceeds ward radius", w.CleanRadius)
	}
	if w.MaxCleanRadius != cfg.WardRadius {
		t.Errorf("max clean radius = %d regressed", w.MaxCleanRadius)
	}
}

func TestHealRandom(t *testing.T) {
	g, e, st := newWardFixture(2)
	cfg := testConfig()
	cfg.WardRadius = 2
	cfg.WardScanMode = "random"
	cfg.Clamp()

	w := &Ward{Pos: Pos{0, 64, 0}}
	st.Wards = append(st.Wards, w)
	g.fillSlab(-2, 2, 62, 66, -2, 2, "blight:rot")

	var healed int
	for i := 0; i < 50; i++ {
		h, _, _ := e.Tick(st, cfg)
		healed += h
	}
	if healed == 0 {
		t.Fatal("random scan healed nothing in a fully corrupted cube")
	}
	if g.count("minecraft:dirt") != healed {
		t.Errorf("grid shows %d healed, ward reported %d", g.count("minecraft:dirt"), healed)
	}
}

func TestHealPassBudget(t *testing.T) {
	g, e, st := newWardFixture(1)
	cfg := testConfig()
	cfg.WardRadius = 2
	cfg.WardHealRate = 3
	cfg.Clamp()

	w := &Ward{Pos: Pos{0, 64, 0}, ScanX: -2, ScanY: -2, ScanZ: -2}
	st.Wards = append(st.Wards, w)
	g.fillSlab(-2, 2, 62, 66, -2, 2, "blight:rot")

	healed, _, _ := e.Tick(st, cfg)
	if healed != 3 {
		t.Errorf("healed %d in one pass, want exactly the budget of 3", healed)
	}
}

func TestWardHealMultiplierOverride(t *testing.T) {
	g, e, st := newWardFixture(1)
	cfg := testConfig()
	cfg.WardRadius = 2
	cfg.WardHealRate = 2
	cfg.SpeedMultiplier = 1
	cfg.Clamp()

	w := &Ward{Pos: Pos{0, 64, 0}, ScanX: -2, ScanY: -2, ScanZ: -2, HealMultiplier: 3}
	st.Wards = append(st.Wards, w)
	g.fillSlab(-2, 2, 62, 66, -2, 2, "blight:rot")

	healed, _, _ := e.Tick(st, cfg)
	if healed != 6 {
		t.Errorf("healed %d, want 6 with the per-ward multiplier", healed)
	}
}
