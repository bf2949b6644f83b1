package blight

import (
	"testing"
	"time"
)

func newRegenFixture() (*fakeGrid, *RegenEngine, *State) {
	g := newFakeGrid()
	return g, NewRegenEngine(g, NewCatalog()), NewState()
}

func TestRegenRestoresExpiredPoints(t *testing.T) {
	g, e, st := newRegenFixture()
	cfg := testConfig()

	now := time.Now()
	expired := now.Add(-time.Duration(cfg.RegenDelaySeconds+1) * time.Second)

	g.Set(Pos{0, 10, 0}, "blight:rot")
	st.Regrow[Pos{0, 10, 0}] = &RegrowingPoint{Pos: Pos{0, 10, 0}, Target: "minecraft:dirt", ChangedAt: expired}

	g.Set(Pos{1, 10, 0}, "blight:creep")
	st.Regrow[Pos{1, 10, 0}] = &RegrowingPoint{Pos: Pos{1, 10, 0}, Target: "", ChangedAt: expired}

	g.Set(Pos{2, 10, 0}, "blight:rot")
	st.Regrow[Pos{2, 10, 0}] = &RegrowingPoint{Pos: Pos{2, 10, 0}, Target: "minecraft:dirt", ChangedAt: now}

	done := e.Tick(st, now, cfg)
	if done != 2 {
		t.Fatalf("regenerated %d points, want 2", done)
	}
	if k, _ := g.Get(Pos{0, 10, 0}); k != "minecraft:dirt" {
		t.Errorf("point 0 = %q, want minecraft:dirt", k)
	}
	if _, ok := g.Get(Pos{1, 10, 0}); ok {
		t.Error("empty-target point not removed")
	}
	if k, _ := g.Get(Pos{2, 10, 0}); k != "blight:rot" {
		t.Errorf("unexpired point = %q, should be untouched", k)
	}
	if len(st.Regrow) != 1 {
		t.Errorf("pending entries = %d, want 1", len(st.Regrow))
	}
}

func TestRegenSkipsAlreadyChangedPoints(t *testing.T) {
	g, e, st := newRegenFixture()
	cfg := testConfig()

	now := time.Now()
	expired := now.Add(-time.Duration(cfg.RegenDelaySeconds+1) * time.Second)

	// Something else healed this point already: the stale entry must be
	// dropped without overwriting the current terrain.
	g.Set(Pos{0, 10, 0}, "minecraft:stone")
	st.Regrow[Pos{0, 10, 0}] = &RegrowingPoint{Pos: Pos{0, 10, 0}, Target: "minecraft:dirt", ChangedAt: expired}

	e.Tick(st, now, cfg)
	if k, _ := g.Get(Pos{0, 10, 0}); k != "minecraft:stone" {
		t.Errorf("point = %q, regen must not overwrite uncorrupted terrain", k)
	}
	if len(st.Regrow) != 0 {
		t.Error("stale entry not dropped")
	}
}

func TestRegenClockRegression(t *testing.T) {
	g, e, st := newRegenFixture()
	cfg := testConfig()

	now := time.Now()
	bogus := now.Add(25 * time.Hour) // timestamp from a future clock

	g.Set(Pos{0, 10, 0}, "blight:rot")
	rp := &RegrowingPoint{Pos: Pos{0, 10, 0}, Target: "minecraft:dirt", ChangedAt: bogus}
	st.Regrow[Pos{0, 10, 0}] = rp

	e.Tick(st, now, cfg)
	if k, _ := g.Get(Pos{0, 10, 0}); k != "blight:rot" {
		t.Error("point with a bogus timestamp regenerated immediately")
	}
	if !rp.ChangedAt.Equal(now) {
		t.Error("bogus timestamp not reset to the current time")
	}
	if len(st.Regrow) != 1 {
		t.Error("entry with reset timestamp dropped")
	}
}

func TestRegenBatchCap(t *testing.T) {
	g, e, st := newRegenFixture()
	cfg := testConfig()
	cfg.MaxRegenPerTick = 3
	cfg.Clamp()

	now := time.Now()
	expired := now.Add(-time.Duration(cfg.RegenDelaySeconds+1) * time.Second)
	for i := 0; i < 10; i++ {
		p := Pos{i, 10, 0}
		g.Set(p, "blight:rot")
		st.Regrow[p] = &RegrowingPoint{Pos: p, Target: "minecraft:dirt", ChangedAt: expired}
	}

	if done := e.Tick(st, now, cfg); done != 3 {
		t.Errorf("regenerated %d, want the cap of 3", done)
	}
	if len(st.Regrow) != 7 {
		t.Errorf("pending entries = %d, want 7", len(st.Regrow))
	}
}
