package blight

import "testing"

func TestRecordDevastated(t *testing.T) {
	c := &Cell{Pos: CellPos{0, 0}}

	c.recordDevastated(1024)
	if c.BlocksDevastated != 1024 {
		t.Errorf("blocks = %d, want 1024", c.BlocksDevastated)
	}
	if c.DevastationLevel != 0.25 {
		t.Errorf("level = %v, want 0.25", c.DevastationLevel)
	}

	// The advisory level saturates at 1 even for tall cells.
	c.recordDevastated(10000)
	if c.DevastationLevel != 1 {
		t.Errorf("level = %v, want capped at 1", c.DevastationLevel)
	}
}

func TestShouldSpawnMob(t *testing.T) {
	c := &Cell{Pos: CellPos{0, 0}}

	if c.ShouldSpawnMob(100, 50) {
		t.Error("pristine cell offered a mob spawn")
	}

	c.BlocksDevastated = 5
	if !c.ShouldSpawnMob(100, 50) {
		t.Fatal("corrupted cell past its cooldown refused a spawn")
	}
	// The query arms the cooldown.
	if c.ShouldSpawnMob(120, 50) {
		t.Error("spawn offered inside the cooldown")
	}
	if !c.ShouldSpawnMob(150, 50) {
		t.Error("spawn refused after the cooldown elapsed")
	}
}

func TestMobSpawnCandidates(t *testing.T) {
	_, sim := newSimFixture(1)
	cfg := testConfig()
	cooldown := cfg.TicksFor(cfg.MobSpawnCooldownSeconds)

	ready := sim.State().EnsureCell(CellPos{0, 0})
	ready.BlocksDevastated = 3
	sim.State().EnsureCell(CellPos{1, 0}) // pristine, never a candidate
	sim.State().Tick = cooldown + 1

	got := sim.MobSpawnCandidates(cfg)
	if len(got) != 1 || got[0] != (CellPos{0, 0}) {
		t.Fatalf("candidates = %v, want the corrupted cell only", got)
	}

	// Immediately after, the cooldown suppresses the same cell.
	if got := sim.MobSpawnCandidates(cfg); len(got) != 0 {
		t.Errorf("candidates = %v inside the cooldown, want none", got)
	}
}
