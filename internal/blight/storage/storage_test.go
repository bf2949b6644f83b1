package storage

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blightworks/blight/internal/blight"
	"github.com/blightworks/blight/internal/blight/config"
	"github.com/blightworks/blight/internal/blight/world"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestConfigRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	cfg := config.DefaultConfig()
	cfg.SpeedMultiplier = 3.5
	cfg.WardScanMode = "radial"
	if err := s.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded := config.DefaultConfig()
	if err := s.LoadConfig(loaded); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.SpeedMultiplier != 3.5 || loaded.WardScanMode != "radial" {
		t.Errorf("loaded %v/%q, want 3.5/radial", loaded.SpeedMultiplier, loaded.WardScanMode)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	s := newTestStorage(t)
	cfg := config.DefaultConfig()
	cfg.MaxSources = 7
	if err := s.LoadConfig(cfg); err != nil {
		t.Fatalf("LoadConfig on missing file: %v", err)
	}
	if cfg.MaxSources != 7 {
		t.Error("missing config file must leave cfg unchanged")
	}
}

func TestStateRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	st := blight.NewState()
	st.Paused = true
	st.Tick = 12345
	st.LastHauntTick = 777

	st.Sources.Add(&blight.Source{
		ID:            3,
		Pos:           blight.Pos{X: 1, Y: 2, Z: 3},
		Range:         24,
		CurrentRadius: 9,
		Generation:    2,
		Saturated:     true,
	})
	st.Sources.Add(&blight.Source{ID: 5, Healing: true, Protected: true})

	c := st.EnsureCell(blight.CellPos{X: -2, Z: 4})
	c.BlocksDevastated = 77
	c.FrontierInitialized = true
	c.Frontier = []blight.Pos{{X: -20, Y: 64, Z: 70}}
	c.Bleed = []blight.BleedPoint{{Pos: blight.Pos{X: -17, Y: 64, Z: 70}, Remaining: 2}}
	c.Unrepairable = true

	st.Wards = append(st.Wards, &blight.Ward{
		Pos:          blight.Pos{X: 100, Y: 64, Z: 100},
		DiscoveredAt: time.Now().Round(0),
		CleanRadius:  5,
	})
	st.TrackRegrow(blight.Pos{X: 9, Y: 9, Z: 9}, "minecraft:dirt", time.Now().Round(0))

	if err := s.SaveState(st); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	loaded, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	if !loaded.Paused || loaded.Tick != 12345 {
		t.Errorf("paused=%v tick=%d", loaded.Paused, loaded.Tick)
	}
	if loaded.LastHauntTick != 777 {
		t.Errorf("last haunt tick = %d, want 777", loaded.LastHauntTick)
	}
	if loaded.Sources.Count() != 2 {
		t.Fatalf("sources = %d, want 2", loaded.Sources.Count())
	}
	src := loaded.Sources.Get(3)
	if src == nil || src.CurrentRadius != 9 || !src.Saturated || src.Generation != 2 {
		t.Errorf("source 3 round-trip lost fields: %+v", src)
	}
	if h := loaded.Sources.Get(5); h == nil || !h.Healing || !h.Protected {
		t.Errorf("source 5 round-trip lost flags: %+v", h)
	}
	// The id counter resumes past the highest stored source.
	if id := loaded.Sources.NextID(); id <= 5 {
		t.Errorf("next id = %d, want above 5", id)
	}

	lc, ok := loaded.Cells[blight.CellPos{X: -2, Z: 4}]
	if !ok {
		t.Fatal("cell missing after round-trip")
	}
	if lc.BlocksDevastated != 77 || !lc.Unrepairable || !lc.FrontierInitialized {
		t.Errorf("cell round-trip lost fields: %+v", lc)
	}
	if len(lc.Frontier) != 1 || len(lc.Bleed) != 1 || lc.Bleed[0].Remaining != 2 {
		t.Errorf("cell frontier/bleed round-trip lost entries: %+v", lc)
	}

	if len(loaded.Wards) != 1 || loaded.Wards[0].CleanRadius != 5 {
		t.Errorf("wards round-trip: %+v", loaded.Wards)
	}
	rp, ok := loaded.Regrow[blight.Pos{X: 9, Y: 9, Z: 9}]
	if !ok || rp.Target != "minecraft:dirt" {
		t.Errorf("regrow round-trip: %+v", rp)
	}
}

func TestLoadStateMissingFile(t *testing.T) {
	s := newTestStorage(t)
	st, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if st.Tick != 0 || st.Sources.Count() != 0 || len(st.Cells) != 0 {
		t.Error("missing state file must yield a fresh state")
	}
}

func TestWorldRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	w := world.New(world.NewFlatGenerator(0))
	w.Set(blight.Pos{X: 1, Y: 4, Z: 1}, "blight:withergrass")
	w.Remove(blight.Pos{X: 2, Y: 4, Z: 2})

	if err := s.SaveWorld(w); err != nil {
		t.Fatalf("SaveWorld: %v", err)
	}

	loaded := world.New(world.NewFlatGenerator(0))
	if err := s.LoadWorld(loaded); err != nil {
		t.Fatalf("LoadWorld: %v", err)
	}

	if k, _ := loaded.Get(blight.Pos{X: 1, Y: 4, Z: 1}); k != "blight:withergrass" {
		t.Errorf("override = %q after round-trip", k)
	}
	if _, ok := loaded.Get(blight.Pos{X: 2, Y: 4, Z: 2}); ok {
		t.Error("removal marker lost in round-trip")
	}
	if k, _ := loaded.Get(blight.Pos{X: 0, Y: 4, Z: 0}); k != "minecraft:grass_block" {
		t.Errorf("untouched base terrain = %q", k)
	}
}

func TestAtomicWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.SaveConfig(config.DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Errorf("config.json missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind after atomic write")
	}
}
