// Package storage handles file-based persistence for the simulation:
// config, the full simulation state and the world overrides, all as JSON
// written atomically.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blightworks/blight/internal/blight"
	"github.com/blightworks/blight/internal/blight/config"
	"github.com/blightworks/blight/internal/blight/world"
)

// Storage persists everything under a single data directory.
type Storage struct {
	dir string
	log *slog.Logger
}

// New creates a Storage rooted at dir, creating it as needed.
func New(dir string, log *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	return &Storage{dir: dir, log: log}, nil
}

// LoadConfig reads config.json into cfg. If the file does not exist, cfg
// is unchanged.
func (s *Storage) LoadConfig(cfg *config.Config) error {
	path := filepath.Join(s.dir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	s.log.Info("loaded config from file", "path", path)
	return nil
}

// SaveConfig writes cfg to config.json atomically.
func (s *Storage) SaveConfig(cfg *config.Config) error {
	return s.atomicWriteJSON(filepath.Join(s.dir, "config.json"), cfg)
}

// stateFile is the serializable form of the simulation state. Everything
// here is load-bearing after a reload; derived fields (ward raster cursor
// bounds, devastation levels) are re-derived or carried as-is.
type stateFile struct {
	Paused        bool                     `json:"paused"`
	Tick          int64                    `json:"tick"`
	LastHauntTick int64                    `json:"last_haunt_tick"`
	NextSourceID  int64                    `json:"next_source_id"`
	Sources       []*blight.Source         `json:"sources"`
	Cells         []*blight.Cell           `json:"cells"`
	Wards         []*blight.Ward           `json:"wards"`
	Regrow        []*blight.RegrowingPoint `json:"regrow"`
}

// LoadState reads state.json and rebuilds the simulation state. A missing
// file yields a fresh empty state.
func (s *Storage) LoadState() (*blight.State, error) {
	st := blight.NewState()

	path := filepath.Join(s.dir, "state.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}

	var sf stateFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}

	st.Paused = sf.Paused
	st.Tick = sf.Tick
	st.LastHauntTick = sf.LastHauntTick
	for _, src := range sf.Sources {
		st.Sources.Add(src)
	}
	st.Sources.SetNextID(sf.NextSourceID)
	for _, c := range sf.Cells {
		st.Cells[c.Pos] = c
	}
	st.Wards = sf.Wards
	for _, rp := range sf.Regrow {
		st.Regrow[rp.Pos] = rp
	}

	s.log.Info("loaded simulation state",
		"sources", st.Sources.Count(),
		"cells", len(st.Cells),
		"wards", len(st.Wards),
		"regrow", len(st.Regrow),
	)
	return st, nil
}

// SaveState writes the full simulation state to state.json atomically.
func (s *Storage) SaveState(st *blight.State) error {
	sf := stateFile{
		Paused:        st.Paused,
		Tick:          st.Tick,
		LastHauntTick: st.LastHauntTick,
		NextSourceID:  st.Sources.CurrentNextID(),
		Sources:       st.Sources.All(),
		Wards:         st.Wards,
	}
	for _, c := range st.CellsInOrder() {
		sf.Cells = append(sf.Cells, c)
	}
	for _, rp := range st.Regrow {
		sf.Regrow = append(sf.Regrow, rp)
	}

	return s.atomicWriteJSON(filepath.Join(s.dir, "state.json"), &sf)
}

// overrideEntry is a single block override for JSON serialization.
type overrideEntry struct {
	X    int         `json:"x"`
	Y    int         `json:"y"`
	Z    int         `json:"z"`
	Kind blight.Kind `json:"kind"`
}

type worldFile struct {
	Overrides []overrideEntry `json:"overrides"`
}

// LoadWorld reads world.json and bulk-loads block overrides.
func (s *Storage) LoadWorld(w *world.World) error {
	path := filepath.Join(s.dir, "world.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read world overrides: %w", err)
	}

	var wf worldFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return fmt.Errorf("parse world overrides: %w", err)
	}

	overrides := make(map[blight.Pos]blight.Kind, len(wf.Overrides))
	for _, o := range wf.Overrides {
		overrides[blight.Pos{X: o.X, Y: o.Y, Z: o.Z}] = o.Kind
	}
	w.LoadOverrides(overrides)

	s.log.Info("loaded world overrides", "count", len(overrides))
	return nil
}

// SaveWorld writes all block overrides to world.json atomically.
func (s *Storage) SaveWorld(w *world.World) error {
	var wf worldFile
	w.ForEachOverride(func(p blight.Pos, k blight.Kind) {
		wf.Overrides = append(wf.Overrides, overrideEntry{X: p.X, Y: p.Y, Z: p.Z, Kind: k})
	})
	return s.atomicWriteJSON(filepath.Join(s.dir, "world.json"), &wf)
}

// atomicWriteJSON marshals v to JSON and writes it atomically using a temp
// file + rename.
func (s *Storage) atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
