// Package daemon drives the simulation: it owns the tick schedulers, the
// admin command console and the save cycle.
package daemon

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/blightworks/blight/internal/blight"
	"github.com/blightworks/blight/internal/blight/config"
	"github.com/blightworks/blight/internal/blight/storage"
	"github.com/blightworks/blight/internal/blight/world"
)

// Daemon ties the world, simulation, storage and console together. All
// mutation happens on the Run goroutine: ticks and admin commands are
// serialized through one select loop, so no partial-tick state is ever
// observable.
type Daemon struct {
	cfg   *config.Config
	log   *slog.Logger
	world *world.World
	sim   *blight.Simulation
	store *storage.Storage

	quit chan struct{}
}

// New creates a daemon.
func New(cfg *config.Config, log *slog.Logger, w *world.World, sim *blight.Simulation, store *storage.Storage) *Daemon {
	return &Daemon{
		cfg:   cfg,
		log:   log,
		world: w,
		sim:   sim,
		store: store,
		quit:  make(chan struct{}),
	}
}

// Run blocks until the context is cancelled or the quit command is
// issued, saving state on the way out.
func (d *Daemon) Run(ctx context.Context) error {
	sourceTick := time.NewTicker(time.Second / time.Duration(d.cfg.TickRateHz))
	defer sourceTick.Stop()
	cellTick := time.NewTicker(time.Second)
	defer cellTick.Stop()
	maintTick := time.NewTicker(5 * time.Second)
	defer maintTick.Stop()

	var autosave <-chan time.Time
	if d.cfg.AutosaveSeconds > 0 {
		t := time.NewTicker(time.Duration(d.cfg.AutosaveSeconds * float64(time.Second)))
		defer t.Stop()
		autosave = t.C
	}

	lines := make(chan string)
	go readLines(ctx, lines)

	d.log.Info("simulation running",
		"tick_rate_hz", d.cfg.TickRateHz,
		"speed", d.cfg.SpeedMultiplier,
		"generator", d.cfg.GeneratorType,
	)

	for {
		select {
		case <-ctx.Done():
			d.log.Info("shutting down")
			return d.SaveAll()
		case <-d.quit:
			d.log.Info("quit requested")
			return d.SaveAll()
		case <-sourceTick.C:
			d.sim.TickSources(d.cfg, time.Now())
		case <-cellTick.C:
			d.sim.TickCells(d.cfg, time.Now())
		case <-maintTick.C:
			d.sim.TickMaintenance(d.cfg, time.Now())
		case <-autosave:
			if err := d.SaveAll(); err != nil {
				d.log.Error("autosave failed", "error", err)
			}
		case line := <-lines:
			d.handleCommand(line)
		}
	}
}

// SaveAll persists config, simulation state and world overrides.
func (d *Daemon) SaveAll() error {
	if err := d.store.SaveConfig(d.cfg); err != nil {
		return err
	}
	if err := d.store.SaveState(d.sim.State()); err != nil {
		return err
	}
	if err := d.store.SaveWorld(d.world); err != nil {
		return err
	}
	d.log.Info("saved",
		"sources", d.sim.State().Sources.Count(),
		"cells", len(d.sim.State().Cells),
		"overrides", d.world.OverrideCount(),
	)
	return nil
}

// readLines feeds stdin lines into the run loop until the context ends.
func readLines(ctx context.Context, out chan<- string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}
