package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/blightworks/blight/internal/blight"
	"github.com/blightworks/blight/internal/blight/config"
	"github.com/blightworks/blight/internal/blight/daemon"
	"github.com/blightworks/blight/internal/blight/storage"
	"github.com/blightworks/blight/internal/blight/world"
)

func main() {
	cfg := config.DefaultConfig()

	dir := flag.String("dir", "./data", "data directory")
	flag.Float64Var(&cfg.SpeedMultiplier, "speed", cfg.SpeedMultiplier, "global speed multiplier")
	flag.IntVar(&cfg.MaxSources, "max-sources", cfg.MaxSources, "source population cap")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.StringVar(&cfg.GeneratorType, "generator", cfg.GeneratorType, "terrain generator (default or flat)")
	flag.StringVar(&cfg.WardScanMode, "ward-scan", cfg.WardScanMode, "ward healing scan mode (raster, radial or random)")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	store, err := storage.New(*dir, log)
	if err != nil {
		log.Error("open storage", "error", err)
		os.Exit(1)
	}

	fromFile := config.DefaultConfig()
	if err := store.LoadConfig(fromFile); err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	config.Merge(cfg, fromFile, explicit)
	if err := config.ApplyEnv(cfg); err != nil {
		log.Error("apply env config", "error", err)
		os.Exit(1)
	}
	cfg.Clamp()

	var generator world.Generator
	switch cfg.GeneratorType {
	case "flat":
		generator = world.NewFlatGenerator(cfg.Seed)
	default:
		generator = world.NewDefaultGenerator(cfg.Seed)
	}

	w := world.New(generator)
	if err := store.LoadWorld(w); err != nil {
		log.Error("load world", "error", err)
		os.Exit(1)
	}

	sim := blight.New(w, nil, blight.NewRand(), log)
	st, err := store.LoadState()
	if err != nil {
		log.Error("load state", "error", err)
		os.Exit(1)
	}
	sim.ReplaceState(st)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d := daemon.New(cfg, log, w, sim, store)
	if err := d.Run(ctx); err != nil {
		log.Error("daemon error", "error", err)
		os.Exit(1)
	}
}
