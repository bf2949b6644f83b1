package daemon

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blightworks/blight/internal/blight"
)

type command struct {
	name    string
	usage   string
	desc    string
	handler func(d *Daemon, args []string)
}

var commands []command

func init() {
	commands = []command{
		{name: "help", usage: "help", desc: "Show available commands", handler: cmdHelp},
		{name: "stats", usage: "stats", desc: "Show simulation statistics", handler: cmdStats},
		{name: "pause", usage: "pause", desc: "Pause the simulation", handler: cmdPause},
		{name: "resume", usage: "resume", desc: "Resume the simulation", handler: cmdResume},
		{name: "sources", usage: "sources", desc: "List sources with local devastation", handler: cmdSources},
		{name: "source", usage: "source <x> <y> <z> [range] [amount]", desc: "Create a protected spreading source", handler: cmdSource},
		{name: "heal", usage: "heal <x> <y> <z> [range]", desc: "Create a healing source", handler: cmdHeal},
		{name: "ward", usage: "ward <x> <y> <z>", desc: "Place a protective ward", handler: cmdWard},
		{name: "mark", usage: "mark <x> <y> <z>", desc: "Corrupt a point and start cell spreading", handler: cmdMark},
		{name: "purge", usage: "purge", desc: "Remove all sources", handler: cmdPurge},
		{name: "set", usage: "set <param> <value>", desc: "Set a config parameter by its JSON name", handler: cmdSet},
		{name: "save", usage: "save", desc: "Save state and world", handler: cmdSave},
		{name: "quit", usage: "quit", desc: "Save and exit", handler: cmdQuit},
	}
}

// handleCommand dispatches one console line. Unknown commands get a hint,
// empty lines are ignored.
func (d *Daemon) handleCommand(line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}

	name := strings.ToLower(parts[0])
	args := parts[1:]

	for _, cmd := range commands {
		if cmd.name == name {
			cmd.handler(d, args)
			return
		}
	}
	d.replyf("Unknown command: %s. Type help for a list of commands.", name)
}

func (d *Daemon) replyf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

// parsePos reads three integer coordinates.
func parsePos(args []string) (blight.Pos, bool) {
	if len(args) < 3 {
		return blight.Pos{}, false
	}
	x, errX := strconv.Atoi(args[0])
	y, errY := strconv.Atoi(args[1])
	z, errZ := strconv.Atoi(args[2])
	if errX != nil || errY != nil || errZ != nil {
		return blight.Pos{}, false
	}
	return blight.Pos{X: x, Y: y, Z: z}, true
}

func cmdHelp(d *Daemon, _ []string) {
	d.replyf("--- Available Commands ---")
	for _, cmd := range commands {
		d.replyf("%s - %s", cmd.usage, cmd.desc)
	}
}

func cmdStats(d *Daemon, _ []string) {
	s := d.sim.Stats()
	d.replyf("tick=%d paused=%v", s.Tick, s.Paused)
	d.replyf("sources=%d (saturated=%d healing=%d)", s.Sources, s.SaturatedSources, s.HealingSources)
	d.replyf("cells=%d (fully_devastated=%d unrepairable=%d) blocks=%d",
		s.Cells, s.FullyDevastated, s.Unrepairable, s.BlocksDevastated)
	d.replyf("wards=%d regrow_pending=%d", s.Wards, s.RegrowPending)
}

func cmdPause(d *Daemon, _ []string) {
	d.sim.State().Paused = true
	d.replyf("Simulation paused.")
}

func cmdResume(d *Daemon, _ []string) {
	d.sim.State().Paused = false
	d.replyf("Simulation resumed.")
}

func cmdSources(d *Daemon, _ []string) {
	reports := d.sim.SourceReports()
	if len(reports) == 0 {
		d.replyf("No sources.")
		return
	}
	for _, r := range reports {
		d.replyf("#%d pos=%d,%d,%d gen=%d radius=%d/%d blocks=%d local=%.0f%% stall=%d healing=%v saturated=%v",
			r.ID, r.Pos.X, r.Pos.Y, r.Pos.Z, r.Generation, r.CurrentRadius, r.Range,
			r.BlocksTotal, r.LocalDevastation*100, r.StallCounter, r.Healing, r.Saturated)
	}
}

func cmdSource(d *Daemon, args []string) {
	p, ok := parsePos(args)
	if !ok {
		d.replyf("Usage: source <x> <y> <z> [range] [amount]")
		return
	}

	rng := d.cfg.SourceRange
	amount := d.cfg.SourceAmount
	if len(args) >= 4 {
		if v, err := strconv.Atoi(args[3]); err == nil && v > 0 {
			rng = v
		}
	}
	if len(args) >= 5 {
		if v, err := strconv.Atoi(args[4]); err == nil && v > 0 {
			amount = v
		}
	}

	src := d.sim.AddSource(p, rng, amount, false, d.cfg)
	if src == nil {
		d.replyf("No capacity for a new source.")
		return
	}
	d.replyf("Source %d created at %d, %d, %d (range %d).", src.ID, p.X, p.Y, p.Z, rng)
}

func cmdHeal(d *Daemon, args []string) {
	p, ok := parsePos(args)
	if !ok {
		d.replyf("Usage: heal <x> <y> <z> [range]")
		return
	}

	rng := d.cfg.SourceRange
	if len(args) >= 4 {
		if v, err := strconv.Atoi(args[3]); err == nil && v > 0 {
			rng = v
		}
	}

	src := d.sim.AddSource(p, rng, d.cfg.SourceAmount, true, d.cfg)
	if src == nil {
		d.replyf("No capacity for a new source.")
		return
	}
	d.replyf("Healing source %d created at %d, %d, %d.", src.ID, p.X, p.Y, p.Z)
}

func cmdWard(d *Daemon, args []string) {
	p, ok := parsePos(args)
	if !ok {
		d.replyf("Usage: ward <x> <y> <z>")
		return
	}
	d.sim.AddWard(p, time.Now(), d.cfg)
	d.replyf("Ward placed at %d, %d, %d (radius %d).", p.X, p.Y, p.Z, d.cfg.WardRadius)
}

func cmdMark(d *Daemon, args []string) {
	p, ok := parsePos(args)
	if !ok {
		d.replyf("Usage: mark <x> <y> <z>")
		return
	}
	c := d.sim.MarkCell(p, d.cfg, time.Now())
	d.replyf("Cell %d, %d marked (blocks devastated: %d).", c.Pos.X, c.Pos.Z, c.BlocksDevastated)
}

func cmdPurge(d *Daemon, _ []string) {
	n := d.sim.RemoveAllSources()
	d.replyf("Removed %d sources.", n)
}

func cmdSet(d *Daemon, args []string) {
	if len(args) != 2 {
		d.replyf("Usage: set <param> <value>")
		return
	}
	if err := d.cfg.Set(args[0], args[1]); err != nil {
		d.replyf("Error: %v", err)
		return
	}
	d.replyf("%s = %s", args[0], args[1])
}

func cmdSave(d *Daemon, _ []string) {
	if err := d.SaveAll(); err != nil {
		d.replyf("Save failed: %v", err)
		return
	}
	d.replyf("Save complete.")
}

func cmdQuit(d *Daemon, _ []string) {
	close(d.quit)
}
