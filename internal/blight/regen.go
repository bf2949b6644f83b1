package blight

import (
	"time"

	"github.com/blightworks/blight/internal/blight/config"
)

// clockRegressionLimit is how far the clock may move backwards before a
// regrowing point's timestamp is considered bogus and reset.
const clockRegressionLimit = -24 * time.Hour

// RegenEngine reverses individually tracked corrupted points after the
// configured delay.
type RegenEngine struct {
	grid Grid
	cat  *Catalog
}

// NewRegenEngine creates a regeneration engine.
func NewRegenEngine(grid Grid, cat *Catalog) *RegenEngine {
	return &RegenEngine{grid: grid, cat: cat}
}

// Tick processes a bounded batch of regrowing points. Expired points are
// converted to their recorded target (or removed when the target is
// empty) and untracked. Points whose timestamp is more than a day in the
// future are reset rather than regenerated instantly or deadlocked.
func (e *RegenEngine) Tick(st *State, now time.Time, cfg *config.Config) int {
	delay := time.Duration(cfg.RegenDelaySeconds * float64(time.Second))

	var done int
	for p, rp := range st.Regrow {
		if done >= cfg.MaxRegenPerTick {
			break
		}

		elapsed := now.Sub(rp.ChangedAt)
		if elapsed < clockRegressionLimit {
			rp.ChangedAt = now
			continue
		}
		if elapsed < delay {
			continue
		}

		// Only regenerate if the point is still corrupted; anything else
		// means another system already changed it.
		if k, ok := e.grid.Get(p); ok && e.cat.IsCorrupted(k) {
			if rp.Target == "" {
				e.grid.Remove(p)
			} else {
				e.grid.Set(p, rp.Target)
			}
		}
		delete(st.Regrow, p)
		done++
	}
	return done
}
