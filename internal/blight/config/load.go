package config

import (
	"encoding/json"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ApplyEnv overlays environment-variable values onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["speed"] {
		cfg.SpeedMultiplier = fromFile.SpeedMultiplier
	}
	if !explicitFlags["max-sources"] {
		cfg.MaxSources = fromFile.MaxSources
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["generator"] {
		cfg.GeneratorType = fromFile.GeneratorType
	}
	if !explicitFlags["ward-scan"] {
		cfg.WardScanMode = fromFile.WardScanMode
	}

	// Everything without a dedicated flag comes from the file wholesale.
	cfg.TickRateHz = fromFile.TickRateHz
	cfg.SourceRange = fromFile.SourceRange
	cfg.SourceAmount = fromFile.SourceAmount
	cfg.InitialRadius = fromFile.InitialRadius
	cfg.RadiusGrowthStep = fromFile.RadiusGrowthStep
	cfg.LowSuccessRate = fromFile.LowSuccessRate
	cfg.VeryLowSuccessRate = fromFile.VeryLowSuccessRate
	cfg.StallLimit = fromFile.StallLimit
	cfg.RelocationGraceSeconds = fromFile.RelocationGraceSeconds
	cfg.MetastasisThreshold = fromFile.MetastasisThreshold
	cfg.ChildSpawnDelaySeconds = fromFile.ChildSpawnDelaySeconds
	cfg.RangeVariance = fromFile.RangeVariance
	cfg.MinSourceY = fromFile.MinSourceY
	cfg.FailedSpawnLimit = fromFile.FailedSpawnLimit
	cfg.VerticalSpread = fromFile.VerticalSpread
	cfg.BleedBudget = fromFile.BleedBudget
	cfg.CellSpreadChance = fromFile.CellSpreadChance
	cfg.CellSpreadIntervalSeconds = fromFile.CellSpreadIntervalSeconds
	cfg.EmptyFrontierLimit = fromFile.EmptyFrontierLimit
	cfg.RepairAttemptLimit = fromFile.RepairAttemptLimit
	cfg.RepairCooldownSeconds = fromFile.RepairCooldownSeconds
	cfg.MobSpawnCooldownSeconds = fromFile.MobSpawnCooldownSeconds
	cfg.WardRadius = fromFile.WardRadius
	cfg.WardHealRate = fromFile.WardHealRate
	cfg.RadialFailureLimit = fromFile.RadialFailureLimit
	cfg.WardHealMultiplier = fromFile.WardHealMultiplier
	cfg.RegenDelaySeconds = fromFile.RegenDelaySeconds
	cfg.MaxRegenPerTick = fromFile.MaxRegenPerTick
	cfg.HauntIntervalSeconds = fromFile.HauntIntervalSeconds
	cfg.HauntMinDistance = fromFile.HauntMinDistance
	cfg.HauntMaxDistance = fromFile.HauntMaxDistance
	cfg.AutosaveSeconds = fromFile.AutosaveSeconds
}

// Set assigns a single parameter by its JSON name from a string value.
// Values are interpreted as JSON; bare words fall back to string values,
// so both `set ward_scan_mode radial` and `set speed_multiplier 2.5` work.
func (c *Config) Set(name, value string) error {
	doc := fmt.Sprintf("{%q:%s}", name, value)
	if !json.Valid([]byte(doc)) {
		doc = fmt.Sprintf("{%q:%q}", name, value)
	}

	before, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("snapshot config: %w", err)
	}
	if err := json.Unmarshal([]byte(doc), c); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}

	after, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("snapshot config: %w", err)
	}
	if string(before) == string(after) {
		return fmt.Errorf("unknown parameter or unchanged value: %s", name)
	}

	c.Clamp()
	return nil
}
