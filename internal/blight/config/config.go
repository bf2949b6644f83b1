package config

// Config holds the flat simulation parameter set. It is read at tick start
// and treated as immutable for the duration of a tick; the daemon may swap
// values between ticks (hot reload, /set command).
type Config struct {
	// Pacing.
	SpeedMultiplier float64 `json:"speed_multiplier" env:"BLIGHT_SPEED_MULTIPLIER"`
	TickRateHz      int     `json:"tick_rate_hz" env:"BLIGHT_TICK_RATE_HZ"`

	// Sources.
	MaxSources             int     `json:"max_sources" env:"BLIGHT_MAX_SOURCES"`
	SourceRange            int     `json:"source_range" env:"BLIGHT_SOURCE_RANGE"`
	SourceAmount           int     `json:"source_amount" env:"BLIGHT_SOURCE_AMOUNT"`
	InitialRadius          int     `json:"initial_radius" env:"BLIGHT_INITIAL_RADIUS"`
	RadiusGrowthStep       int     `json:"radius_growth_step" env:"BLIGHT_RADIUS_GROWTH_STEP"`
	LowSuccessRate         float64 `json:"low_success_rate" env:"BLIGHT_LOW_SUCCESS_RATE"`
	VeryLowSuccessRate     float64 `json:"very_low_success_rate" env:"BLIGHT_VERY_LOW_SUCCESS_RATE"`
	StallLimit             int     `json:"stall_limit" env:"BLIGHT_STALL_LIMIT"`
	RelocationGraceSeconds float64 `json:"relocation_grace_seconds" env:"BLIGHT_RELOCATION_GRACE_SECONDS"`

	// Metastasis.
	MetastasisThreshold    int     `json:"metastasis_threshold" env:"BLIGHT_METASTASIS_THRESHOLD"`
	ChildSpawnDelaySeconds float64 `json:"child_spawn_delay_seconds" env:"BLIGHT_CHILD_SPAWN_DELAY_SECONDS"`
	RangeVariance          float64 `json:"range_variance" env:"BLIGHT_RANGE_VARIANCE"`
	MinSourceY             int     `json:"min_source_y" env:"BLIGHT_MIN_SOURCE_Y"`
	FailedSpawnLimit       int     `json:"failed_spawn_limit" env:"BLIGHT_FAILED_SPAWN_LIMIT"`

	// Cell frontier.
	VerticalSpread            bool    `json:"vertical_spread" env:"BLIGHT_VERTICAL_SPREAD"`
	BleedBudget               int     `json:"bleed_budget" env:"BLIGHT_BLEED_BUDGET"`
	CellSpreadChance          float64 `json:"cell_spread_chance" env:"BLIGHT_CELL_SPREAD_CHANCE"`
	CellSpreadIntervalSeconds float64 `json:"cell_spread_interval_seconds" env:"BLIGHT_CELL_SPREAD_INTERVAL_SECONDS"`
	EmptyFrontierLimit        int     `json:"empty_frontier_limit" env:"BLIGHT_EMPTY_FRONTIER_LIMIT"`
	RepairAttemptLimit        int     `json:"repair_attempt_limit" env:"BLIGHT_REPAIR_ATTEMPT_LIMIT"`
	RepairCooldownSeconds     float64 `json:"repair_cooldown_seconds" env:"BLIGHT_REPAIR_COOLDOWN_SECONDS"`
	MobSpawnCooldownSeconds   float64 `json:"mob_spawn_cooldown_seconds" env:"BLIGHT_MOB_SPAWN_COOLDOWN_SECONDS"`

	// Wards.
	WardRadius         int     `json:"ward_radius" env:"BLIGHT_WARD_RADIUS"`
	WardScanMode       string  `json:"ward_scan_mode" env:"BLIGHT_WARD_SCAN_MODE"` // "raster", "radial" or "random"
	WardHealRate       int     `json:"ward_heal_rate" env:"BLIGHT_WARD_HEAL_RATE"`
	RadialFailureLimit int     `json:"radial_failure_limit" env:"BLIGHT_RADIAL_FAILURE_LIMIT"`
	WardHealMultiplier float64 `json:"ward_heal_multiplier" env:"BLIGHT_WARD_HEAL_MULTIPLIER"`

	// Regeneration.
	RegenDelaySeconds float64 `json:"regen_delay_seconds" env:"BLIGHT_REGEN_DELAY_SECONDS"`
	MaxRegenPerTick   int     `json:"max_regen_per_tick" env:"BLIGHT_MAX_REGEN_PER_TICK"`

	// Haunting.
	HauntIntervalSeconds float64 `json:"haunt_interval_seconds" env:"BLIGHT_HAUNT_INTERVAL_SECONDS"`
	HauntMinDistance     int     `json:"haunt_min_distance" env:"BLIGHT_HAUNT_MIN_DISTANCE"`
	HauntMaxDistance     int     `json:"haunt_max_distance" env:"BLIGHT_HAUNT_MAX_DISTANCE"`

	// World (daemon-side terrain the simulation runs against).
	Seed          int64  `json:"seed" env:"BLIGHT_SEED"`
	GeneratorType string `json:"generator_type" env:"BLIGHT_GENERATOR_TYPE"` // "default" or "flat"

	// Daemon.
	AutosaveSeconds float64 `json:"autosave_seconds" env:"BLIGHT_AUTOSAVE_SECONDS"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SpeedMultiplier:        1.0,
		TickRateHz:             100,
		MaxSources:             50,
		SourceRange:            24,
		SourceAmount:           1,
		InitialRadius:          3,
		RadiusGrowthStep:       2,
		LowSuccessRate:         0.2,
		VeryLowSuccessRate:     0.05,
		StallLimit:             10,
		RelocationGraceSeconds: 30,

		MetastasisThreshold:    100,
		ChildSpawnDelaySeconds: 60,
		RangeVariance:          0.25,
		MinSourceY:             5,
		FailedSpawnLimit:       8,

		VerticalSpread:            true,
		BleedBudget:               4,
		CellSpreadChance:          0.15,
		CellSpreadIntervalSeconds: 10,
		EmptyFrontierLimit:        5,
		RepairAttemptLimit:        3,
		RepairCooldownSeconds:     30,
		MobSpawnCooldownSeconds:   45,

		WardRadius:         16,
		WardScanMode:       "raster",
		WardHealRate:       5,
		RadialFailureLimit: 10,

		RegenDelaySeconds: 300,
		MaxRegenPerTick:   50,

		HauntIntervalSeconds: 120,
		HauntMinDistance:     24,
		HauntMaxDistance:     48,

		GeneratorType: "default",

		AutosaveSeconds: 300,
	}
}

// Clamp forces every parameter into its valid range. The core assumes
// clamped values; misuse is corrected here at the boundary, never inside
// the engines.
func (c *Config) Clamp() {
	if c.SpeedMultiplier <= 0 {
		c.SpeedMultiplier = 1.0
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 100
	}
	if c.MaxSources < 1 {
		c.MaxSources = 1
	}
	if c.SourceRange < 1 {
		c.SourceRange = 1
	}
	if c.SourceAmount < 1 {
		c.SourceAmount = 1
	}
	if c.InitialRadius < 1 {
		c.InitialRadius = 1
	}
	if c.InitialRadius > c.SourceRange {
		c.InitialRadius = c.SourceRange
	}
	if c.RadiusGrowthStep < 1 {
		c.RadiusGrowthStep = 1
	}
	c.LowSuccessRate = clamp01(c.LowSuccessRate)
	c.VeryLowSuccessRate = clamp01(c.VeryLowSuccessRate)
	if c.VeryLowSuccessRate > c.LowSuccessRate {
		c.VeryLowSuccessRate = c.LowSuccessRate
	}
	if c.StallLimit < 1 {
		c.StallLimit = 1
	}
	if c.RelocationGraceSeconds < 0 {
		c.RelocationGraceSeconds = 0
	}
	if c.MetastasisThreshold < 1 {
		c.MetastasisThreshold = 1
	}
	if c.ChildSpawnDelaySeconds < 0 {
		c.ChildSpawnDelaySeconds = 0
	}
	if c.RangeVariance < 0 {
		c.RangeVariance = 0
	}
	if c.RangeVariance > 1 {
		c.RangeVariance = 1
	}
	if c.FailedSpawnLimit < 1 {
		c.FailedSpawnLimit = 1
	}
	if c.BleedBudget < 1 {
		c.BleedBudget = 1
	}
	c.CellSpreadChance = clamp01(c.CellSpreadChance)
	if c.CellSpreadIntervalSeconds <= 0 {
		c.CellSpreadIntervalSeconds = 1
	}
	if c.EmptyFrontierLimit < 1 {
		c.EmptyFrontierLimit = 1
	}
	if c.RepairAttemptLimit < 1 {
		c.RepairAttemptLimit = 1
	}
	if c.RepairCooldownSeconds < 0 {
		c.RepairCooldownSeconds = 0
	}
	if c.MobSpawnCooldownSeconds < 0 {
		c.MobSpawnCooldownSeconds = 0
	}
	if c.WardRadius < 1 {
		c.WardRadius = 1
	}
	switch c.WardScanMode {
	case "raster", "radial", "random":
	default:
		c.WardScanMode = "raster"
	}
	if c.WardHealRate < 1 {
		c.WardHealRate = 1
	}
	if c.RadialFailureLimit < 1 {
		c.RadialFailureLimit = 1
	}
	if c.WardHealMultiplier < 0 {
		c.WardHealMultiplier = 0
	}
	if c.RegenDelaySeconds < 0 {
		c.RegenDelaySeconds = 0
	}
	if c.MaxRegenPerTick < 1 {
		c.MaxRegenPerTick = 1
	}
	if c.HauntIntervalSeconds <= 0 {
		c.HauntIntervalSeconds = 1
	}
	if c.HauntMinDistance < 1 {
		c.HauntMinDistance = 1
	}
	if c.HauntMaxDistance < c.HauntMinDistance {
		c.HauntMaxDistance = c.HauntMinDistance
	}
	if c.AutosaveSeconds < 0 {
		c.AutosaveSeconds = 0
	}
}

// TicksFor converts a wall-clock duration in seconds to simulation ticks
// at the configured nominal rate.
func (c *Config) TicksFor(seconds float64) int64 {
	t := int64(seconds * float64(c.TickRateHz))
	if t < 0 {
		return 0
	}
	return t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
