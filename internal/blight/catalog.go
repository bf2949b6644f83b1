package blight

import "strings"

// Rule maps a terrain-kind prefix to its corrupted form and the kind the
// point eventually regrows into. An empty Regrow means the corrupted block
// is removed on regrowth instead of being replaced.
type Rule struct {
	Prefix Kind
	Result Kind
	Regrow Kind
}

// HealRule maps a corrupted-kind prefix to its healed form. An empty
// Result means healing removes the block entirely.
type HealRule struct {
	Prefix Kind
	Result Kind
}

// Catalog is the fixed transformation table: which terrain corrupts into
// what, and how corruption heals back. Rules are evaluated in order and
// the first matching prefix wins, so more specific prefixes must stay
// ahead of shorter ones.
type Catalog struct {
	devastate []Rule
	heal      []HealRule
}

// NewCatalog returns the built-in transformation catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		devastate: []Rule{
			// grass_block before the grass plant prefix.
			{Prefix: "minecraft:grass_block", Result: "blight:withergrass", Regrow: "minecraft:dirt"},
			{Prefix: "minecraft:grass", Result: "blight:creep", Regrow: ""},
			{Prefix: "minecraft:tall_grass", Result: "blight:creep", Regrow: ""},
			{Prefix: "minecraft:fern", Result: "blight:creep", Regrow: ""},
			{Prefix: "minecraft:dirt", Result: "blight:rot", Regrow: "minecraft:dirt"},
			{Prefix: "minecraft:podzol", Result: "blight:rot", Regrow: "minecraft:dirt"},
			{Prefix: "minecraft:mycelium", Result: "blight:rot", Regrow: "minecraft:dirt"},
			{Prefix: "minecraft:stone", Result: "blight:rotstone", Regrow: "minecraft:stone"},
			{Prefix: "minecraft:cobblestone", Result: "blight:rotstone", Regrow: "minecraft:stone"},
			{Prefix: "minecraft:andesite", Result: "blight:rotstone", Regrow: "minecraft:stone"},
			{Prefix: "minecraft:diorite", Result: "blight:rotstone", Regrow: "minecraft:stone"},
			{Prefix: "minecraft:granite", Result: "blight:rotstone", Regrow: "minecraft:stone"},
			{Prefix: "minecraft:sandstone", Result: "blight:rotstone", Regrow: "minecraft:sandstone"},
			{Prefix: "minecraft:sand", Result: "blight:ashsand", Regrow: "minecraft:sand"},
			{Prefix: "minecraft:gravel", Result: "blight:ashsand", Regrow: "minecraft:gravel"},
			{Prefix: "minecraft:clay", Result: "blight:ashsand", Regrow: "minecraft:clay"},
			{Prefix: "minecraft:snow", Result: "blight:ash", Regrow: ""},
			{Prefix: "minecraft:water", Result: "blight:sludge", Regrow: "minecraft:water"},
			{Prefix: "minecraft:oak_", Result: "blight:witherwood", Regrow: ""},
			{Prefix: "minecraft:birch_", Result: "blight:witherwood", Regrow: ""},
			{Prefix: "minecraft:spruce_", Result: "blight:witherwood", Regrow: ""},
			{Prefix: "minecraft:jungle_", Result: "blight:witherwood", Regrow: ""},
			{Prefix: "minecraft:acacia_", Result: "blight:witherwood", Regrow: ""},
			{Prefix: "minecraft:dark_oak_", Result: "blight:witherwood", Regrow: ""},
			{Prefix: "minecraft:cactus", Result: "blight:creep", Regrow: ""},
			{Prefix: "minecraft:vine", Result: "blight:creep", Regrow: ""},
		},
		heal: []HealRule{
			// longer prefixes first: rotstone/ashsand shadow rot/ash.
			{Prefix: "blight:rotstone", Result: "minecraft:stone"},
			{Prefix: "blight:rot", Result: "minecraft:dirt"},
			{Prefix: "blight:ashsand", Result: "minecraft:sand"},
			{Prefix: "blight:ash", Result: ""},
			{Prefix: "blight:withergrass", Result: "minecraft:grass_block"},
			{Prefix: "blight:witherwood", Result: ""},
			{Prefix: "blight:sludge", Result: "minecraft:water"},
			{Prefix: "blight:creep", Result: ""},
		},
	}
}

// Devastation returns the corrupted form and regrowth target for a terrain
// kind, or false when the kind does not corrupt.
func (c *Catalog) Devastation(k Kind) (result, regrow Kind, ok bool) {
	for _, r := range c.devastate {
		if strings.HasPrefix(string(k), string(r.Prefix)) {
			return r.Result, r.Regrow, true
		}
	}
	return "", "", false
}

// Heal returns the healed form for a corrupted kind, or false when the
// kind is not corruption. An empty result with ok=true means removal.
func (c *Catalog) Heal(k Kind) (result Kind, ok bool) {
	for _, r := range c.heal {
		if strings.HasPrefix(string(k), string(r.Prefix)) {
			return r.Result, true
		}
	}
	return "", false
}

// IsCorrupted reports whether the kind is a corrupted form.
func (c *Catalog) IsCorrupted(k Kind) bool {
	_, ok := c.Heal(k)
	return ok
}

// IsConvertible reports whether the kind can still be corrupted.
func (c *Catalog) IsConvertible(k Kind) bool {
	_, _, ok := c.Devastation(k)
	return ok
}
