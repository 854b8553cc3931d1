package world

// Ending selects which of the five story endings completes the run.
type Ending int

const (
	EndingA Ending = iota
	EndingB
	EndingC
	EndingD
	EndingE
)

// DefaultEnding is the fallback for unknown or out-of-range configuration
// values. The fallback is explicit: goal selection never fails.
const DefaultEnding = EndingE

// GoalEvent returns the goal event name for the ending. Out-of-range
// values map to DefaultEnding's event.
func (e Ending) GoalEvent() string {
	switch e {
	case EndingA:
		return "e_goal_a"
	case EndingB:
		return "e_goal_b"
	case EndingC:
		return "e_goal_c"
	case EndingD:
		return "e_goal_d"
	case EndingE:
		return "e_goal_e"
	default:
		return DefaultEnding.GoalEvent()
	}
}

// Options is the per-run configuration surfaced to the rule compiler as
// constant flag substitutions and re-exported verbatim as slot data.
type Options struct {
	Ending                 Ending
	HardMaya               bool
	Deathlink              bool
	DamageBoost            bool
	GrenadeBoost           bool
	PreciseMovement        bool
	PreciseGrapple         bool
	BunnyHopping           bool
	HardCombat             bool
	ShopDiscountPercentage int
}

// Flags returns the explicit flag-substitution table for rule compilation:
// every option name mapped to its truthy value. Non-boolean options follow
// the same truthiness convention (zero is false). Built once per run; no
// field introspection.
func (o Options) Flags() map[string]bool {
	return map[string]bool{
		"ending":                   o.Ending != 0,
		"hard_maya":                o.HardMaya,
		"deathlink":                o.Deathlink,
		"damage_boost":             o.DamageBoost,
		"grenade_boost":            o.GrenadeBoost,
		"precise_movement":         o.PreciseMovement,
		"precise_grapple":          o.PreciseGrapple,
		"bunny_hopping":            o.BunnyHopping,
		"hard_combat":              o.HardCombat,
		"shop_discount_percentage": o.ShopDiscountPercentage != 0,
	}
}

// SlotData returns the flat key/value record of option values handed to
// the external slot/config export.
func (o Options) SlotData() map[string]any {
	return map[string]any{
		"ending":                   int(o.Ending),
		"hard_maya":                o.HardMaya,
		"deathlink":                o.Deathlink,
		"damage_boost":             o.DamageBoost,
		"grenade_boost":            o.GrenadeBoost,
		"precise_movement":         o.PreciseMovement,
		"precise_grapple":          o.PreciseGrapple,
		"bunny_hopping":            o.BunnyHopping,
		"hard_combat":              o.HardCombat,
		"shop_discount_percentage": o.ShopDiscountPercentage,
	}
}
