package compiler

import (
	"github.com/roach88/mossgen/internal/catalog"
	"github.com/roach88/mossgen/internal/logic"
)

// Env binds the names a rule may reference during compilation.
//
// Resolution precedence for a bare name: event, option flag, reserved
// alias, catalog item, counted item form. Events shadow flags and items,
// and flags shadow items, matching the substitution-table order of the
// extracted logic data.
type Env struct {
	// Catalog resolves item names (and counted-name bases).
	Catalog *catalog.Catalog

	// Events is the set of event names. An event token compiles to a
	// has-marker-item check on the event's own name.
	Events map[string]bool

	// Flags maps option-flag names to their truthy value for the current
	// run. Flag tokens are constant-folded at compile time and never
	// re-evaluated per state query.
	Flags map[string]bool
}

// reservedAliases maps reserved pseudo-item names to fixed expansions.
// These are recognized before generic item lookup regardless of catalog
// contents: the "upgrade" tier is a count>=2 check on the base item, the
// "infinite" tier a count>=3 check.
var reservedAliases = map[string]logic.HasItem{
	"Grappling_Hook_Upgrade": {Item: "Grappling_Hook", Count: 2},
	"Infinite_Grapple":       {Item: "Grappling_Hook", Count: 3},
}
