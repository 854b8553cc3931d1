package world

import (
	"github.com/roach88/mossgen/internal/logic"
)

// NoID marks a location with no catalog id (events only).
const NoID = -1

// Region is a traversal-graph node representing a connected area.
// Regions own their outgoing exits and the locations placed in them.
type Region struct {
	Name      string
	Exits     []*Exit
	Locations []*Location
}

// Exit is a directed edge to another region. A nil Rule means the exit is
// unconditional; callers skip evaluation instead of evaluating always-true.
type Exit struct {
	Dest *Region
	Rule logic.Expr
}

// connect appends a directed exit from r to dest carrying rule.
func (r *Region) connect(dest *Region, rule logic.Expr) *Exit {
	exit := &Exit{Dest: dest, Rule: rule}
	r.Exits = append(r.Exits, exit)
	return exit
}

// Location is a check placed in a region. Player-visible locations carry a
// catalog id; events carry NoID, a locked marker item named after
// themselves, and are hidden from spoiler output.
type Location struct {
	Name   string
	ID     int
	Region *Region

	// Rule gates access to the location. Nil means unconditional.
	Rule logic.Expr

	// LockedItem is the pre-placed progression item name, set only on
	// events (always equal to the event's own name).
	LockedItem string

	// ShowInSpoiler is false for events, which are logic-only.
	ShowInSpoiler bool
}

// IsEvent reports whether the location is a logic-only event.
func (l *Location) IsEvent() bool { return l.ID == NoID }

// Graph is the finished traversal graph of a generation run.
// It is immutable after Build returns.
type Graph struct {
	// Root is the fixed traversal origin region.
	Root *Region

	// GoalEvent is the event whose locked marker item defines completion.
	GoalEvent string

	regions map[string]*Region
	order   []*Region

	// Locations holds catalog locations in catalog order.
	Locations []*Location

	// Events holds event locations in event-set order.
	Events []*Location

	// Diagnostics counts the rule-compilation diagnostics recorded while
	// building. Always zero in strict mode, which fails instead.
	Diagnostics int
}

// Region returns the named region, if it was materialized.
// Elided names resolve to no region of their own.
func (g *Graph) Region(name string) (*Region, bool) {
	r, ok := g.regions[name]
	return r, ok
}

// Regions returns all regions in creation order.
func (g *Graph) Regions() []*Region {
	out := make([]*Region, len(g.order))
	copy(out, g.order)
	return out
}

// Completion returns the completion predicate: the player holds the goal
// event's locked marker item.
func (g *Graph) Completion() logic.Expr {
	return logic.HasItem{Item: g.GoalEvent, Count: 1}
}
