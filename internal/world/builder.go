package world

import (
	"fmt"
	"log/slog"

	"github.com/roach88/mossgen/internal/catalog"
	"github.com/roach88/mossgen/internal/compiler"
	"github.com/roach88/mossgen/internal/logic"
)

// Fixed traversal origin: the root region connects unconditionally to the
// start target as the first edge of every graph.
const (
	DefaultRoot  = "Menu"
	DefaultStart = "rm_start_0[100390]"
)

// RuleKey is a directed edge identifier in the logic table.
type RuleKey struct {
	Parent string
	Target string
}

// RuleEntry is one logic-table row: a rule key with its rule text.
// Empty rule text means the connection is unconditional.
type RuleEntry struct {
	Parent string
	Target string
	Rule   string
}

// Key returns the entry's rule key.
func (e RuleEntry) Key() RuleKey { return RuleKey{Parent: e.Parent, Target: e.Target} }

// Context carries the read-only inputs of one generation run. It is
// constructed once per run and owned exclusively by the construction pass;
// nothing here is shared process-wide.
type Context struct {
	Catalog *catalog.Catalog

	// Events is the ordered event-name set.
	Events []string

	// Rules is the ordered logic table. Order never affects graph
	// topology, only object-creation order.
	Rules []RuleEntry

	Options Options

	// Root and Start override the fixed traversal origin when non-empty.
	Root  string
	Start string

	// Strict propagates to rule compilation: diagnostics become errors.
	Strict bool

	// Logger receives compilation diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// Build runs the two-phase construction and returns the finished graph.
//
// Errors are structural: duplicate rule keys, a location or event no rule
// key targets, an elision cycle, or (in strict mode) a rule that fails to
// compile. Everything else is a log-and-continue diagnostic.
func Build(ctx *Context) (*Graph, error) {
	root := ctx.Root
	if root == "" {
		root = DefaultRoot
	}
	start := ctx.Start
	if start == "" {
		start = DefaultStart
	}

	events := make(map[string]bool, len(ctx.Events))
	for _, e := range ctx.Events {
		events[e] = true
	}

	elide, err := classify(ctx, events)
	if err != nil {
		return nil, err
	}

	var copts []compiler.CompilerOption
	if ctx.Strict {
		copts = append(copts, compiler.WithStrict())
	}
	if ctx.Logger != nil {
		copts = append(copts, compiler.WithLogger(ctx.Logger))
	}
	comp := compiler.New(compiler.Env{
		Catalog: ctx.Catalog,
		Events:  events,
		Flags:   ctx.Options.Flags(),
	}, copts...)

	g := &Graph{regions: make(map[string]*Region)}

	// resolve follows the elision chain to the owning region name. Chains
	// of single-parent targets collapse transitively onto the first
	// dedicated ancestor. A cycle in the chain is a data error.
	resolve := func(name string) (string, error) {
		seen := map[string]bool{}
		for {
			parent, elided := elide[name]
			if !elided {
				return name, nil
			}
			if seen[name] {
				return "", fmt.Errorf("elision cycle through %q", name)
			}
			seen[name] = true
			name = parent
		}
	}

	getParent := func(name string) (*Region, error) {
		owner, err := resolve(name)
		if err != nil {
			return nil, err
		}
		if r, ok := g.regions[owner]; ok {
			return r, nil
		}
		r := &Region{Name: owner}
		g.regions[owner] = r
		g.order = append(g.order, r)
		return r, nil
	}

	// Traversal origin: root connects to the start target unconditionally.
	rootRegion, err := getParent(root)
	if err != nil {
		return nil, err
	}
	startRegion, err := getParent(start)
	if err != nil {
		return nil, err
	}
	rootRegion.connect(startRegion, nil)
	g.Root = rootRegion

	// Materialize edges; stash rules for elided targets, which share their
	// parent's region and need a per-location gate instead of an edge.
	locationRules := make(map[string]logic.Expr)
	for _, entry := range ctx.Rules {
		rule, err := comp.Compile(entry.Rule)
		if err != nil {
			return nil, fmt.Errorf("rule %s -> %s: %w", entry.Parent, entry.Target, err)
		}
		g.Diagnostics += len(rule.Diagnostics)
		if _, elided := elide[entry.Target]; elided {
			locationRules[entry.Target] = rule.Expr
			continue
		}
		parent, err := getParent(entry.Parent)
		if err != nil {
			return nil, err
		}
		target, err := getParent(entry.Target)
		if err != nil {
			return nil, err
		}
		parent.connect(target, rule.Expr)
	}

	// Events: hidden zero-id locations with a locked marker item named
	// after themselves.
	for _, event := range ctx.Events {
		region, err := getParent(event)
		if err != nil {
			return nil, err
		}
		loc := &Location{
			Name:       event,
			ID:         NoID,
			Region:     region,
			Rule:       locationRules[event],
			LockedItem: event,
		}
		region.Locations = append(region.Locations, loc)
		g.Events = append(g.Events, loc)
	}

	// Catalog locations, in catalog order.
	for _, name := range ctx.Catalog.Locations() {
		id, _ := ctx.Catalog.LocationID(name)
		region, err := getParent(name)
		if err != nil {
			return nil, err
		}
		loc := &Location{
			Name:          name,
			ID:            id,
			Region:        region,
			Rule:          locationRules[name],
			ShowInSpoiler: true,
		}
		region.Locations = append(region.Locations, loc)
		g.Locations = append(g.Locations, loc)
	}

	g.GoalEvent = ctx.Options.Ending.GoalEvent()
	return g, nil
}

// classify is Phase 1: count rule-key destinations that are known
// locations or events and derive the elision mapping. First sighting
// records target -> parent; second sighting deletes the mapping for good;
// later sightings are no-ops. Runs to completion before any region is
// created, so elision decisions are global.
func classify(ctx *Context, events map[string]bool) (map[string]string, error) {
	seen := make(map[RuleKey]bool, len(ctx.Rules))
	connections := make(map[string]int)
	elide := make(map[string]string)

	for _, entry := range ctx.Rules {
		key := entry.Key()
		if seen[key] {
			return nil, fmt.Errorf("duplicate rule key %s -> %s", key.Parent, key.Target)
		}
		seen[key] = true

		if !ctx.Catalog.HasLocation(entry.Target) && !events[entry.Target] {
			// Rule-internal waypoint; not classified here.
			continue
		}
		connections[entry.Target]++
		switch connections[entry.Target] {
		case 1:
			elide[entry.Target] = entry.Parent
		case 2:
			// Needs a proxy region of its own; dedication is one-way.
			delete(elide, entry.Target)
		}
	}

	// Every location and event must be targeted by at least one rule key.
	// An unreachable spot is a logic-table bug, not something to drop.
	for _, name := range ctx.Catalog.Locations() {
		if connections[name] == 0 {
			return nil, fmt.Errorf("location %q has no incoming rule key", name)
		}
	}
	for _, name := range ctx.Events {
		if connections[name] == 0 {
			return nil, fmt.Errorf("event %q has no incoming rule key", name)
		}
	}

	return elide, nil
}
