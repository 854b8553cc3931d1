package harness

import (
	"fmt"

	"github.com/roach88/mossgen/internal/compiler"
	"github.com/roach88/mossgen/internal/extract"
	"github.com/roach88/mossgen/internal/world"
)

// Result holds the outcome of one scenario run.
type Result struct {
	Scenario *Scenario

	// Graph is the built graph; nil when the build itself failed.
	Graph *world.Graph

	// Failures lists each expectation that did not hold, in scenario
	// order. Empty means the scenario passed.
	Failures []string
}

// OK reports whether every expectation held.
func (r *Result) OK() bool { return len(r.Failures) == 0 }

// inventory is a counted multiset of item names for rule checks.
type inventory map[string]int

func (inv inventory) Has(item string, count int) bool { return inv[item] >= count }

func collect(names []string) inventory {
	inv := make(inventory, len(names))
	for _, name := range names {
		inv[name]++
	}
	return inv
}

// Run executes a scenario: loads its dataset, builds the graph in strict
// mode, and evaluates every rule check and graph assertion.
//
// A failed expectation is a Failure on the result, not an error. Errors
// are reserved for the scenario being unrunnable at all: dataset load
// failure or a graph build error.
func Run(s *Scenario) (*Result, error) {
	var (
		dataset *extract.Dataset
		err     error
	)
	if s.Dataset == "" {
		dataset, err = extract.Default()
	} else {
		dataset, err = extract.LoadDir(s.Dataset)
	}
	if err != nil {
		return nil, fmt.Errorf("scenario %s: load dataset: %w", s.Name, err)
	}

	ctx, err := dataset.Context(s.Options.ToOptions())
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	ctx.Strict = true

	graph, err := world.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: build graph: %w", s.Name, err)
	}

	result := &Result{Scenario: s, Graph: graph}

	events := make(map[string]bool, len(dataset.Events))
	for _, e := range dataset.Events {
		events[e] = true
	}
	comp := compiler.New(compiler.Env{
		Catalog: ctx.Catalog,
		Events:  events,
		Flags:   s.Options.ToOptions().Flags(),
	}, compiler.WithStrict())

	for i, check := range s.Rules {
		rule, err := comp.Compile(check.Rule)
		if err != nil {
			result.fail("rules[%d]: compile %q: %v", i, check.Rule, err)
			continue
		}
		got := rule.Allows(collect(check.Inventory))
		if got != check.Allows {
			result.fail("rules[%d]: %q with %v: got %t, want %t",
				i, check.Rule, check.Inventory, got, check.Allows)
		}
	}

	for i, assertion := range s.Graph {
		result.assertGraph(i, assertion)
	}

	return result, nil
}

func (r *Result) fail(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// assertGraph evaluates one structural assertion against the built graph.
func (r *Result) assertGraph(index int, a GraphAssertion) {
	switch a.Type {
	case AssertRegion:
		if _, ok := r.Graph.Region(a.Name); !ok {
			r.fail("graph[%d]: region %q does not exist", index, a.Name)
		}

	case AssertElided:
		if _, ok := r.Graph.Region(a.Name); ok {
			r.fail("graph[%d]: %q has a dedicated region, expected elision into %q",
				index, a.Name, a.Into)
			return
		}
		owner, ok := r.Graph.Region(a.Into)
		if !ok {
			r.fail("graph[%d]: owning region %q does not exist", index, a.Into)
			return
		}
		if !regionHasLocation(owner, a.Name) {
			r.fail("graph[%d]: region %q does not hold location %q", index, a.Into, a.Name)
		}

	case AssertDedicated:
		region, ok := r.Graph.Region(a.Name)
		if !ok {
			r.fail("graph[%d]: %q has no dedicated region", index, a.Name)
			return
		}
		if !regionHasLocation(region, a.Name) {
			r.fail("graph[%d]: dedicated region %q does not hold its own location", index, a.Name)
		}

	case AssertEdge:
		from, ok := r.Graph.Region(a.From)
		if !ok {
			r.fail("graph[%d]: region %q does not exist", index, a.From)
			return
		}
		for _, exit := range from.Exits {
			if exit.Dest.Name == a.To {
				return
			}
		}
		r.fail("graph[%d]: no edge %q -> %q", index, a.From, a.To)

	case AssertGoal:
		if r.Graph.GoalEvent != a.Event {
			r.fail("graph[%d]: goal event is %q, want %q", index, r.Graph.GoalEvent, a.Event)
		}
	}
}

func regionHasLocation(region *world.Region, name string) bool {
	for _, loc := range region.Locations {
		if loc.Name == name {
			return true
		}
	}
	return false
}
