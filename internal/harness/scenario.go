package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mossgen/internal/world"
)

// Scenario defines one conformance scenario: a dataset, an option set, and
// the expectations to hold against it.
type Scenario struct {
	// Name uniquely identifies this scenario. Also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Dataset is a directory of CUE logic files, relative to the scenario
	// file. Empty means the embedded default dataset.
	Dataset string `yaml:"dataset,omitempty"`

	// Options fixes the run configuration for the scenario.
	Options OptionSpec `yaml:"options,omitempty"`

	// Rules lists rule-level predicate checks.
	Rules []RuleCheck `yaml:"rules,omitempty"`

	// Graph lists structural assertions over the built graph.
	// Supported types: region, elided, dedicated, edge, goal
	Graph []GraphAssertion `yaml:"graph,omitempty"`
}

// OptionSpec mirrors the run options with YAML names matching the exported
// slot-data keys.
type OptionSpec struct {
	Ending                 int  `yaml:"ending"`
	HardMaya               bool `yaml:"hard_maya"`
	Deathlink              bool `yaml:"deathlink"`
	DamageBoost            bool `yaml:"damage_boost"`
	GrenadeBoost           bool `yaml:"grenade_boost"`
	PreciseMovement        bool `yaml:"precise_movement"`
	PreciseGrapple         bool `yaml:"precise_grapple"`
	BunnyHopping           bool `yaml:"bunny_hopping"`
	HardCombat             bool `yaml:"hard_combat"`
	ShopDiscountPercentage int  `yaml:"shop_discount_percentage"`
}

// ToOptions converts the spec to run options.
func (o OptionSpec) ToOptions() world.Options {
	return world.Options{
		Ending:                 world.Ending(o.Ending),
		HardMaya:               o.HardMaya,
		Deathlink:              o.Deathlink,
		DamageBoost:            o.DamageBoost,
		GrenadeBoost:           o.GrenadeBoost,
		PreciseMovement:        o.PreciseMovement,
		PreciseGrapple:         o.PreciseGrapple,
		BunnyHopping:           o.BunnyHopping,
		HardCombat:             o.HardCombat,
		ShopDiscountPercentage: o.ShopDiscountPercentage,
	}
}

// RuleCheck asserts the truth value of one compiled rule for one inventory.
type RuleCheck struct {
	// Rule is the rule string, compiled against the scenario's dataset.
	Rule string `yaml:"rule"`

	// Inventory lists held item names; one unit per occurrence.
	Inventory []string `yaml:"inventory"`

	// Allows is the expected predicate result.
	Allows bool `yaml:"allows"`
}

// GraphAssertion validates one structural fact of the built graph.
type GraphAssertion struct {
	// Type selects the assertion:
	// - "region": a region with this name exists
	// - "elided": name has no region of its own; its location sits in "into"
	// - "dedicated": name has its own region containing its location
	// - "edge": region "from" has an exit to region "to"
	// - "goal": the graph's goal event is "event"
	Type string `yaml:"type"`

	// Name is the location, event, or region the assertion is about.
	Name string `yaml:"name,omitempty"`

	// Into is the owning region for "elided".
	Into string `yaml:"into,omitempty"`

	// From and To are region names for "edge".
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`

	// Event is the expected goal event for "goal".
	Event string `yaml:"event,omitempty"`
}

// Graph assertion type constants.
const (
	AssertRegion    = "region"
	AssertElided    = "elided"
	AssertDedicated = "dedicated"
	AssertEdge      = "edge"
	AssertGoal      = "goal"
)

// LoadScenario reads and parses a scenario YAML file. The dataset path is
// resolved relative to the scenario file's directory.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "graph:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Dataset != "" && !filepath.IsAbs(scenario.Dataset) {
		scenario.Dataset = filepath.Join(filepath.Dir(path), scenario.Dataset)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Rules) == 0 && len(s.Graph) == 0 {
		return fmt.Errorf("at least one rule check or graph assertion is required")
	}

	if s.Dataset != "" {
		if _, err := os.Stat(s.Dataset); os.IsNotExist(err) {
			return fmt.Errorf("dataset directory not found: %s", s.Dataset)
		}
	}

	for i, check := range s.Rules {
		if check.Rule == "" {
			return fmt.Errorf("rules[%d]: rule is required", i)
		}
	}

	for i, assertion := range s.Graph {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single graph assertion based on its type.
func validateAssertion(index int, a *GraphAssertion) error {
	if a.Type == "" {
		return fmt.Errorf("graph[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRegion:
		if a.Name == "" {
			return fmt.Errorf("graph[%d]: name is required for region", index)
		}
	case AssertElided:
		if a.Name == "" {
			return fmt.Errorf("graph[%d]: name is required for elided", index)
		}
		if a.Into == "" {
			return fmt.Errorf("graph[%d]: into is required for elided", index)
		}
	case AssertDedicated:
		if a.Name == "" {
			return fmt.Errorf("graph[%d]: name is required for dedicated", index)
		}
	case AssertEdge:
		if a.From == "" || a.To == "" {
			return fmt.Errorf("graph[%d]: from and to are required for edge", index)
		}
	case AssertGoal:
		if a.Event == "" {
			return fmt.Errorf("graph[%d]: event is required for goal", index)
		}
	default:
		return fmt.Errorf("graph[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
