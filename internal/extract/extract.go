// Package extract loads logic datasets: the rule table, event-name set,
// item/location catalogs, and traversal-origin names a generation run
// consumes.
//
// Datasets are authored in CUE under a fixed schema:
//
//	logic: {
//	    root:  "Menu"
//	    start: "rm_start_0[100390]"
//	    events: ["e_maya_fight", ...]
//	    rules: [{parent: "...", target: "...", rule: "..."}, ...]
//	}
//	items:     [{name: "...", class: "progression", count: 1}, ...]
//	locations: ["...", ...]
//
// The package ships an embedded default dataset and can load an external
// dataset directory with the same schema.
package extract

import (
	"fmt"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/mossgen/internal/catalog"
	"github.com/roach88/mossgen/internal/world"
)

// Dataset is the extracted, read-only logic data for a generation run.
type Dataset struct {
	Root      string
	Start     string
	Events    []string
	Rules     []world.RuleEntry
	Items     []catalog.Item
	Locations []string
}

// Catalog builds the item/location catalog from the dataset.
func (d *Dataset) Catalog() (*catalog.Catalog, error) {
	return catalog.New(d.Items, d.Locations)
}

// Context assembles a world build context for the dataset with the given
// options.
func (d *Dataset) Context(opts world.Options) (*world.Context, error) {
	cat, err := d.Catalog()
	if err != nil {
		return nil, err
	}
	return &world.Context{
		Catalog: cat,
		Events:  d.Events,
		Rules:   d.Rules,
		Options: opts,
		Root:    d.Root,
		Start:   d.Start,
	}, nil
}

// ExtractError represents a dataset extraction error with source position.
type ExtractError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ExtractError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FromValue parses a CUE value holding a full dataset.
// Uses the CUE SDK's Go API directly (not CLI subprocess).
func FromValue(v cue.Value) (*Dataset, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	d := &Dataset{}

	logicVal := v.LookupPath(cue.ParsePath("logic"))
	if !logicVal.Exists() {
		return nil, &ExtractError{Field: "logic", Message: "logic section is required", Pos: v.Pos()}
	}

	var err error
	if d.Root, err = optionalString(logicVal, "root"); err != nil {
		return nil, err
	}
	if d.Start, err = optionalString(logicVal, "start"); err != nil {
		return nil, err
	}

	if d.Events, err = parseStringList(logicVal, "events"); err != nil {
		return nil, err
	}
	seenEvents := make(map[string]bool, len(d.Events))
	for _, ev := range d.Events {
		if seenEvents[ev] {
			return nil, &ExtractError{Field: "logic.events", Message: fmt.Sprintf("duplicate event %q", ev), Pos: logicVal.Pos()}
		}
		seenEvents[ev] = true
	}

	if d.Rules, err = parseRules(logicVal); err != nil {
		return nil, err
	}
	if len(d.Rules) == 0 {
		return nil, &ExtractError{Field: "logic.rules", Message: "at least one rule is required", Pos: logicVal.Pos()}
	}

	if d.Items, err = parseItems(v); err != nil {
		return nil, err
	}
	if d.Locations, err = parseStringList(v, "locations"); err != nil {
		return nil, err
	}

	return d, nil
}

// parseRules extracts the ordered rule table.
func parseRules(v cue.Value) ([]world.RuleEntry, error) {
	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return nil, &ExtractError{Field: "logic.rules", Message: "rules list is required", Pos: v.Pos()}
	}

	iter, err := rulesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rules []world.RuleEntry
	for iter.Next() {
		entryVal := iter.Value()

		parent, err := requiredString(entryVal, "parent")
		if err != nil {
			return nil, err
		}
		target, err := requiredString(entryVal, "target")
		if err != nil {
			return nil, err
		}
		rule, err := optionalString(entryVal, "rule")
		if err != nil {
			return nil, err
		}

		rules = append(rules, world.RuleEntry{Parent: parent, Target: target, Rule: rule})
	}
	return rules, nil
}

// parseItems extracts the ordered item catalog.
func parseItems(v cue.Value) ([]catalog.Item, error) {
	itemsVal := v.LookupPath(cue.ParsePath("items"))
	if !itemsVal.Exists() {
		return nil, nil // items are optional; some tools only need the graph shape
	}

	iter, err := itemsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var items []catalog.Item
	for iter.Next() {
		itemVal := iter.Value()

		name, err := requiredString(itemVal, "name")
		if err != nil {
			return nil, err
		}
		class, err := requiredString(itemVal, "class")
		if err != nil {
			return nil, err
		}

		countVal := itemVal.LookupPath(cue.ParsePath("count"))
		count := int64(1)
		if countVal.Exists() {
			if count, err = countVal.Int64(); err != nil {
				return nil, formatCUEError(err)
			}
		}

		items = append(items, catalog.Item{
			Name:  name,
			Class: catalog.Classification(class),
			Count: int(count),
		})
	}
	return items, nil
}

// parseStringList extracts an optional list of strings at path.
func parseStringList(v cue.Value, path string) ([]string, error) {
	listVal := v.LookupPath(cue.ParsePath(path))
	if !listVal.Exists() {
		return nil, nil
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", &ExtractError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	if s == "" {
		return "", &ExtractError{Field: field, Message: field + " must be non-empty", Pos: fieldVal.Pos()}
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", nil
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &ExtractError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
