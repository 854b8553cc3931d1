// Package harness provides a YAML-driven conformance harness for logic
// datasets.
//
// A scenario names a dataset, fixes the option set, and declares two kinds
// of expectations:
//
//   - rule checks: a rule string, an inventory, and whether the compiled
//     predicate must allow that inventory
//   - graph assertions: structural facts about the built graph, such as
//     which region owns a location, whether a target earned a dedicated
//     region, and which goal event the options selected
//
// Scenarios live in testdata as YAML and are loaded with strict field
// validation, so a typo in a key is an error rather than a silently
// ignored expectation. Golden-file comparison of the graph dump catches
// topology drift that no single assertion was written for.
package harness
