// Package world builds the traversal graph a reachability solver walks.
//
// The graph is assembled from an ordered rule table (directed
// (parent, target) keys with rule text), the event-name set, and the
// item/location catalogs, in a strict two-phase algorithm:
//
// Phase 1 (classification) counts how many rule keys target each known
// location or event. A target seen exactly once is tentatively elided into
// its single parent's region; a second sighting permanently deletes the
// tentative mapping, dedicating a proxy region to the target instead.
// Classification runs to completion before any region exists, so the
// resulting topology does not depend on rule-table order.
//
// Phase 2 (materialization) creates regions lazily through a resolver that
// follows elision chains transitively, connects regions with directed
// exits carrying compiled access rules, and attaches per-location rules to
// elided spots. Events are materialized as hidden zero-id locations
// holding a locked progression marker named after themselves.
//
// ARCHITECTURE:
//
// Single construction pass: a Context is built once per generation run and
// owns every mutable table until Build returns. The finished graph and its
// compiled expressions are immutable, so an external solver may evaluate
// them from many goroutines. Reachability search itself lives outside this
// package.
package world
