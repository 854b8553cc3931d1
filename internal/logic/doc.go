// Package logic provides the compiled access-rule representation for mossgen.
//
// This package contains the expression tree that access rules compile to,
// evaluated against an inventory-state abstraction, plus canonical JSON
// serialization and content-addressed hashing of expressions and graph
// shapes. All other internal packages import logic; logic imports nothing
// internal. This ensures the expression layer remains foundational with no
// circular dependencies.
//
// Key design constraints:
//   - Expression trees are immutable after construction
//   - Evaluation is pure: no side effects, no I/O, no captured mutable state
//   - Safe for concurrent evaluation by an external multi-threaded solver
//   - NO float types in canonical serialization - counts are ints
package logic
