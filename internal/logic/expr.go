package logic

import "fmt"

// InventoryState is the read-only view of a simulated player inventory that
// compiled expressions are evaluated against. Implementations must be safe
// for concurrent reads; the external reachability solver evaluates the same
// expression from multiple goroutines.
type InventoryState interface {
	// Has reports whether the inventory holds at least count units of item.
	Has(item string, count int) bool
}

// Expr is a node in a compiled access expression.
//
// Trees are immutable once built. Eval is total for well-formed trees and
// never panics. A nil Expr is NOT a valid node: callers representing "no
// rule" (unconditionally accessible) must carry a nil Expr value and skip
// evaluation entirely rather than evaluate an always-true node.
type Expr interface {
	// Eval reports whether the expression is satisfied by state.
	Eval(state InventoryState) bool

	// Canonical returns the canonical map form of the node, suitable for
	// MarshalCanonical. Used for content-addressed expression identity.
	Canonical() map[string]any

	// String renders the node in rule-grammar notation for diagnostics
	// and graph dumps.
	String() string
}

// HasItem is satisfied when the inventory holds at least Count units of Item.
// Count is always >= 1.
type HasItem struct {
	Item  string
	Count int
}

// Const is a compile-time constant, produced by folding an option flag at
// compilation time. Flag records the originating option name for dumps.
type Const struct {
	Flag  string
	Value bool
}

// And is satisfied when both operands are satisfied.
type And struct {
	Left, Right Expr
}

// Or is satisfied when either operand is satisfied.
type Or struct {
	Left, Right Expr
}

func (e HasItem) Eval(state InventoryState) bool { return state.Has(e.Item, e.Count) }
func (e Const) Eval(InventoryState) bool         { return e.Value }
func (e And) Eval(state InventoryState) bool     { return e.Left.Eval(state) && e.Right.Eval(state) }
func (e Or) Eval(state InventoryState) bool      { return e.Left.Eval(state) || e.Right.Eval(state) }

func (e HasItem) Canonical() map[string]any {
	return map[string]any{"has": e.Item, "count": e.Count}
}

func (e Const) Canonical() map[string]any {
	m := map[string]any{"const": e.Value}
	if e.Flag != "" {
		m["flag"] = e.Flag
	}
	return m
}

func (e And) Canonical() map[string]any {
	return map[string]any{"all": []any{e.Left.Canonical(), e.Right.Canonical()}}
}

func (e Or) Canonical() map[string]any {
	return map[string]any{"any": []any{e.Left.Canonical(), e.Right.Canonical()}}
}

func (e HasItem) String() string {
	if e.Count > 1 {
		return fmt.Sprintf("%s{%d}", e.Item, e.Count)
	}
	return e.Item
}

func (e Const) String() string {
	if e.Flag != "" {
		return fmt.Sprintf("%s=%t", e.Flag, e.Value)
	}
	return fmt.Sprintf("%t", e.Value)
}

func (e And) String() string { return fmt.Sprintf("(%s + %s)", e.Left, e.Right) }
func (e Or) String() string  { return fmt.Sprintf("(%s | %s)", e.Left, e.Right) }
