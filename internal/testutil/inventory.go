// Package testutil provides deterministic helpers shared by package tests.
package testutil

// Inventory is a count-map inventory state for tests.
// It implements logic.InventoryState.
type Inventory map[string]int

// Has reports whether the inventory holds at least count units of item.
func (inv Inventory) Has(item string, count int) bool {
	return inv[item] >= count
}

// Collect builds an Inventory from item names, one unit per occurrence.
//
// Example:
//
//	Collect("Key", "Key", "Rifle") // Key: 2, Rifle: 1
func Collect(items ...string) Inventory {
	inv := make(Inventory, len(items))
	for _, item := range items {
		inv[item]++
	}
	return inv
}
