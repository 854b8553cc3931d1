// Package catalog holds the item and location catalogs consumed by the
// rule compiler and graph builder.
//
// Catalogs are constructed once per generation run from extracted game data
// and are read-only afterwards. Id assignment is dense: items and locations
// each get sequential ids starting at BaseID, in catalog order, so the
// same dataset always produces the same ids.
package catalog

import "fmt"

// BaseID is the first id assigned to items and to locations.
// Item ids and location ids are separate namespaces that share this base.
const BaseID = 144000000

// Classification describes how the external filler treats an item.
type Classification string

const (
	// Progression items can gate access rules.
	Progression Classification = "progression"
	// Useful items are prioritized but never gate logic.
	Useful Classification = "useful"
	// Filler items pad the pool.
	Filler Classification = "filler"
)

// ValidClassifications defines allowed classification values.
var ValidClassifications = map[Classification]bool{
	Progression: true,
	Useful:      true,
	Filler:      true,
}

// Item is one catalog entry: a placeable item with a pool count.
type Item struct {
	Name  string
	Class Classification
	Count int // instances in the item pool
}

// Catalog is the read-only item/location catalog for a generation run.
type Catalog struct {
	items       []Item
	itemIDs     map[string]int
	locations   []string
	locationIDs map[string]int
}

// New builds a catalog from ordered item and location lists.
// Returns an error on duplicate names, invalid classifications, or
// non-positive pool counts.
func New(items []Item, locations []string) (*Catalog, error) {
	c := &Catalog{
		items:       make([]Item, len(items)),
		itemIDs:     make(map[string]int, len(items)),
		locations:   make([]string, len(locations)),
		locationIDs: make(map[string]int, len(locations)),
	}
	copy(c.items, items)
	copy(c.locations, locations)

	for i, item := range c.items {
		if item.Name == "" {
			return nil, fmt.Errorf("item[%d]: name is required", i)
		}
		if _, dup := c.itemIDs[item.Name]; dup {
			return nil, fmt.Errorf("duplicate item %q", item.Name)
		}
		if !ValidClassifications[item.Class] {
			return nil, fmt.Errorf("item %q: unknown classification %q", item.Name, item.Class)
		}
		if item.Count < 1 {
			return nil, fmt.Errorf("item %q: pool count must be >= 1, got %d", item.Name, item.Count)
		}
		c.itemIDs[item.Name] = BaseID + i
	}

	for i, loc := range c.locations {
		if loc == "" {
			return nil, fmt.Errorf("location[%d]: name is required", i)
		}
		if _, dup := c.locationIDs[loc]; dup {
			return nil, fmt.Errorf("duplicate location %q", loc)
		}
		c.locationIDs[loc] = BaseID + i
	}

	return c, nil
}

// HasItem reports whether name is a catalog item.
func (c *Catalog) HasItem(name string) bool {
	_, ok := c.itemIDs[name]
	return ok
}

// ItemID returns the assigned id for an item.
func (c *Catalog) ItemID(name string) (int, bool) {
	id, ok := c.itemIDs[name]
	return id, ok
}

// Item returns the catalog entry for name.
func (c *Catalog) Item(name string) (Item, bool) {
	for _, item := range c.items {
		if item.Name == name {
			return item, true
		}
	}
	return Item{}, false
}

// Items returns the ordered item list. The returned slice is a copy.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// HasLocation reports whether name is a catalog location.
func (c *Catalog) HasLocation(name string) bool {
	_, ok := c.locationIDs[name]
	return ok
}

// LocationID returns the assigned id for a location.
func (c *Catalog) LocationID(name string) (int, bool) {
	id, ok := c.locationIDs[name]
	return id, ok
}

// Locations returns the ordered location list. The returned slice is a copy.
func (c *Catalog) Locations() []string {
	out := make([]string, len(c.locations))
	copy(out, c.locations)
	return out
}

// Pool expands the catalog into the flat item pool: each item appears once
// per pool count, in catalog order.
func (c *Catalog) Pool() []string {
	var pool []string
	for _, item := range c.items {
		for i := 0; i < item.Count; i++ {
			pool = append(pool, item.Name)
		}
	}
	return pool
}
