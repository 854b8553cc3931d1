package world

import (
	"fmt"
	"strings"
)

// Dump renders the graph as deterministic text, suitable for golden-file
// comparison and CLI inspection. Regions appear in creation order; exits
// and locations in the order they were attached. Because creation order
// follows the ordered rule table, the same dataset always dumps
// identically.
func (g *Graph) Dump() string {
	var b strings.Builder

	fmt.Fprintf(&b, "root: %s\n", g.Root.Name)
	fmt.Fprintf(&b, "goal: %s\n", g.GoalEvent)

	for _, region := range g.order {
		fmt.Fprintf(&b, "region: %s\n", region.Name)
		for _, exit := range region.Exits {
			if exit.Rule != nil {
				fmt.Fprintf(&b, "  -> %s  rule: %s\n", exit.Dest.Name, exit.Rule)
			} else {
				fmt.Fprintf(&b, "  -> %s\n", exit.Dest.Name)
			}
		}
		for _, loc := range region.Locations {
			b.WriteString("  ")
			if loc.IsEvent() {
				fmt.Fprintf(&b, "event: %s  locked=%s", loc.Name, loc.LockedItem)
			} else {
				fmt.Fprintf(&b, "location: %s  id=%d", loc.Name, loc.ID)
			}
			if loc.Rule != nil {
				fmt.Fprintf(&b, "  rule: %s", loc.Rule)
			}
			b.WriteByte('\n')
		}
	}

	return b.String()
}
