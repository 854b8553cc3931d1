package world

import (
	"sort"

	"github.com/roach88/mossgen/internal/logic"
)

// Fingerprint computes the content-addressed identity of the graph shape:
// regions, exits with their rules, locations, events, and the goal event.
// Everything is sorted by name before canonical serialization, so the
// fingerprint is independent of object-creation order. Two runs over the
// same dataset and options always fingerprint identically; reordering the
// rule table does not change it.
func (g *Graph) Fingerprint() (string, error) {
	regions := make([]any, 0, len(g.order))

	names := make([]string, 0, len(g.regions))
	for name := range g.regions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		region := g.regions[name]

		exits := make([]any, 0, len(region.Exits))
		for _, exit := range region.Exits {
			e := map[string]any{"dest": exit.Dest.Name}
			if exit.Rule != nil {
				e["rule"] = exit.Rule.Canonical()
			}
			exits = append(exits, e)
		}
		sort.Slice(exits, func(i, j int) bool {
			a, b := exits[i].(map[string]any), exits[j].(map[string]any)
			if a["dest"] != b["dest"] {
				return a["dest"].(string) < b["dest"].(string)
			}
			return canonicalLess(a["rule"], b["rule"])
		})

		locations := make([]any, 0, len(region.Locations))
		for _, loc := range region.Locations {
			l := map[string]any{
				"name":    loc.Name,
				"id":      loc.ID,
				"spoiler": loc.ShowInSpoiler,
			}
			if loc.LockedItem != "" {
				l["locked"] = loc.LockedItem
			}
			if loc.Rule != nil {
				l["rule"] = loc.Rule.Canonical()
			}
			locations = append(locations, l)
		}
		sort.Slice(locations, func(i, j int) bool {
			a, b := locations[i].(map[string]any), locations[j].(map[string]any)
			return a["name"].(string) < b["name"].(string)
		})

		regions = append(regions, map[string]any{
			"name":      region.Name,
			"exits":     exits,
			"locations": locations,
		})
	}

	return logic.HashCanonical(logic.DomainGraph, map[string]any{
		"root":    g.Root.Name,
		"goal":    g.GoalEvent,
		"regions": regions,
	})
}

// canonicalLess orders optional rule canonical forms: absent first, then
// by canonical JSON bytes.
func canonicalLess(a, b any) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	aj, errA := logic.MarshalCanonical(a)
	bj, errB := logic.MarshalCanonical(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) < string(bj)
}
