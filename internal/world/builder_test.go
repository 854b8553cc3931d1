package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mossgen/internal/catalog"
	"github.com/roach88/mossgen/internal/logic"
)

func testContext(t *testing.T, locations []string, events []string, rules []RuleEntry) *Context {
	t.Helper()
	cat, err := catalog.New([]catalog.Item{
		{Name: "Grappling_Hook", Class: catalog.Progression, Count: 3},
		{Name: "Rifle", Class: catalog.Progression, Count: 1},
		{Name: "Key", Class: catalog.Progression, Count: 3},
	}, locations)
	require.NoError(t, err)
	return &Context{
		Catalog: cat,
		Events:  events,
		Rules:   rules,
	}
}

func TestBuildRootConnectsStart(t *testing.T) {
	ctx := testContext(t, nil, nil, []RuleEntry{
		{Parent: DefaultStart, Target: "cliff_top", Rule: ""},
	})

	g, err := Build(ctx)
	require.NoError(t, err)

	require.Equal(t, DefaultRoot, g.Root.Name)
	require.Len(t, g.Root.Exits, 1)
	assert.Equal(t, DefaultStart, g.Root.Exits[0].Dest.Name)
	assert.Nil(t, g.Root.Exits[0].Rule, "origin edge is unconditional")
}

func TestElisionSingleParent(t *testing.T) {
	ctx := testContext(t,
		[]string{"loc_cliff[100401]"},
		nil,
		[]RuleEntry{
			{Parent: DefaultStart, Target: "loc_cliff[100401]", Rule: "Grappling_Hook"},
		})

	g, err := Build(ctx)
	require.NoError(t, err)

	// No standalone region for the elided spot.
	_, ok := g.Region("loc_cliff[100401]")
	assert.False(t, ok, "single-parent target must not get its own region")

	require.Len(t, g.Locations, 1)
	loc := g.Locations[0]
	assert.Equal(t, DefaultStart, loc.Region.Name, "location collapses into its parent's region")

	// The rule gates the location itself, not a region edge.
	require.NotNil(t, loc.Rule)
	assert.Equal(t, logic.HasItem{Item: "Grappling_Hook", Count: 1}, loc.Rule)

	start, ok := g.Region(DefaultStart)
	require.True(t, ok)
	assert.Empty(t, start.Exits, "no edge is created for an elided target")
}

func TestProxyRegionMultiParent(t *testing.T) {
	ctx := testContext(t,
		[]string{"loc_cave[100402]"},
		nil,
		[]RuleEntry{
			{Parent: DefaultStart, Target: "upper_path", Rule: ""},
			{Parent: DefaultStart, Target: "loc_cave[100402]", Rule: "Rifle"},
			{Parent: "upper_path", Target: "loc_cave[100402]", Rule: "Grappling_Hook{2}"},
		})

	g, err := Build(ctx)
	require.NoError(t, err)

	proxy, ok := g.Region("loc_cave[100402]")
	require.True(t, ok, "multi-parent target needs a dedicated proxy region")

	require.Len(t, g.Locations, 1)
	loc := g.Locations[0]
	assert.Same(t, proxy, loc.Region)
	assert.Nil(t, loc.Rule, "rules ride the edges when the target is dedicated")

	start, _ := g.Region(DefaultStart)
	upper, _ := g.Region("upper_path")

	var startEdge, upperEdge *Exit
	for _, e := range start.Exits {
		if e.Dest == proxy {
			startEdge = e
		}
	}
	for _, e := range upper.Exits {
		if e.Dest == proxy {
			upperEdge = e
		}
	}
	require.NotNil(t, startEdge, "first parent gains an edge into the proxy")
	require.NotNil(t, upperEdge, "second parent gains an edge into the proxy")
	assert.Equal(t, logic.HasItem{Item: "Rifle", Count: 1}, startEdge.Rule)
	assert.Equal(t, logic.HasItem{Item: "Grappling_Hook", Count: 2}, upperEdge.Rule)
}

func TestTransitiveElision(t *testing.T) {
	// loc_b has one parent (the start region), loc_c has one parent
	// (loc_b). Both collapse into the start region.
	ctx := testContext(t,
		[]string{"loc_b[100410]", "loc_c[100411]"},
		nil,
		[]RuleEntry{
			{Parent: DefaultStart, Target: "loc_b[100410]", Rule: "Key"},
			{Parent: "loc_b[100410]", Target: "loc_c[100411]", Rule: "Key{2}"},
		})

	g, err := Build(ctx)
	require.NoError(t, err)

	_, ok := g.Region("loc_b[100410]")
	assert.False(t, ok)
	_, ok = g.Region("loc_c[100411]")
	assert.False(t, ok)

	require.Len(t, g.Locations, 2)
	for _, loc := range g.Locations {
		assert.Equal(t, DefaultStart, loc.Region.Name, "%s must resolve transitively to the start region", loc.Name)
	}
}

func TestThirdSightingIsNoOp(t *testing.T) {
	ctx := testContext(t,
		[]string{"loc_hub[100420]"},
		nil,
		[]RuleEntry{
			{Parent: DefaultStart, Target: "east_way", Rule: ""},
			{Parent: DefaultStart, Target: "west_way", Rule: ""},
			{Parent: "east_way", Target: "loc_hub[100420]", Rule: ""},
			{Parent: "west_way", Target: "loc_hub[100420]", Rule: "Rifle"},
			{Parent: DefaultStart, Target: "loc_hub[100420]", Rule: "Key"},
		})

	g, err := Build(ctx)
	require.NoError(t, err, "dedication is one-way and idempotent past the second sighting")

	proxy, ok := g.Region("loc_hub[100420]")
	require.True(t, ok)

	incoming := 0
	for _, region := range g.Regions() {
		for _, e := range region.Exits {
			if e.Dest == proxy {
				incoming++
			}
		}
	}
	assert.Equal(t, 3, incoming, "every parent keeps its edge into the proxy")
}

func TestDuplicateRuleKeyRejected(t *testing.T) {
	ctx := testContext(t, nil, nil, []RuleEntry{
		{Parent: DefaultStart, Target: "east_way", Rule: ""},
		{Parent: DefaultStart, Target: "east_way", Rule: "Rifle"},
	})

	_, err := Build(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate rule key")
}

func TestUnreachableLocationRejected(t *testing.T) {
	ctx := testContext(t,
		[]string{"loc_lost[100430]"},
		nil,
		[]RuleEntry{
			{Parent: DefaultStart, Target: "east_way", Rule: ""},
		})

	_, err := Build(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no incoming rule key")
}

func TestUnreachableEventRejected(t *testing.T) {
	ctx := testContext(t, nil,
		[]string{"e_goal_e"},
		[]RuleEntry{
			{Parent: DefaultStart, Target: "east_way", Rule: ""},
		})

	_, err := Build(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `event "e_goal_e"`)
}

func TestEventMaterialization(t *testing.T) {
	ctx := testContext(t, nil,
		[]string{"e_maya_fight"},
		[]RuleEntry{
			{Parent: DefaultStart, Target: "e_maya_fight", Rule: "Rifle + Key"},
		})

	g, err := Build(ctx)
	require.NoError(t, err)

	require.Len(t, g.Events, 1)
	ev := g.Events[0]
	assert.True(t, ev.IsEvent())
	assert.Equal(t, NoID, ev.ID)
	assert.Equal(t, "e_maya_fight", ev.LockedItem, "locked marker item equals the event's own name")
	assert.False(t, ev.ShowInSpoiler, "events are hidden from spoiler output")
	assert.Equal(t, DefaultStart, ev.Region.Name, "single-parent event elides into its parent")

	// The pending rule attaches to the event location.
	require.NotNil(t, ev.Rule)
	assert.Equal(t,
		logic.And{
			Left:  logic.HasItem{Item: "Rifle", Count: 1},
			Right: logic.HasItem{Item: "Key", Count: 1},
		}, ev.Rule)

	// Owning region lists the event exactly once.
	count := 0
	for _, loc := range ev.Region.Locations {
		if loc == ev {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestEventWithProxyRegion(t *testing.T) {
	ctx := testContext(t, nil,
		[]string{"e_boss_down"},
		[]RuleEntry{
			{Parent: DefaultStart, Target: "arena", Rule: ""},
			{Parent: DefaultStart, Target: "e_boss_down", Rule: "Rifle"},
			{Parent: "arena", Target: "e_boss_down", Rule: "Key"},
		})

	g, err := Build(ctx)
	require.NoError(t, err)

	proxy, ok := g.Region("e_boss_down")
	require.True(t, ok, "multi-parent event gets a proxy region")
	require.Len(t, g.Events, 1)
	assert.Same(t, proxy, g.Events[0].Region)
	assert.Nil(t, g.Events[0].Rule)
}

func TestElisionCycleRejected(t *testing.T) {
	ctx := testContext(t,
		[]string{"loc_x[100440]", "loc_y[100441]"},
		nil,
		[]RuleEntry{
			{Parent: "loc_y[100441]", Target: "loc_x[100440]", Rule: ""},
			{Parent: "loc_x[100440]", Target: "loc_y[100441]", Rule: ""},
		})

	_, err := Build(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "elision cycle")
}

func TestStrictModeFailsBuildOnBadRule(t *testing.T) {
	rules := []RuleEntry{
		{Parent: DefaultStart, Target: "east_way", Rule: "Mystery_Widget"},
	}

	lenient := testContext(t, nil, nil, rules)
	g, err := Build(lenient)
	require.NoError(t, err, "lenient builds log and continue")
	east, ok := g.Region("east_way")
	require.True(t, ok)
	_ = east

	strict := testContext(t, nil, nil, rules)
	strict.Strict = true
	_, err = Build(strict)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mystery_Widget")
}

func TestBuildCountsDiagnostics(t *testing.T) {
	ctx := testContext(t, nil, nil, []RuleEntry{
		{Parent: DefaultStart, Target: "east_way", Rule: "Rifle + Mystery_Widget"},
		{Parent: DefaultStart, Target: "west_way", Rule: "Key | Excalibur"},
	})

	g, err := Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Diagnostics, "each unknown token counts once")
}

func TestBuildCleanRulesZeroDiagnostics(t *testing.T) {
	ctx := testContext(t, nil, nil, []RuleEntry{
		{Parent: DefaultStart, Target: "east_way", Rule: "Rifle + Key{2}"},
	})

	g, err := Build(ctx)
	require.NoError(t, err)
	assert.Zero(t, g.Diagnostics)
}

func TestFingerprintIndependentOfRuleOrder(t *testing.T) {
	locations := []string{"loc_cave[100402]"}
	rules := []RuleEntry{
		{Parent: DefaultStart, Target: "upper_path", Rule: ""},
		{Parent: DefaultStart, Target: "loc_cave[100402]", Rule: "Rifle"},
		{Parent: "upper_path", Target: "loc_cave[100402]", Rule: "Grappling_Hook{2}"},
	}
	reversed := []RuleEntry{rules[2], rules[1], rules[0]}

	g1, err := Build(testContext(t, locations, nil, rules))
	require.NoError(t, err)
	g2, err := Build(testContext(t, locations, nil, reversed))
	require.NoError(t, err)

	f1, err := g1.Fingerprint()
	require.NoError(t, err)
	f2, err := g2.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, f1, f2, "classification fully determines topology before creation")
}

func TestFingerprintSensitiveToRules(t *testing.T) {
	base := testContext(t, nil, nil, []RuleEntry{
		{Parent: DefaultStart, Target: "east_way", Rule: "Rifle"},
	})
	changed := testContext(t, nil, nil, []RuleEntry{
		{Parent: DefaultStart, Target: "east_way", Rule: "Rifle + Key"},
	})

	g1, err := Build(base)
	require.NoError(t, err)
	g2, err := Build(changed)
	require.NoError(t, err)

	f1, err := g1.Fingerprint()
	require.NoError(t, err)
	f2, err := g2.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, f1, f2)
}

func TestDumpRendersGraph(t *testing.T) {
	ctx := testContext(t,
		[]string{"loc_cliff[100401]"},
		[]string{"e_goal_e"},
		[]RuleEntry{
			{Parent: DefaultStart, Target: "loc_cliff[100401]", Rule: "Grappling_Hook"},
			{Parent: DefaultStart, Target: "e_goal_e", Rule: ""},
		})

	g, err := Build(ctx)
	require.NoError(t, err)

	dump := g.Dump()
	assert.Contains(t, dump, "root: Menu")
	assert.Contains(t, dump, "goal: e_goal_e")
	assert.Contains(t, dump, "-> rm_start_0[100390]")
	assert.Contains(t, dump, "location: loc_cliff[100401]")
	assert.Contains(t, dump, "rule: Grappling_Hook")
	assert.Contains(t, dump, "event: e_goal_e  locked=e_goal_e")

	// Dump is deterministic for a fixed context.
	g2, err := Build(testContext(t,
		[]string{"loc_cliff[100401]"},
		[]string{"e_goal_e"},
		ctx.Rules))
	require.NoError(t, err)
	assert.Equal(t, dump, g2.Dump())
}
