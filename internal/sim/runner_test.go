package sim

import (
	"testing"

	"go.uber.org/goleak"

	"wumpus/internal/kb"
	"wumpus/internal/policy"
	"wumpus/internal/world"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fixtureRunner swaps in a hand-built world so the episode is fully
// deterministic regardless of the seed.
func fixtureRunner(t *testing.T, layout world.Layout) *Runner {
	t.Helper()
	w, err := world.New(layout)
	if err != nil {
		t.Fatalf("New(%+v): %v", layout, err)
	}
	r := NewRunner(Options{Size: layout.Size, Start: layout.Start}, 1)
	r.world = w
	r.kb.Reset(layout.Start)
	r.policy.Reset(layout.Start, w.Arrows())
	r.steps = 0
	r.observe()
	return r
}

func cellPtr(row, col int) *kb.Cell {
	return &kb.Cell{Row: row, Col: col}
}

func TestHazardFreeWorldEndsWithGold(t *testing.T) {
	r := fixtureRunner(t, world.Layout{
		Size:  4,
		Start: kb.Cell{Row: 3, Col: 0},
		Gold:  cellPtr(1, 2),
	})

	res := r.RunEpisode()
	if res.Outcome != OutcomeEscaped {
		t.Fatalf("outcome = %q, want %q", res.Outcome, OutcomeEscaped)
	}
	if !res.GoldClaimed {
		t.Errorf("agent escaped without the gold")
	}
	if res.Score <= 0 {
		t.Errorf("score = %d, want positive after a gold escape", res.Score)
	}
	if res.Steps == 0 || res.Steps > 200 {
		t.Errorf("steps = %d, want within (0, 200]", res.Steps)
	}
}

func TestWalledInAgentStalls(t *testing.T) {
	// Breezes on both neighbors of the start cell: no safe frontier ever
	// appears, no gold to trigger the return rule, so the agent churns on
	// the risk fallback until the step budget cuts it off.
	r := fixtureRunner(t, world.Layout{
		Size:  4,
		Start: kb.Cell{Row: 3, Col: 0},
		Pits:  []kb.Cell{{Row: 2, Col: 1}},
		Gold:  cellPtr(0, 3),
	})
	r.opts.MaxSteps = 40

	res := r.RunEpisode()
	if res.Outcome == OutcomeEscaped && res.GoldClaimed {
		// Possible: the fallback may still stumble onto the gold.
		return
	}
	if res.Steps > 40 {
		t.Fatalf("steps = %d, want <= MaxSteps 40", res.Steps)
	}
}

func TestStepSequenceMatchesPolicy(t *testing.T) {
	// Gold one cell east of the start: the quiet start proves (3,1) safe,
	// so the first decision walks onto the gold and the second grabs it.
	r := fixtureRunner(t, world.Layout{
		Size:  4,
		Start: kb.Cell{Row: 3, Col: 0},
		Gold:  cellPtr(3, 1),
	})

	action, _ := r.Step()
	if action != policy.MoveForward {
		t.Fatalf("first action = %q, want %q", action, policy.MoveForward)
	}
	action, res := r.Step()
	if action != policy.Grab {
		t.Fatalf("second action = %q, want %q", action, policy.Grab)
	}
	if res.Percepts.Has(kb.PerceptGlitter) {
		t.Errorf("glitter persists after the grab")
	}

	// Hazard-free cave: the agent explores, backtracks and climbs out.
	out := r.RunEpisode()
	if out.Outcome != OutcomeEscaped {
		t.Fatalf("outcome = %q, want %q", out.Outcome, OutcomeEscaped)
	}
	if !out.GoldClaimed {
		t.Errorf("agent climbed out without the gold")
	}
	if !r.Done() {
		t.Errorf("episode should be over after climbing out")
	}
	if got, _ := r.Step(); got != "" {
		t.Errorf("Step after the end returned %q, want no action", got)
	}
}

func TestManualShootSpendsTheArrow(t *testing.T) {
	r := fixtureRunner(t, world.Layout{
		Size:   4,
		Start:  kb.Cell{Row: 3, Col: 0},
		Wumpus: cellPtr(3, 2),
		Gold:   cellPtr(0, 3),
	})

	res := r.ApplyManual(policy.Shoot)
	if !res.Percepts.Has(kb.PerceptScream) {
		t.Fatalf("shot down the row missed the wumpus: %v", res.Percepts.Names())
	}
	if r.Policy().Arrows() != 0 {
		t.Errorf("arrows = %d, want 0 after shooting", r.Policy().Arrows())
	}
	res = r.ApplyManual(policy.Shoot)
	if res.Percepts.Has(kb.PerceptScream) {
		t.Errorf("second shot without arrows still screamed")
	}
}

func TestResetRollsFreshEpisode(t *testing.T) {
	r := NewRunner(Options{}, 7)
	first := r.EpisodeID()
	r.RunEpisode()

	r.Reset(8)
	if r.EpisodeID() == first {
		t.Errorf("episode id unchanged across Reset")
	}
	if r.Steps() != 0 {
		t.Errorf("steps = %d after Reset, want 0", r.Steps())
	}
	if r.Done() {
		t.Errorf("fresh episode already done")
	}
}
