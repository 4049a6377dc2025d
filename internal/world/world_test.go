package world

import (
	"math/rand"
	"testing"

	"wumpus/internal/kb"
	"wumpus/internal/policy"
)

func cellPtr(r, c int) *kb.Cell {
	return &kb.Cell{Row: r, Col: c}
}

func mustWorld(t *testing.T, layout Layout) *World {
	t.Helper()
	w, err := New(layout)
	if err != nil {
		t.Fatalf("New(%+v) error: %v", layout, err)
	}
	return w
}

func TestRandomPlacementInvariants(t *testing.T) {
	start := kb.Cell{Row: 3, Col: 0}
	for seed := int64(0); seed < 50; seed++ {
		w := NewRandom(4, start, PitChance, 1, rand.New(rand.NewSource(seed)))

		if w.At(start) != 0 {
			t.Fatalf("seed %d: start cell occupied: %v", seed, w.At(start))
		}
		wumpuses, golds := 0, 0
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				occ := w.At(kb.Cell{Row: r, Col: c})
				if occ&Wumpus != 0 {
					wumpuses++
					if occ&Pit != 0 {
						t.Fatalf("seed %d: wumpus in a pit at (%d,%d)", seed, r, c)
					}
				}
				if occ&Gold != 0 {
					golds++
					if occ&Pit != 0 {
						t.Fatalf("seed %d: gold in a pit at (%d,%d)", seed, r, c)
					}
				}
			}
		}
		if wumpuses > 1 || golds > 1 {
			t.Fatalf("seed %d: %d wumpuses, %d golds", seed, wumpuses, golds)
		}
	}
}

func TestPerceptsReflectAdjacency(t *testing.T) {
	w := mustWorld(t, Layout{
		Start:  kb.Cell{Row: 3, Col: 0},
		Pits:   []kb.Cell{{Row: 2, Col: 0}},
		Wumpus: cellPtr(3, 1),
	})

	percepts := w.Percepts()
	if !percepts.Has(kb.PerceptBreeze) {
		t.Error("pit at (2,0) should produce a breeze at the start")
	}
	if !percepts.Has(kb.PerceptStench) {
		t.Error("wumpus at (3,1) should produce a stench at the start")
	}
	if percepts.Has(kb.PerceptGlitter) {
		t.Error("no gold here, no glitter")
	}
}

func TestLayoutValidation(t *testing.T) {
	cases := []struct {
		name   string
		layout Layout
	}{
		{"gold on start", Layout{Start: kb.Cell{Row: 3, Col: 0}, Gold: cellPtr(3, 0)}},
		{"wumpus on start", Layout{Start: kb.Cell{Row: 3, Col: 0}, Wumpus: cellPtr(3, 0)}},
		{"pit on start", Layout{Start: kb.Cell{Row: 3, Col: 0}, Pits: []kb.Cell{{Row: 3, Col: 0}}}},
		{"start out of bounds", Layout{Start: kb.Cell{Row: 4, Col: 0}}},
		{"pit out of bounds", Layout{Start: kb.Cell{Row: 3, Col: 0}, Pits: []kb.Cell{{Row: 0, Col: 4}}}},
		{"degenerate grid", Layout{Size: 1, Start: kb.Cell{Row: 0, Col: 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.layout); err == nil {
				t.Errorf("New(%+v) accepted an invalid layout", tc.layout)
			}
		})
	}
}

func TestGrabAndClimbScoring(t *testing.T) {
	w := mustWorld(t, Layout{
		Start: kb.Cell{Row: 3, Col: 0},
		Gold:  cellPtr(3, 1),
	})

	res := w.Apply(policy.MoveForward) // facing East onto the gold
	if !res.Percepts.Has(kb.PerceptGlitter) {
		t.Fatal("expected glitter after stepping onto the gold")
	}
	w.Apply(policy.Grab)
	if !w.HasGold() {
		t.Fatal("grab did not pick up the gold")
	}
	if got := w.Percepts(); got.Has(kb.PerceptGlitter) {
		t.Error("glitter persists after the gold is taken")
	}

	// Walk back and climb out: two turns, one move, then climb.
	w.Apply(policy.TurnLeft)
	w.Apply(policy.TurnLeft)
	w.Apply(policy.MoveForward)
	w.Apply(policy.Climb)

	if !w.Escaped() {
		t.Fatal("climb at the start cell should end the episode")
	}
	// 5 scored actions at -1 each (Climb is exempt), +1000 for the gold.
	if got, want := w.Score(), GoldReward-5*StepCost; got != want {
		t.Errorf("Score() = %d, want %d", got, want)
	}
}

func TestBumpAtWall(t *testing.T) {
	w := mustWorld(t, Layout{Start: kb.Cell{Row: 3, Col: 0}})

	w.Apply(policy.TurnLeft) // now facing South, the wall
	res := w.Apply(policy.MoveForward)
	if !res.Percepts.Has(kb.PerceptBump) {
		t.Error("expected a bump walking into the wall")
	}
	if w.Pose().Cell != w.Start() {
		t.Errorf("bump moved the agent to %s", w.Pose().Cell)
	}
	// The bump is transient: the next action's percepts omit it.
	res = w.Apply(policy.TurnLeft)
	if res.Percepts.Has(kb.PerceptBump) {
		t.Error("bump percept leaked into the next step")
	}
}

func TestPitDeath(t *testing.T) {
	w := mustWorld(t, Layout{
		Start: kb.Cell{Row: 3, Col: 0},
		Pits:  []kb.Cell{{Row: 3, Col: 1}},
	})

	w.Apply(policy.MoveForward)
	if w.Alive() {
		t.Fatal("walking into a pit should kill the agent")
	}
	if got, want := w.Score(), -DeathCost-StepCost; got != want {
		t.Errorf("Score() = %d, want %d", got, want)
	}
	// Actions after death are inert.
	if res := w.Apply(policy.MoveForward); res.Message != "Game over" {
		t.Errorf("post-death action produced %q", res.Message)
	}
}

func TestShootKillsWumpusDownrange(t *testing.T) {
	w := mustWorld(t, Layout{
		Start:  kb.Cell{Row: 3, Col: 0},
		Wumpus: cellPtr(3, 3),
	})

	res := w.Apply(policy.Shoot) // facing East, wumpus three cells out
	if !res.Percepts.Has(kb.PerceptScream) {
		t.Fatal("arrow down the row should kill the wumpus and scream")
	}
	if w.WumpusAlive() {
		t.Error("wumpus still alive after the scream")
	}
	if got, want := w.Score(), -ArrowCost-StepCost; got != want {
		t.Errorf("Score() = %d, want %d", got, want)
	}
	if w.Arrows() != 0 {
		t.Errorf("Arrows() = %d, want 0", w.Arrows())
	}

	// A dead wumpus stops producing stench.
	w2 := mustWorld(t, Layout{
		Start:  kb.Cell{Row: 3, Col: 0},
		Wumpus: cellPtr(3, 1),
	})
	w2.Apply(policy.Shoot)
	if w2.Percepts().Has(kb.PerceptStench) {
		t.Error("stench persists after the wumpus died")
	}
}

func TestShootWithoutArrows(t *testing.T) {
	w := mustWorld(t, Layout{
		Start:  kb.Cell{Row: 3, Col: 0},
		Wumpus: cellPtr(3, 2),
	})
	w.Apply(policy.Shoot) // first arrow kills the wumpus
	res := w.Apply(policy.Shoot)
	if res.Message != "No arrows left, shot missed." {
		t.Errorf("second shot message = %q", res.Message)
	}
}

func TestClimbAwayFromStart(t *testing.T) {
	w := mustWorld(t, Layout{Start: kb.Cell{Row: 3, Col: 0}})
	w.Apply(policy.MoveForward)
	res := w.Apply(policy.Climb)
	if res.Message != "Can't climb here." {
		t.Errorf("climb away from start produced %q", res.Message)
	}
	if w.Escaped() || !w.Alive() {
		t.Error("failed climb must not end the episode")
	}
}
