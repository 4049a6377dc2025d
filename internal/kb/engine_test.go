package kb

import "testing"

func TestEmbeddedRulesCompile(t *testing.T) {
	program, syms := compiledProgram()
	if program == nil {
		t.Fatal("compiledProgram() returned nil program")
	}
	for _, pred := range []string{"visited", "no_breeze", "no_stench", "adjacent", "no_pit", "no_wumpus", "safe"} {
		if _, ok := syms[pred]; !ok {
			t.Errorf("predicate %q missing from compiled program", pred)
		}
	}
}

func TestAdjacencyRelationShape(t *testing.T) {
	atoms := buildAdjacency(4)
	// 4 corners x2 + 8 edges x3 + 4 interior x4 = 48 ordered pairs.
	if len(atoms) != 48 {
		t.Errorf("buildAdjacency(4) produced %d atoms, want 48", len(atoms))
	}
	for _, atom := range atoms {
		if len(atom.Args) != 4 {
			t.Fatalf("adjacent atom has %d args, want 4: %v", len(atom.Args), atom)
		}
	}
}

func TestSweepDerivesNothingFromBlankStore(t *testing.T) {
	k := New(4, Cell{Row: 3, Col: 0})
	// Start cell is seeded safe but has no recorded percepts yet, so the
	// sweep can only re-derive what is already known.
	noPit, noWumpus, safe := k.sweep()
	for _, cells := range [][]Cell{noPit, noWumpus, safe} {
		for _, cell := range cells {
			if cell != k.Start() {
				t.Errorf("sweep derived %s without any percepts", cell)
			}
		}
	}
}
