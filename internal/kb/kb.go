// Package kb maintains the agent's knowledge base: a monotonically growing,
// typed fact store over grid cells, with a Mangle-evaluated inference sweep
// that propagates hazard absence from quiet visited cells to their neighbors.
//
// The store is exclusively owned by one agent and accessed from a single
// goroutine; each step runs RecordPercepts -> Infer -> queries in strict
// sequence. Out-of-bounds cells are a caller bug and panic rather than
// clamp.
package kb

import (
	"fmt"

	"github.com/google/mangle/ast"
)

// KnowledgeBase is the per-episode fact store. Create one with New and
// Reset it at the start of every new episode.
type KnowledgeBase struct {
	size      int
	start     Cell
	facts     map[Fact]map[Cell]struct{}
	adjacency []ast.Atom
}

// CellInfo is a read-only snapshot of what the agent knows about one cell,
// shaped for the renderer. PitSuspected/WumpusSuspected mark cells whose
// percepts implicate a hazard in some still-unresolved neighbor.
type CellInfo struct {
	Visited  bool
	Safe     bool
	NoPit    bool
	NoWumpus bool
	Breeze   bool
	Stench   bool

	PitSuspected    bool
	WumpusSuspected bool
}

// New creates a knowledge base for a size x size grid, seeded with the
// start cell's safety facts. Panics if size < 2 or start is out of bounds.
func New(size int, start Cell) *KnowledgeBase {
	if size < 2 {
		panic(fmt.Sprintf("kb: grid size %d too small", size))
	}
	k := &KnowledgeBase{size: size}
	k.adjacency = buildAdjacency(size)
	k.Reset(start)
	return k
}

// Size returns the grid dimension.
func (k *KnowledgeBase) Size() int { return k.size }

// Start returns the episode's start/exit cell.
func (k *KnowledgeBase) Start() Cell { return k.start }

// Reset clears every fact and re-seeds the start cell as visited and safe.
func (k *KnowledgeBase) Reset(start Cell) {
	k.checkBounds(start)
	k.start = start
	k.facts = make(map[Fact]map[Cell]struct{}, numFacts)
	for f := Fact(0); f < numFacts; f++ {
		k.facts[f] = make(map[Cell]struct{})
	}
	k.assert(Visited, start)
	k.assert(NoPit, start)
	k.assert(NoWumpus, start)
	k.assert(SafeConfirmed, start)
}

// RecordPercepts asserts Visited for the cell and the polarity-correct
// breeze/stench facts for the observed percept set, retracting any stale
// opposite-polarity fact. Glitter is recorded without a negation.
// Idempotent for a fixed (percepts, cell) pair.
func (k *KnowledgeBase) RecordPercepts(percepts PerceptSet, cell Cell) {
	k.checkBounds(cell)
	k.assert(Visited, cell)

	if percepts.Has(PerceptBreeze) {
		k.flip(Breeze, cell)
	} else {
		k.flip(NoBreeze, cell)
	}
	if percepts.Has(PerceptStench) {
		k.flip(Stench, cell)
	} else {
		k.flip(NoStench, cell)
	}
	if percepts.Has(PerceptGlitter) {
		k.assert(Glitter, cell)
	}
}

// Infer runs exactly one inference sweep and merges the derived facts into
// the store. It is deliberately one pass per call, not a loop to fixed
// point: callers invoke it after every RecordPercepts so knowledge
// propagates incrementally. Returns the number of newly learned facts;
// a second call with no intervening percepts always returns 0.
func (k *KnowledgeBase) Infer() int {
	noPit, noWumpus, safe := k.sweep()

	learned := 0
	for _, cell := range noPit {
		if k.assert(NoPit, cell) {
			learned++
		}
	}
	for _, cell := range noWumpus {
		if k.assert(NoWumpus, cell) {
			learned++
		}
	}
	for _, cell := range safe {
		if k.assert(SafeConfirmed, cell) {
			learned++
		}
	}
	return learned
}

// Query reports whether the fact is asserted for the cell. Pure lookup.
func (k *KnowledgeBase) Query(f Fact, cell Cell) bool {
	k.checkBounds(cell)
	if f < 0 || f >= numFacts {
		panic(fmt.Sprintf("kb: invalid fact kind %d", f))
	}
	_, ok := k.facts[f][cell]
	return ok
}

// Neighbors returns the cell's grid-adjacent neighbors clipped to bounds,
// in the fixed policy iteration order: +col, +row, -col, -row.
func (k *KnowledgeBase) Neighbors(cell Cell) []Cell {
	k.checkBounds(cell)
	return neighborCells(cell, k.size)
}

// CellInfo returns the renderer snapshot for one cell.
func (k *KnowledgeBase) CellInfo(cell Cell) CellInfo {
	k.checkBounds(cell)
	info := CellInfo{
		Visited:  k.Query(Visited, cell),
		Safe:     k.Query(SafeConfirmed, cell),
		NoPit:    k.Query(NoPit, cell),
		NoWumpus: k.Query(NoWumpus, cell),
		Breeze:   k.Query(Breeze, cell),
		Stench:   k.Query(Stench, cell),
	}
	if info.Breeze && !info.NoPit {
		info.PitSuspected = k.unresolvedNeighbor(cell, NoPit)
	}
	if info.Stench && !info.NoWumpus {
		info.WumpusSuspected = k.unresolvedNeighbor(cell, NoWumpus)
	}
	return info
}

// unresolvedNeighbor reports whether some unvisited neighbor still lacks
// the given hazard-absence fact.
func (k *KnowledgeBase) unresolvedNeighbor(cell Cell, absence Fact) bool {
	for _, n := range k.Neighbors(cell) {
		if !k.Query(Visited, n) && !k.Query(absence, n) {
			return true
		}
	}
	return false
}

// assert adds a fact and reports whether it was new.
func (k *KnowledgeBase) assert(f Fact, cell Cell) bool {
	if _, ok := k.facts[f][cell]; ok {
		return false
	}
	k.facts[f][cell] = struct{}{}
	return true
}

// flip asserts a paired percept fact and retracts its opposite polarity,
// keeping the mutual-exclusion invariant. Monotonic kinds must never pass
// through here: they have no opposite and may not be retracted.
func (k *KnowledgeBase) flip(f Fact, cell Cell) {
	if f.monotonic() {
		panic(fmt.Sprintf("kb: flip would retract monotonic fact %s", f))
	}
	opp := f.opposite()
	if opp < 0 {
		panic(fmt.Sprintf("kb: flip on unpaired fact %s", f))
	}
	delete(k.facts[opp], cell)
	k.facts[f][cell] = struct{}{}
}

func (k *KnowledgeBase) checkBounds(cell Cell) {
	if cell.Row < 0 || cell.Row >= k.size || cell.Col < 0 || cell.Col >= k.size {
		panic(fmt.Sprintf("kb: cell %s out of bounds for %dx%d grid", cell, k.size, k.size))
	}
}

func neighborCells(cell Cell, size int) []Cell {
	candidates := [4]Cell{
		{Row: cell.Row, Col: cell.Col + 1},
		{Row: cell.Row + 1, Col: cell.Col},
		{Row: cell.Row, Col: cell.Col - 1},
		{Row: cell.Row - 1, Col: cell.Col},
	}
	neighbors := make([]Cell, 0, 4)
	for _, n := range candidates {
		if n.Row >= 0 && n.Row < size && n.Col >= 0 && n.Col < size {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}
