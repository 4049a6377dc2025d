// Package world simulates the hidden grid: hazard placement, percept
// generation, action resolution and scoring. The agent core never reads
// the hidden state directly; it sees only the percept sets and the
// action results the orchestrator relays.
package world

import (
	"fmt"
	"math/rand"

	"wumpus/internal/kb"
	"wumpus/internal/policy"
)

// Occupant marks what a hidden cell contains.
type Occupant int

const (
	Pit Occupant = 1 << iota
	Wumpus
	Gold
)

// Scoring constants, matching the classic rules: every action but Climb
// costs a point, dying or escaping with the gold swings a thousand, and
// an arrow costs ten whether or not it flies true.
const (
	StepCost    = 1
	DeathCost   = 1000
	GoldReward  = 1000
	ArrowCost   = 10
	DefaultSize = 4
	PitChance   = 0.2
)

// Layout pins the hidden contents of a world, for tests and replays.
type Layout struct {
	Size   int
	Start  kb.Cell
	Pits   []kb.Cell
	Wumpus *kb.Cell
	Gold   *kb.Cell
	Arrows int
}

// Result reports what an action did.
type Result struct {
	Percepts kb.PerceptSet
	Message  string
}

// World holds the full hidden state of one episode.
type World struct {
	size        int
	start       kb.Cell
	grid        map[kb.Cell]Occupant
	pose        policy.Pose
	score       int
	arrows      int
	alive       bool
	escaped     bool
	hasGold     bool
	wumpusAlive bool
	scream      bool
	bumped      bool
}

// NewRandom rolls a fresh world: each non-start cell has a PitChance pit,
// then the wumpus and the gold land on distinct remaining free cells.
func NewRandom(size int, start kb.Cell, pitChance float64, arrows int, rng *rand.Rand) *World {
	grid := make(map[kb.Cell]Occupant)
	var free []kb.Cell
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			cell := kb.Cell{Row: r, Col: c}
			if cell == start {
				continue
			}
			if rng.Float64() < pitChance {
				grid[cell] |= Pit
			} else {
				free = append(free, cell)
			}
		}
	}
	if len(free) > 0 {
		i := rng.Intn(len(free))
		grid[free[i]] |= Wumpus
		free = append(free[:i], free[i+1:]...)
	}
	if len(free) > 0 {
		grid[free[rng.Intn(len(free))]] |= Gold
	}
	return newWorld(size, start, grid, arrows)
}

// New builds a world from an explicit layout.
func New(layout Layout) (*World, error) {
	size := layout.Size
	if size == 0 {
		size = DefaultSize
	}
	if size < 2 {
		return nil, fmt.Errorf("world: grid size %d too small", size)
	}
	inBounds := func(c kb.Cell) bool {
		return c.Row >= 0 && c.Row < size && c.Col >= 0 && c.Col < size
	}
	if !inBounds(layout.Start) {
		return nil, fmt.Errorf("world: start %s out of bounds", layout.Start)
	}
	grid := make(map[kb.Cell]Occupant)
	for _, p := range layout.Pits {
		if !inBounds(p) {
			return nil, fmt.Errorf("world: pit %s out of bounds", p)
		}
		if p == layout.Start {
			return nil, fmt.Errorf("world: pit on the start cell")
		}
		grid[p] |= Pit
	}
	if layout.Wumpus != nil {
		if !inBounds(*layout.Wumpus) || *layout.Wumpus == layout.Start {
			return nil, fmt.Errorf("world: bad wumpus cell %s", *layout.Wumpus)
		}
		grid[*layout.Wumpus] |= Wumpus
	}
	if layout.Gold != nil {
		if !inBounds(*layout.Gold) || *layout.Gold == layout.Start {
			return nil, fmt.Errorf("world: bad gold cell %s", *layout.Gold)
		}
		grid[*layout.Gold] |= Gold
	}
	arrows := layout.Arrows
	if arrows == 0 {
		arrows = 1
	}
	return newWorld(size, layout.Start, grid, arrows), nil
}

func newWorld(size int, start kb.Cell, grid map[kb.Cell]Occupant, arrows int) *World {
	return &World{
		size:        size,
		start:       start,
		grid:        grid,
		pose:        policy.Pose{Cell: start, Heading: policy.East},
		arrows:      arrows,
		alive:       true,
		wumpusAlive: true,
	}
}

// Accessors for the orchestrator and renderer. The agent core must not
// consult these.

func (w *World) Size() int         { return w.size }
func (w *World) Start() kb.Cell    { return w.start }
func (w *World) Pose() policy.Pose { return w.pose }
func (w *World) Score() int        { return w.score }
func (w *World) Arrows() int       { return w.arrows }
func (w *World) Alive() bool       { return w.alive }
func (w *World) Escaped() bool     { return w.escaped }
func (w *World) HasGold() bool     { return w.hasGold }
func (w *World) WumpusAlive() bool { return w.wumpusAlive }
func (w *World) At(c kb.Cell) Occupant {
	return w.grid[c]
}

// Percepts returns the sensory signals at the agent's current cell:
// Glitter on unclaimed gold, Breeze next to a pit, Stench next to a live
// wumpus.
func (w *World) Percepts() kb.PerceptSet {
	return w.perceptsAt(w.pose.Cell)
}

func (w *World) perceptsAt(cell kb.Cell) kb.PerceptSet {
	percepts := kb.Percepts()
	if w.grid[cell]&Gold != 0 && !w.hasGold {
		percepts[kb.PerceptGlitter] = struct{}{}
	}
	for _, n := range w.neighbors(cell) {
		if w.grid[n]&Pit != 0 {
			percepts[kb.PerceptBreeze] = struct{}{}
		}
		if w.grid[n]&Wumpus != 0 && w.wumpusAlive {
			percepts[kb.PerceptStench] = struct{}{}
		}
	}
	return percepts
}

// Apply resolves one action against the hidden state and returns the new
// percepts plus a human-readable account. Applying actions to a finished
// episode is a no-op.
func (w *World) Apply(action policy.Action) Result {
	if !w.alive {
		return Result{Percepts: kb.Percepts(), Message: "Game over"}
	}

	w.scream = false
	message := fmt.Sprintf("Agent performed: %s", action)

	switch action {
	case policy.Shoot:
		message = w.shoot()
	case policy.Climb:
		message = w.climb()
	case policy.Grab:
		message = w.grab()
	case policy.MoveForward:
		message = w.moveForward()
	case policy.TurnLeft:
		w.pose.Heading = (w.pose.Heading + 1) % 4
	case policy.TurnRight:
		w.pose.Heading = (w.pose.Heading + 3) % 4
	default:
		return Result{Percepts: w.Percepts(), Message: fmt.Sprintf("Unknown action: %s", action)}
	}

	if action != policy.Climb {
		w.score -= StepCost
	}

	percepts := w.Percepts()
	if w.bumped {
		percepts[kb.PerceptBump] = struct{}{}
		w.bumped = false
	}
	if w.scream {
		percepts[kb.PerceptScream] = struct{}{}
	}
	return Result{Percepts: percepts, Message: message}
}

func (w *World) shoot() string {
	if w.arrows <= 0 {
		return "No arrows left, shot missed."
	}
	w.score -= ArrowCost
	w.arrows--

	dr, dc := w.pose.Heading.Delta()
	cell := w.pose.Cell
	for i := 0; i < w.size; i++ {
		cell = kb.Cell{Row: cell.Row + dr, Col: cell.Col + dc}
		if cell.Row < 0 || cell.Row >= w.size || cell.Col < 0 || cell.Col >= w.size {
			break
		}
		if w.grid[cell]&Wumpus != 0 && w.wumpusAlive {
			w.grid[cell] &^= Wumpus
			w.wumpusAlive = false
			w.scream = true
			return "Killed Wumpus! (Scream)"
		}
	}
	return "Shot missed."
}

func (w *World) climb() string {
	if w.pose.Cell != w.start {
		return "Can't climb here."
	}
	if w.hasGold {
		w.score += GoldReward
	}
	w.alive = false
	w.escaped = true
	return fmt.Sprintf("Climbed out! Score: %d", w.score)
}

func (w *World) grab() string {
	if w.grid[w.pose.Cell]&Gold != 0 && !w.hasGold {
		w.grid[w.pose.Cell] &^= Gold
		w.hasGold = true
		return "Grabbed Gold"
	}
	return "Nothing to Grab."
}

func (w *World) moveForward() string {
	dr, dc := w.pose.Heading.Delta()
	next := kb.Cell{Row: w.pose.Cell.Row + dr, Col: w.pose.Cell.Col + dc}
	if next.Row < 0 || next.Row >= w.size || next.Col < 0 || next.Col >= w.size {
		w.bumped = true
		return "Bumped into wall."
	}
	w.pose.Cell = next
	switch {
	case w.grid[next]&Pit != 0:
		w.alive = false
		w.score -= DeathCost
		return "Fell into Pit! (Death)"
	case w.grid[next]&Wumpus != 0 && w.wumpusAlive:
		w.alive = false
		w.score -= DeathCost
		return "Eaten by Wumpus! (Death)"
	}
	return fmt.Sprintf("Agent performed: %s", policy.MoveForward)
}

func (w *World) neighbors(cell kb.Cell) []kb.Cell {
	candidates := [4]kb.Cell{
		{Row: cell.Row, Col: cell.Col + 1},
		{Row: cell.Row + 1, Col: cell.Col},
		{Row: cell.Row, Col: cell.Col - 1},
		{Row: cell.Row - 1, Col: cell.Col},
	}
	out := make([]kb.Cell, 0, 4)
	for _, n := range candidates {
		if n.Row >= 0 && n.Row < w.size && n.Col >= 0 && n.Col < w.size {
			out = append(out, n)
		}
	}
	return out
}
