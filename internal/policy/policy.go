// Package policy selects the agent's next action from the current
// percepts, pose and knowledge base. The decision procedure is a fixed
// ordered table of guarded rules; the first rule that fires wins. The
// policy is deterministic given (percepts, pose, KB snapshot) and its only
// private state is whether gold is held plus the arrows-remaining slot the
// orchestrator consults for manual shots — the policy itself never decides
// to shoot.
package policy

import "wumpus/internal/kb"

// Policy is the decision engine for one episode. Reset it whenever the
// knowledge base is reset.
type Policy struct {
	exit        kb.Cell
	holdingGold bool
	arrows      int
}

// New creates a policy that exits (climbs out) at the given cell.
func New(exit kb.Cell, arrows int) *Policy {
	return &Policy{exit: exit, arrows: arrows}
}

// Reset clears episode state for a new world.
func (p *Policy) Reset(exit kb.Cell, arrows int) {
	p.exit = exit
	p.holdingGold = false
	p.arrows = arrows
}

// HoldingGold reports whether a Grab has been issued this episode.
func (p *Policy) HoldingGold() bool { return p.holdingGold }

// Arrows returns the arrows remaining for orchestrator-triggered shots.
func (p *Policy) Arrows() int { return p.arrows }

// SpendArrow consumes one arrow, reporting whether one was available.
// Called by the orchestrator when the player shoots manually.
func (p *Policy) SpendArrow() bool {
	if p.arrows <= 0 {
		return false
	}
	p.arrows--
	return true
}

// rule is one guarded entry in the decision table. fire returns the chosen
// action and whether the rule applies.
type rule struct {
	name string
	fire func(p *Policy, percepts kb.PerceptSet, pose Pose, k *kb.KnowledgeBase) (Action, bool)
}

// decisionTable is evaluated in order; at most one rule fires per call.
var decisionTable = []rule{
	{name: "grab-glitter", fire: (*Policy).grabGlitter},
	{name: "climb-out", fire: (*Policy).climbOut},
	{name: "explore-safe", fire: (*Policy).exploreSafe},
	{name: "return-to-exit", fire: (*Policy).returnToExit},
	{name: "risk-fallback", fire: (*Policy).riskFallback},
}

// ChooseAction returns the next action token. It always returns a valid
// action: the final fallback rule cannot decline.
func (p *Policy) ChooseAction(percepts kb.PerceptSet, pose Pose, k *kb.KnowledgeBase) Action {
	for _, r := range decisionTable {
		if action, ok := r.fire(p, percepts, pose, k); ok {
			return action
		}
	}
	// The risk fallback always fires; reaching here is a table bug.
	return TurnLeft
}

// LastRule returns the name of the rule that would fire for the given
// inputs, without mutating policy state. Used by the UI to explain moves.
func (p *Policy) LastRule(percepts kb.PerceptSet, pose Pose, k *kb.KnowledgeBase) string {
	shadow := *p
	for _, r := range decisionTable {
		if _, ok := r.fire(&shadow, percepts, pose, k); ok {
			return r.name
		}
	}
	return ""
}

// grabGlitter: glitter at the current cell wins immediately.
func (p *Policy) grabGlitter(percepts kb.PerceptSet, _ Pose, _ *kb.KnowledgeBase) (Action, bool) {
	if percepts.Has(kb.PerceptGlitter) && !p.holdingGold {
		p.holdingGold = true
		return Grab, true
	}
	return "", false
}

// climbOut: holding gold at the exit cell ends the episode.
func (p *Policy) climbOut(_ kb.PerceptSet, pose Pose, _ *kb.KnowledgeBase) (Action, bool) {
	if p.holdingGold && pose.Cell == p.exit {
		return Climb, true
	}
	return "", false
}

// exploreSafe: head for the first provably safe unvisited neighbor in the
// fixed scan order (+col, +row, -col, -row).
func (p *Policy) exploreSafe(_ kb.PerceptSet, pose Pose, k *kb.KnowledgeBase) (Action, bool) {
	for _, n := range k.Neighbors(pose.Cell) {
		if k.Query(kb.SafeConfirmed, n) && !k.Query(kb.Visited, n) {
			return steer(pose, n), true
		}
	}
	return "", false
}

// returnToExit: with gold in hand and nothing left to explore, backtrack
// one hop through safe visited territory toward the exit. Deliberately
// greedy — no pathfinding — so a neighbor that fails to shrink the
// Manhattan distance can make the agent oscillate; that is the accepted
// historic behavior.
func (p *Policy) returnToExit(_ kb.PerceptSet, pose Pose, k *kb.KnowledgeBase) (Action, bool) {
	if !p.holdingGold || pose.Cell == p.exit {
		return "", false
	}
	best, found := kb.Cell{}, false
	bestDist := 0
	for _, n := range k.Neighbors(pose.Cell) {
		if !k.Query(kb.SafeConfirmed, n) || !k.Query(kb.Visited, n) {
			continue
		}
		d := n.ManhattanDistance(p.exit)
		if !found || d < bestDist {
			best, bestDist, found = n, d, true
		}
	}
	if !found {
		return "", false
	}
	return steer(pose, best), true
}

// riskFallback: no provably safe move exists. Rank every neighbor by how
// much is known about its hazards and move toward the least uncertain one,
// ties broken by scan order. With no neighbors at all, stall on TurnLeft.
func (p *Policy) riskFallback(_ kb.PerceptSet, pose Pose, k *kb.KnowledgeBase) (Action, bool) {
	best, found := kb.Cell{}, false
	bestRisk := 0
	for _, n := range k.Neighbors(pose.Cell) {
		r := riskRank(k, n)
		if !found || r < bestRisk {
			best, bestRisk, found = n, r, true
		}
	}
	if !found {
		return TurnLeft, true
	}
	return steer(pose, best), true
}

// riskRank scores a cell's hazard uncertainty: 0 proven safe, 1 both
// hazards individually ruled out, 2 one ruled out, 3 nothing known. Tiers
// 0 and 1 coincide under the current inference rules; the split is kept
// for fidelity with the four-tier ranking.
func riskRank(k *kb.KnowledgeBase, cell kb.Cell) int {
	if k.Query(kb.SafeConfirmed, cell) {
		return 0
	}
	noPit := k.Query(kb.NoPit, cell)
	noWumpus := k.Query(kb.NoWumpus, cell)
	switch {
	case noPit && noWumpus:
		return 1
	case noPit || noWumpus:
		return 2
	}
	return 3
}

// steer turns or moves toward the target neighbor. A target with no
// direct heading degrades to a left turn, a harmless stall.
func steer(pose Pose, target kb.Cell) Action {
	heading, ok := headingToward(pose.Cell, target)
	if !ok {
		return TurnLeft
	}
	return turnToward(pose.Heading, heading)
}
