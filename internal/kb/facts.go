package kb

// Fact is one of the predicate kinds the knowledge base tracks per cell.
// Visited, SafeConfirmed, NoPit and NoWumpus are monotonic: once asserted
// for a cell they are never retracted. The percept kinds come in
// positive/negative pairs and at most one polarity holds per cell.
type Fact int

const (
	Visited Fact = iota
	SafeConfirmed
	NoPit
	NoWumpus
	Breeze
	NoBreeze
	Stench
	NoStench
	Glitter
	numFacts // sentinel, keep last
)

var factNames = [numFacts]string{
	Visited:       "visited",
	SafeConfirmed: "safe",
	NoPit:         "no_pit",
	NoWumpus:      "no_wumpus",
	Breeze:        "breeze",
	NoBreeze:      "no_breeze",
	Stench:        "stench",
	NoStench:      "no_stench",
	Glitter:       "glitter",
}

func (f Fact) String() string {
	if f < 0 || f >= numFacts {
		return "unknown"
	}
	return factNames[f]
}

// opposite returns the fact of the other polarity for paired percept
// kinds, or -1 for kinds with no negation.
func (f Fact) opposite() Fact {
	switch f {
	case Breeze:
		return NoBreeze
	case NoBreeze:
		return Breeze
	case Stench:
		return NoStench
	case NoStench:
		return Stench
	}
	return -1
}

// monotonic reports whether the fact may never be retracted once asserted.
func (f Fact) monotonic() bool {
	switch f {
	case Visited, SafeConfirmed, NoPit, NoWumpus, Glitter:
		return true
	}
	return false
}

// Percept is a sensory signal reported to the agent at its current cell.
// Only Breeze, Stench and Glitter feed the knowledge base; Bump and
// Scream are informational to the orchestrator.
type Percept string

const (
	PerceptBreeze  Percept = "Breeze"
	PerceptStench  Percept = "Stench"
	PerceptGlitter Percept = "Glitter"
	PerceptBump    Percept = "Bump"
	PerceptScream  Percept = "Scream"
)

// PerceptSet is the set of percepts observed in a single step.
type PerceptSet map[Percept]struct{}

// Percepts builds a set from the given percepts.
func Percepts(ps ...Percept) PerceptSet {
	set := make(PerceptSet, len(ps))
	for _, p := range ps {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether the percept is present in the set.
func (s PerceptSet) Has(p Percept) bool {
	_, ok := s[p]
	return ok
}

// Names returns the sorted percept names, for logs and the UI.
func (s PerceptSet) Names() []string {
	if len(s) == 0 {
		return nil
	}
	names := make([]string, 0, len(s))
	for _, p := range []Percept{PerceptBreeze, PerceptStench, PerceptGlitter, PerceptBump, PerceptScream} {
		if s.Has(p) {
			names = append(names, string(p))
		}
	}
	return names
}
