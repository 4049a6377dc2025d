package policy

import "wumpus/internal/kb"

// Action is one of the tokens the policy hands to the world simulator.
type Action string

const (
	Grab        Action = "Grab"
	Climb       Action = "Climb"
	MoveForward Action = "MoveForward"
	TurnLeft    Action = "TurnLeft"
	TurnRight   Action = "TurnRight"
	Shoot       Action = "Shoot"
)

// Heading is the agent's facing direction. Values follow the original
// rotation order East -> South -> West -> North; TurnLeft adds 1 mod 4.
type Heading int

const (
	East Heading = iota
	South
	West
	North
)

var headingNames = [4]string{"East", "South", "West", "North"}

func (h Heading) String() string {
	if h < 0 || h > 3 {
		return "invalid"
	}
	return headingNames[h]
}

// Delta returns the (row, col) step for moving forward under this heading.
func (h Heading) Delta() (dr, dc int) {
	switch h {
	case East:
		return 0, 1
	case South:
		return 1, 0
	case West:
		return 0, -1
	case North:
		return -1, 0
	}
	panic("policy: invalid heading")
}

// Pose is the agent's position and facing, owned by the world and passed
// into every decision call by value.
type Pose struct {
	Cell    kb.Cell
	Heading Heading
}

// headingToward maps a one-step cell delta to the heading that points at
// it. Non-unit deltas have no direct heading.
func headingToward(from, to kb.Cell) (Heading, bool) {
	switch [2]int{to.Row - from.Row, to.Col - from.Col} {
	case [2]int{0, 1}:
		return East, true
	case [2]int{1, 0}:
		return South, true
	case [2]int{0, -1}:
		return West, true
	case [2]int{-1, 0}:
		return North, true
	}
	return 0, false
}

// turnToward resolves the rotation from the current heading to the
// target: aligned moves forward, a rotation difference of 1 turns left,
// 3 turns right, and a 180-degree reversal always resolves as two left
// turns so repeated calls stay deterministic.
func turnToward(current, target Heading) Action {
	switch (int(target) - int(current) + 4) % 4 {
	case 0:
		return MoveForward
	case 1:
		return TurnLeft
	case 3:
		return TurnRight
	default: // 2
		return TurnLeft
	}
}
