package kb

import "fmt"

// Cell identifies one grid square by (row, column), both in [0, size).
// Row 0 is the top of the grid; the conventional start cell on a 4x4
// board is (3, 0), the bottom-left corner.
type Cell struct {
	Row int
	Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// ManhattanDistance returns the grid distance between two cells.
func (c Cell) ManhattanDistance(other Cell) int {
	return abs(c.Row-other.Row) + abs(c.Col-other.Col)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
