package battleship

import (
	"fmt"
	"strconv"
	"strings"
)

// BoardSize is the width and height of every board.
const BoardSize = 10

// Coord is a cell position. X is the column (A-J), Y the row (1-10).
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NoCoord marks the absence of a coordinate, e.g. no last move to highlight.
var NoCoord = Coord{X: -1, Y: -1}

// InBounds reports whether c lies on the board.
func (c Coord) InBounds() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

// Add returns c shifted by (dx, dy). The result may be off the board.
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// String formats c the way players type it, e.g. "B7" for (1,6).
// Off-board coordinates are printed as raw pairs.
func (c Coord) String() string {
	if !c.InBounds() {
		return fmt.Sprintf("(%d,%d)", c.X, c.Y)
	}
	return string(rune('A'+c.X)) + strconv.Itoa(c.Y+1)
}

// ParseCoord converts player input like "a1" or "J10" into a Coord.
func ParseCoord(s string) (Coord, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return NoCoord, fmt.Errorf("%w: %q", ErrMalformedCoord, s)
	}
	col := strings.ToUpper(s[:1])[0]
	if col < 'A' || col >= 'A'+BoardSize {
		return NoCoord, fmt.Errorf("%w: column %q", ErrMalformedCoord, string(s[0]))
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return NoCoord, fmt.Errorf("%w: row %q", ErrMalformedCoord, s[1:])
	}
	c := Coord{X: int(col - 'A'), Y: row - 1}
	if !c.InBounds() {
		return NoCoord, fmt.Errorf("%w: row %d out of range", ErrMalformedCoord, row)
	}
	return c, nil
}
