package battleship

// Orientation is the axis a ship extends along from its origin.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// FleetLengths is the fixed fleet placed on every generated board.
var FleetLengths = []int{5, 4, 3, 3, 2, 2}

// FleetCells returns the number of cells the standard fleet occupies.
func FleetCells() int {
	n := 0
	for _, l := range FleetLengths {
		n += l
	}
	return n
}

// Ship is an immutable placement: origin, length and orientation. The ship
// occupies Length cells starting at Origin, growing right (horizontal) or
// down (vertical).
type Ship struct {
	Origin      Coord
	Length      int
	Orientation Orientation
}

// NewShip builds a ship from the save-file fields.
func NewShip(x, y, length int, horizontal bool) Ship {
	o := Vertical
	if horizontal {
		o = Horizontal
	}
	return Ship{Origin: Coord{X: x, Y: y}, Length: length, Orientation: o}
}

// Horizontal reports whether the ship runs along the x axis.
func (s Ship) Horizontal() bool {
	return s.Orientation == Horizontal
}

// step returns the unit offset between consecutive ship cells.
func (s Ship) step() (dx, dy int) {
	if s.Horizontal() {
		return 1, 0
	}
	return 0, 1
}

// Cells returns the occupied coordinates in order from the origin.
func (s Ship) Cells() []Coord {
	dx, dy := s.step()
	cells := make([]Coord, 0, s.Length)
	for i := 0; i < s.Length; i++ {
		cells = append(cells, s.Origin.Add(i*dx, i*dy))
	}
	return cells
}

// Contains reports whether c is one of the ship's cells.
func (s Ship) Contains(c Coord) bool {
	for _, sc := range s.Cells() {
		if sc == c {
			return true
		}
	}
	return false
}

// InBounds reports whether every cell of the ship lies on the board.
func (s Ship) InBounds() bool {
	if s.Length < 1 {
		return false
	}
	dx, dy := s.step()
	end := s.Origin.Add((s.Length-1)*dx, (s.Length-1)*dy)
	return s.Origin.InBounds() && end.InBounds()
}
