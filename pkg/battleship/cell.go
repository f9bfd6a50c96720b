package battleship

// Cell is the state of one grid position. Transitions only ever go
// Empty -> Miss or ShipPresent -> Hit.
type Cell uint8

const (
	Empty Cell = iota
	ShipPresent
	Hit
	Miss
)

// cellToSymbol maps a Cell to its save-file character.
var cellToSymbol = map[Cell]byte{
	Empty:       '.',
	ShipPresent: 'O',
	Hit:         'X',
	Miss:        '-',
}

// symbolToCell maps a save-file character back to a Cell.
var symbolToCell = map[byte]Cell{
	'.': Empty,
	'O': ShipPresent,
	'X': Hit,
	'-': Miss,
}

// Symbol returns the single character used for c in encoded grids.
func (c Cell) Symbol() byte {
	if s, ok := cellToSymbol[c]; ok {
		return s
	}
	return '?'
}

// Shot reports whether the cell has already been fired at.
func (c Cell) Shot() bool {
	return c == Hit || c == Miss
}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case ShipPresent:
		return "ship"
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	}
	return "unknown"
}

// ShotResult is the outcome of Board.Shoot. The integer values are part of
// the external contract: 0 miss, 1 hit, 2 hit that sank a ship.
type ShotResult int

const (
	ResultMiss ShotResult = iota
	ResultHit
	ResultSunk
)

func (r ShotResult) String() string {
	switch r {
	case ResultMiss:
		return "miss"
	case ResultHit:
		return "hit"
	case ResultSunk:
		return "sunk"
	}
	return "unknown"
}
