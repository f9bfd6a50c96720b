package battleship

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrOutOfBounds        = errors.New("coordinate outside the board")
	ErrShipCollision      = errors.New("ship touches or overlaps another ship")
	ErrPlacementExhausted = errors.New("no valid ship position found")
	ErrMalformedGrid      = errors.New("malformed grid")
	ErrMalformedShip      = errors.New("malformed ship record")
	ErrMalformedCoord     = errors.New("malformed coordinate")
)

// MaxPlacementAttempts bounds the rejection sampling for a single ship.
// The standard fleet on a 10x10 board needs a handful of attempts; hitting
// the cap means the fleet cannot fit.
const MaxPlacementAttempts = 10000

// View is read-only access to a board, as seen by whoever is shooting at it.
type View interface {
	CellAt(c Coord) Cell
}

// Board holds one side's grid, its live ships and the last shot received.
type Board struct {
	cells    [BoardSize][BoardSize]Cell // [x][y]
	ships    []Ship
	lastMove Coord
}

var _ View = (*Board)(nil)

// NewBoard returns an empty board without ships.
func NewBoard() *Board {
	return &Board{lastMove: NoCoord}
}

// NewRandomBoard places the standard fleet at random positions drawn from rng.
func NewRandomBoard(rng *rand.Rand) (*Board, error) {
	b := NewBoard()
	for _, length := range FleetLengths {
		if err := b.placeRandom(rng, length); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// placeRandom samples orientation and origin uniformly until the ship fits
// without touching another one.
func (b *Board) placeRandom(rng *rand.Rand, length int) error {
	for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
		o := Vertical
		if rng.Intn(2) == 0 {
			o = Horizontal
		}
		maxX, maxY := BoardSize, BoardSize
		if o == Horizontal {
			maxX -= length - 1
		} else {
			maxY -= length - 1
		}
		s := Ship{
			Origin:      Coord{X: rng.Intn(maxX), Y: rng.Intn(maxY)},
			Length:      length,
			Orientation: o,
		}
		if b.collides(s) {
			continue
		}
		b.mark(s)
		return nil
	}
	return fmt.Errorf("%w: length %d after %d attempts", ErrPlacementExhausted, length, MaxPlacementAttempts)
}

// PlaceShip adds s to the board. The ship must lie fully on the board and
// must not overlap or touch (including diagonally) any ship already placed.
func (b *Board) PlaceShip(s Ship) error {
	if !s.InBounds() {
		return fmt.Errorf("%w: ship at %s length %d %s", ErrOutOfBounds, s.Origin, s.Length, s.Orientation)
	}
	if b.collides(s) {
		return fmt.Errorf("%w: ship at %s length %d %s", ErrShipCollision, s.Origin, s.Length, s.Orientation)
	}
	b.mark(s)
	return nil
}

func (b *Board) mark(s Ship) {
	for _, c := range s.Cells() {
		b.cells[c.X][c.Y] = ShipPresent
	}
	b.ships = append(b.ships, s)
}

// collides checks the clamped 3x3 neighbourhood of every ship cell.
func (b *Board) collides(s Ship) bool {
	for _, c := range s.Cells() {
		for x := max(c.X-1, 0); x <= min(c.X+1, BoardSize-1); x++ {
			for y := max(c.Y-1, 0); y <= min(c.Y+1, BoardSize-1); y++ {
				if b.cells[x][y] == ShipPresent {
					return true
				}
			}
		}
	}
	return false
}

// Shoot fires at c and reports the outcome. Firing at a cell that is
// already Hit is a no-op that reports a miss. The coordinate is recorded as
// the last move otherwise.
func (b *Board) Shoot(c Coord) (ShotResult, error) {
	if !c.InBounds() {
		return ResultMiss, fmt.Errorf("shoot %s: %w", c, ErrOutOfBounds)
	}
	switch b.cells[c.X][c.Y] {
	case Hit:
		return ResultMiss, nil
	case Empty, Miss:
		b.lastMove = c
		b.cells[c.X][c.Y] = Miss
		return ResultMiss, nil
	}

	b.lastMove = c
	b.cells[c.X][c.Y] = Hit
	// Ships never share cells, so at most one ship can sink per shot.
	for i, s := range b.ships {
		if !s.Contains(c) {
			continue
		}
		if b.isSunk(s) {
			b.ships = append(b.ships[:i], b.ships[i+1:]...)
			return ResultSunk, nil
		}
		break
	}
	return ResultHit, nil
}

func (b *Board) isSunk(s Ship) bool {
	for _, c := range s.Cells() {
		if b.cells[c.X][c.Y] != Hit {
			return false
		}
	}
	return true
}

// CellAt returns the state of c. It panics if c is off the board; callers
// check Coord.InBounds first.
func (b *Board) CellAt(c Coord) Cell {
	if !c.InBounds() {
		panic(fmt.Sprintf("battleship: CellAt %s: %v", c, ErrOutOfBounds))
	}
	return b.cells[c.X][c.Y]
}

// Ships returns a copy of the live (unsunk) ships.
func (b *Board) Ships() []Ship {
	out := make([]Ship, len(b.ships))
	copy(out, b.ships)
	return out
}

// LiveShips returns the number of ships not yet sunk.
func (b *Board) LiveShips() int {
	return len(b.ships)
}

// Count returns how many cells are in the given state.
func (b *Board) Count(state Cell) int {
	n := 0
	for x := range b.cells {
		for y := range b.cells[x] {
			if b.cells[x][y] == state {
				n++
			}
		}
	}
	return n
}

// IsDefeated reports whether no ship cell is left unhit.
func (b *Board) IsDefeated() bool {
	return b.Count(ShipPresent) == 0
}

// LastMove returns the most recent shot on this board, or NoCoord.
func (b *Board) LastMove() Coord {
	return b.lastMove
}

// ClearLastMove removes the last-move marker.
func (b *Board) ClearLastMove() {
	b.lastMove = NoCoord
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := &Board{
		cells:    b.cells,
		lastMove: b.lastMove,
	}
	if b.ships != nil {
		c.ships = make([]Ship, len(b.ships))
		copy(c.ships, b.ships)
	}
	return c
}
