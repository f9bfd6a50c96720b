package battleship

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// gridLen is the length of an encoded grid string.
const gridLen = BoardSize * BoardSize

// EncodeGrid serializes the cell grid row by row: index y*BoardSize+x.
func EncodeGrid(b *Board) string {
	var sb strings.Builder
	sb.Grow(gridLen)
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			sb.WriteByte(b.cells[x][y].Symbol())
		}
	}
	return sb.String()
}

// EncodeShips serializes the live ships as "x,y,length,horizontal" records
// separated by ';'. A board without live ships encodes to "".
func EncodeShips(b *Board) string {
	records := make([]string, 0, len(b.ships))
	for _, s := range b.ships {
		records = append(records, fmt.Sprintf("%d,%d,%d,%t", s.Origin.X, s.Origin.Y, s.Length, s.Horizontal()))
	}
	return strings.Join(records, ";")
}

// EncodeBoard serializes the whole board on one line as "grid/ships".
func EncodeBoard(b *Board) string {
	return EncodeGrid(b) + "/" + EncodeShips(b)
}

// DecodeGrid parses an encoded grid string.
func DecodeGrid(s string) ([BoardSize][BoardSize]Cell, error) {
	var cells [BoardSize][BoardSize]Cell
	if len(s) != gridLen {
		return cells, fmt.Errorf("%w: expected %d cells, got %d", ErrMalformedGrid, gridLen, len(s))
	}
	for i := 0; i < gridLen; i++ {
		c, ok := symbolToCell[s[i]]
		if !ok {
			return cells, fmt.Errorf("%w: invalid symbol %q at index %d", ErrMalformedGrid, string(s[i]), i)
		}
		cells[i%BoardSize][i/BoardSize] = c
	}
	return cells, nil
}

// DecodeShips parses a ship list. The empty string is an empty list.
func DecodeShips(s string) ([]Ship, error) {
	if s == "" {
		return nil, nil
	}
	var ships []Ship
	for record := range strings.SplitSeq(s, ";") {
		ship, err := parseShipRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedShip, record, err)
		}
		ships = append(ships, ship)
	}
	return ships, nil
}

// parseShipRecord parses "x,y,length,horizontal".
func parseShipRecord(record string) (Ship, error) {
	fields := strings.Split(strings.TrimSpace(record), ",")
	if len(fields) != 4 {
		return Ship{}, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}
	var nums [3]int
	for i := range nums {
		n, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return Ship{}, err
		}
		nums[i] = n
	}
	horizontal, err := strconv.ParseBool(strings.TrimSpace(fields[3]))
	if err != nil {
		return Ship{}, err
	}
	ship := NewShip(nums[0], nums[1], nums[2], horizontal)
	if !ship.InBounds() {
		return Ship{}, fmt.Errorf("ship leaves the board")
	}
	return ship, nil
}

// DecodeBoard rebuilds a board from an encoded grid and ship list. The
// saved state is trusted: placement rules are not re-checked. The last
// move marker is cleared.
func DecodeBoard(grid, ships string) (*Board, error) {
	cells, err := DecodeGrid(grid)
	if err != nil {
		return nil, err
	}
	parsed, err := DecodeShips(ships)
	if err != nil {
		return nil, err
	}
	return &Board{cells: cells, ships: parsed, lastMove: NoCoord}, nil
}

// ParseBoard is the inverse of EncodeBoard.
func ParseBoard(s string) (*Board, error) {
	grid, ships, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return nil, fmt.Errorf("%w: missing '/' between grid and ships", ErrMalformedGrid)
	}
	return DecodeBoard(grid, ships)
}

type boardJSON struct {
	Grid  string `json:"grid"`
	Ships string `json:"ships"`
}

// MarshalJSON encodes the board with the same text forms used in save files.
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Grid: EncodeGrid(b), Ships: EncodeShips(b)})
}

// UnmarshalJSON replaces b with the decoded board. On error b is unchanged.
func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := DecodeBoard(raw.Grid, raw.Ships)
	if err != nil {
		return err
	}
	*b = *decoded
	return nil
}
