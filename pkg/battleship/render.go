package battleship

import (
	"fmt"
	"strings"
)

// Render draws the board as plain text with column letters and row numbers.
// With hideShips set, unhit ship cells are drawn as empty water. The last
// move is wrapped in brackets.
func (b *Board) Render(hideShips bool) string {
	var sb strings.Builder
	sb.WriteString("#  ")
	for x := 0; x < BoardSize; x++ {
		fmt.Fprintf(&sb, " %c ", 'A'+x)
	}
	sb.WriteByte('\n')

	for y := 0; y < BoardSize; y++ {
		fmt.Fprintf(&sb, "%-3d", y+1)
		for x := 0; x < BoardSize; x++ {
			cell := b.cells[x][y]
			if hideShips && cell == ShipPresent {
				cell = Empty
			}
			if b.lastMove == (Coord{X: x, Y: y}) {
				fmt.Fprintf(&sb, "[%c]", cell.Symbol())
			} else {
				fmt.Fprintf(&sb, " %c ", cell.Symbol())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
