package bot

import (
	"math/rand"

	"github.com/freeeve/battleship/pkg/battleship"
)

// Phase is the externally visible stage of the hunter's search.
type Phase int

const (
	Hunting Phase = iota
	Orienting
	Advancing
)

func (p Phase) String() string {
	switch p {
	case Hunting:
		return "hunting"
	case Orienting:
		return "orienting"
	case Advancing:
		return "advancing"
	}
	return "unknown"
}

// neighbourOffsets are the four axis-aligned steps. Index i^1 is the
// opposite of index i.
var neighbourOffsets = [4]battleship.Coord{
	{X: 1, Y: 0}, {X: -1, Y: 0},
	{X: 0, Y: 1}, {X: 0, Y: -1},
}

// huntState is one of hunting, *orienting or *advancing.
type huntState interface {
	phase() Phase
}

// hunting fires at random un-shot cells until one holds a ship.
type hunting struct{}

// orienting tries the neighbours of the first hit to learn the ship's axis.
type orienting struct {
	origin battleship.Coord
	tested [4]bool
	last   int // index into neighbourOffsets, -1 before the first neighbour shot
}

// advancing walks along a known axis from the most recent hit. After one
// reversal it walks back from origin in the opposite direction.
type advancing struct {
	origin   battleship.Coord
	tip      battleship.Coord
	step     battleship.Coord
	reversed bool
	done     bool // both ends reached; next call returns to hunting
}

func (hunting) phase() Phase    { return Hunting }
func (*orienting) phase() Phase { return Orienting }
func (*advancing) phase() Phase { return Advancing }

func newOrienting(origin battleship.Coord) *orienting {
	return &orienting{origin: origin, last: -1}
}

// reverse turns back to origin facing the other way. It reports false if
// the walk was already reversed once.
func (a *advancing) reverse() bool {
	if a.reversed {
		return false
	}
	a.reversed = true
	a.step = battleship.Coord{X: -a.step.X, Y: -a.step.Y}
	a.tip = a.origin
	return true
}

// HunterStrategy is the adaptive hunt/target/destroy policy.
//
// The walk rule: advance one cell past the latest hit. If that cell is off
// the board or already shot, reverse and step from the first hit instead.
// If the chosen cell is open water the shot will miss, so the reversal is
// prepared right away. When both ends are closed, or no neighbour of the
// first hit is left to try, the search falls back to hunting.
type HunterStrategy struct {
	rng   *rand.Rand
	state huntState
}

func NewHunterStrategy(rng *rand.Rand) *HunterStrategy {
	return &HunterStrategy{rng: rng, state: hunting{}}
}

func (*HunterStrategy) Name() string { return "hunter" }
func (*HunterStrategy) Level() Level { return LevelHunter }

// Phase reports the current search stage.
func (h *HunterStrategy) Phase() Phase {
	return h.state.phase()
}

// LoseMemory forgets the current target and goes back to hunting.
func (h *HunterStrategy) LoseMemory() {
	h.state = hunting{}
}

func (h *HunterStrategy) NextMove(v battleship.View) (battleship.Coord, error) {
	switch st := h.state.(type) {
	case *orienting:
		if c, ok := h.orient(v, st); ok {
			return c, nil
		}
	case *advancing:
		if c, ok := h.advance(v, st); ok {
			return c, nil
		}
	}
	h.state = hunting{}
	return h.hunt(v)
}

func (h *HunterStrategy) hunt(v battleship.View) (battleship.Coord, error) {
	c, err := pickUniform(h.rng, candidates(v, unshot))
	if err != nil {
		return battleship.NoCoord, err
	}
	if v.CellAt(c) == battleship.ShipPresent {
		h.state = newOrienting(c)
	}
	return c, nil
}

// orient tries the untested neighbours of the first hit. After a failed
// offset its opposite on the same axis goes next.
func (h *HunterStrategy) orient(v battleship.View, st *orienting) (battleship.Coord, bool) {
	for {
		i := h.nextOffset(st)
		if i < 0 {
			return battleship.NoCoord, false
		}
		st.tested[i] = true
		st.last = i

		off := neighbourOffsets[i]
		c := st.origin.Add(off.X, off.Y)
		if !c.InBounds() || v.CellAt(c).Shot() {
			continue
		}
		if v.CellAt(c) == battleship.ShipPresent {
			h.state = &advancing{origin: st.origin, tip: c, step: off}
		}
		return c, true
	}
}

func (h *HunterStrategy) nextOffset(st *orienting) int {
	if st.last >= 0 {
		if opp := st.last ^ 1; !st.tested[opp] {
			return opp
		}
	}
	var open []int
	for i, t := range st.tested {
		if !t {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return -1
	}
	return open[h.rng.Intn(len(open))]
}

func (h *HunterStrategy) advance(v battleship.View, st *advancing) (battleship.Coord, bool) {
	for !st.done {
		next := st.tip.Add(st.step.X, st.step.Y)
		if !next.InBounds() || v.CellAt(next).Shot() {
			if !st.reverse() {
				return battleship.NoCoord, false
			}
			continue
		}
		if v.CellAt(next) == battleship.ShipPresent {
			st.tip = next
		} else if !st.reverse() {
			st.done = true
		}
		return next, true
	}
	return battleship.NoCoord, false
}
