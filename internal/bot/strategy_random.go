package bot

import (
	"math/rand"

	"github.com/freeeve/battleship/pkg/battleship"
)

// --- TestStrategy ---

// TestStrategy fires at open water and never follows up on a hit. Once no
// empty cell is left it takes any un-shot cell so a match still ends.
// It reads hidden ship cells on purpose: water is always preferred, so it
// cannot sink a fleet before every empty cell has been shot.
type TestStrategy struct {
	rng *rand.Rand
}

func (*TestStrategy) Name() string { return "test" }
func (*TestStrategy) Level() Level { return LevelTest }
func (*TestStrategy) LoseMemory()  {}

func (s *TestStrategy) NextMove(v battleship.View) (battleship.Coord, error) {
	water := candidates(v, func(c battleship.Cell) bool { return c == battleship.Empty })
	if len(water) > 0 {
		return pickUniform(s.rng, water)
	}
	return pickUniform(s.rng, candidates(v, unshot))
}

// --- RandomStrategy ---

// RandomStrategy fires anywhere on the grid, repeats included.
type RandomStrategy struct {
	rng *rand.Rand
}

func (*RandomStrategy) Name() string { return "random" }
func (*RandomStrategy) Level() Level { return LevelRandom }
func (*RandomStrategy) LoseMemory()  {}

func (s *RandomStrategy) NextMove(battleship.View) (battleship.Coord, error) {
	return battleship.Coord{
		X: s.rng.Intn(battleship.BoardSize),
		Y: s.rng.Intn(battleship.BoardSize),
	}, nil
}

// --- NoRepeatStrategy ---

// NoRepeatStrategy fires uniformly at cells not yet shot.
type NoRepeatStrategy struct {
	rng *rand.Rand
}

func (*NoRepeatStrategy) Name() string { return "norepeat" }
func (*NoRepeatStrategy) Level() Level { return LevelNoRepeat }
func (*NoRepeatStrategy) LoseMemory()  {}

func (s *NoRepeatStrategy) NextMove(v battleship.View) (battleship.Coord, error) {
	return pickUniform(s.rng, candidates(v, unshot))
}

// --- SuddenDeathStrategy ---

// SuddenDeathStrategy only ever fires at ship cells. It sinks a full fleet
// in exactly FleetCells shots.
type SuddenDeathStrategy struct {
	rng *rand.Rand
}

func (*SuddenDeathStrategy) Name() string { return "sudden-death" }
func (*SuddenDeathStrategy) Level() Level { return LevelSuddenDeath }
func (*SuddenDeathStrategy) LoseMemory()  {}

func (s *SuddenDeathStrategy) NextMove(v battleship.View) (battleship.Coord, error) {
	return pickUniform(s.rng, candidates(v, func(c battleship.Cell) bool { return c == battleship.ShipPresent }))
}
