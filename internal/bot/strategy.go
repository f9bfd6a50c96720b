package bot

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/battleship/pkg/battleship"
)

var (
	ErrNoCandidates = errors.New("no legal target cell left")
	ErrInvalidLevel = errors.New("invalid targeting level")
)

// Level selects one of the five targeting policies.
type Level int

const (
	LevelTest Level = iota
	LevelRandom
	LevelNoRepeat
	LevelHunter
	LevelSuddenDeath
)

var levelNames = [...]string{
	LevelTest:        "test",
	LevelRandom:      "random",
	LevelNoRepeat:    "norepeat",
	LevelHunter:      "hunter",
	LevelSuddenDeath: "sudden-death",
}

// Valid reports whether l names an implemented policy.
func (l Level) Valid() bool {
	return l >= LevelTest && l <= LevelSuddenDeath
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel accepts either the numeric level ("3") or its name ("hunter").
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		l := Level(n)
		if !l.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, n)
		}
		return l, nil
	}
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// Targeter picks the next cell to fire at on the opponent's board.
// Implementations only read the board; the caller applies the shot.
type Targeter interface {
	Name() string
	Level() Level
	NextMove(v battleship.View) (battleship.Coord, error)
	// LoseMemory drops any per-ship search state. Call it after a sink.
	LoseMemory()
}

// TargeterForLevel returns the policy for level. An invalid level fails
// closed: the returned targeter always answers NoCoord.
func TargeterForLevel(level Level, rng *rand.Rand) Targeter {
	if rng == nil {
		rng = NewRand(0)
	}
	switch level {
	case LevelTest:
		return &TestStrategy{rng: rng}
	case LevelRandom:
		return &RandomStrategy{rng: rng}
	case LevelNoRepeat:
		return &NoRepeatStrategy{rng: rng}
	case LevelHunter:
		return NewHunterStrategy(rng)
	case LevelSuddenDeath:
		return &SuddenDeathStrategy{rng: rng}
	default:
		log.Warn().Int("level", int(level)).Msg("Unknown targeting level, using no-op targeter")
		return noopTargeter{level: level}
	}
}

// noopTargeter never proposes a shot.
type noopTargeter struct {
	level Level
}

func (noopTargeter) Name() string   { return "noop" }
func (n noopTargeter) Level() Level { return n.level }
func (noopTargeter) LoseMemory()    {}

func (n noopTargeter) NextMove(battleship.View) (battleship.Coord, error) {
	return battleship.NoCoord, fmt.Errorf("%w: %d", ErrInvalidLevel, int(n.level))
}

// candidates lists every board cell whose state satisfies keep, in row order.
func candidates(v battleship.View, keep func(battleship.Cell) bool) []battleship.Coord {
	var out []battleship.Coord
	for y := 0; y < battleship.BoardSize; y++ {
		for x := 0; x < battleship.BoardSize; x++ {
			c := battleship.Coord{X: x, Y: y}
			if keep(v.CellAt(c)) {
				out = append(out, c)
			}
		}
	}
	return out
}

// pickUniform draws one coordinate from cs.
func pickUniform(rng *rand.Rand, cs []battleship.Coord) (battleship.Coord, error) {
	if len(cs) == 0 {
		return battleship.NoCoord, ErrNoCandidates
	}
	return cs[rng.Intn(len(cs))], nil
}

func unshot(c battleship.Cell) bool { return !c.Shot() }
