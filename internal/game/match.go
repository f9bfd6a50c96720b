// Package game runs a two-sided battleship match: turn order, shot
// bookkeeping and the end-of-match check.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/freeeve/battleship/internal/logger"
	"github.com/freeeve/battleship/pkg/battleship"
)

var (
	ErrMatchFinished = errors.New("match already finished")
	ErrUnknownSide   = errors.New("unknown side")
)

// Side identifies one of the two fleets.
type Side int

const (
	Player Side = iota
	Villain
)

func (s Side) String() string {
	switch s {
	case Player:
		return "player"
	case Villain:
		return "villain"
	}
	return "unknown"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	return 1 - s
}

// ParseSide is the inverse of Side.String.
func ParseSide(s string) (Side, error) {
	switch s {
	case "player":
		return Player, nil
	case "villain":
		return Villain, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSide, s)
}

// Shooter is what a match needs from a targeting bot.
type Shooter interface {
	NextMove(v battleship.View) (battleship.Coord, error)
	LoseMemory()
}

// Shot records one resolved shot.
type Shot struct {
	Turn   int                   `json:"turn"`
	Side   Side                  `json:"side"`
	Coord  battleship.Coord      `json:"coord"`
	Result battleship.ShotResult `json:"result"`
}

// Match owns both boards. Boards[s] is side s's own fleet; side s fires at
// Boards[s.Opponent()]. Level is the villain's targeting level.
type Match struct {
	ID     string
	Level  int
	Boards [2]*battleship.Board
	Shots  [2]int
	Turn   Side
}

// NewMatch deals two random fleets from rng. The player moves first.
func NewMatch(level int, rng *rand.Rand) (*Match, error) {
	player, err := battleship.NewRandomBoard(rng)
	if err != nil {
		return nil, fmt.Errorf("player board: %w", err)
	}
	villain, err := battleship.NewRandomBoard(rng)
	if err != nil {
		return nil, fmt.Errorf("villain board: %w", err)
	}
	return &Match{
		ID:     uuid.NewString(),
		Level:  level,
		Boards: [2]*battleship.Board{player, villain},
		Turn:   Player,
	}, nil
}

// Target returns the board that side s fires at.
func (m *Match) Target(s Side) *battleship.Board {
	return m.Boards[s.Opponent()]
}

// TotalShots is the number of shots fired by both sides.
func (m *Match) TotalShots() int {
	return m.Shots[Player] + m.Shots[Villain]
}

// Finished reports whether either fleet is gone.
func (m *Match) Finished() bool {
	return m.Boards[Player].IsDefeated() || m.Boards[Villain].IsDefeated()
}

// Winner returns the side whose opponent has no ship cells left.
func (m *Match) Winner() (Side, bool) {
	switch {
	case m.Boards[Villain].IsDefeated():
		return Player, true
	case m.Boards[Player].IsDefeated():
		return Villain, true
	}
	return 0, false
}

// Fire lets the side to move shoot at c. The turn passes to the other side
// unless the shot ended the match.
func (m *Match) Fire(ctx context.Context, c battleship.Coord) (Shot, error) {
	if err := ctx.Err(); err != nil {
		return Shot{}, err
	}
	if m.Finished() {
		return Shot{}, ErrMatchFinished
	}

	side := m.Turn
	result, err := m.Target(side).Shoot(c)
	if err != nil {
		return Shot{}, fmt.Errorf("%s fire: %w", side, err)
	}
	m.Boards[side].ClearLastMove()
	m.Shots[side]++
	shot := Shot{Turn: m.TotalShots(), Side: side, Coord: c, Result: result}

	l := logger.ForMatch(logger.WithMatchID(ctx, m.ID))
	l.Debug().
		Str("side", side.String()).
		Str("coord", c.String()).
		Str("result", result.String()).
		Msg("Shot resolved")

	if m.Target(side).IsDefeated() {
		l.Info().
			Str("winner", side.String()).
			Int("shots", m.Shots[side]).
			Msg("Match won")
		return shot, nil
	}
	m.Turn = side.Opponent()
	return shot, nil
}

// FireWith asks s for the side to move's next coordinate and fires it.
// After a sink the shooter's search memory is cleared.
func (m *Match) FireWith(ctx context.Context, s Shooter) (Shot, error) {
	if m.Finished() {
		return Shot{}, ErrMatchFinished
	}
	c, err := s.NextMove(m.Target(m.Turn))
	if err != nil {
		return Shot{}, fmt.Errorf("%s next move: %w", m.Turn, err)
	}
	shot, err := m.Fire(ctx, c)
	if err != nil {
		return Shot{}, err
	}
	if shot.Result == battleship.ResultSunk {
		s.LoseMemory()
	}
	return shot, nil
}
