package bot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/freeeve/battleship/internal/game"
	"github.com/freeeve/battleship/internal/logger"
	"github.com/freeeve/battleship/internal/model"
	"github.com/freeeve/battleship/internal/repository"
	"github.com/freeeve/battleship/pkg/battleship"
)

// DefaultMaxTurns caps a match when neither side sets a limit. Level 1 may
// repeat shots, so a match between two random shooters is not bounded.
const DefaultMaxTurns = 2000

// ArenaConfig configures a single bot-vs-bot match.
type ArenaConfig struct {
	LevelA   Level    // player side
	LevelB   Level    // villain side
	Seed     int64    // 0 = random
	MaxTurns int      // total shots before the match is abandoned; 0 = DefaultMaxTurns
	DryRun   bool     // skip DB and cache writes
	HeatmapA *Heatmap // optional, records side A's shots
	HeatmapB *Heatmap // optional, records side B's shots
}

// ArenaResult describes the outcome of a completed arena match.
type ArenaResult struct {
	MatchID      string      `json:"match_id"`
	Winner       string      `json:"winner"` // "player", "villain" or "" if abandoned
	WinnerLevel  string      `json:"winner_level,omitempty"`
	Turns        int         `json:"turns"`
	PlayerShots  int         `json:"player_shots"`
	VillainShots int         `json:"villain_shots"`
	Match        *game.Match `json:"-"`
}

// RunMatch plays one match between two targeting levels on freshly dealt
// boards. Pass nil repos (or set DryRun) to skip persistence.
func RunMatch(
	ctx context.Context,
	cfg ArenaConfig,
	matchRepo repository.MatchRepository,
	scoreRepo repository.ScoreRepository,
	cache repository.MatchCache,
) (*ArenaResult, error) {
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if !cfg.LevelA.Valid() || !cfg.LevelB.Valid() {
		return nil, fmt.Errorf("%w: %d vs %d", ErrInvalidLevel, int(cfg.LevelA), int(cfg.LevelB))
	}
	if cfg.DryRun {
		matchRepo, scoreRepo, cache = nil, nil, nil
	}

	rng := NewRand(cfg.Seed)
	m, err := game.NewMatch(int(cfg.LevelB), rng)
	if err != nil {
		return nil, fmt.Errorf("deal boards: %w", err)
	}
	ctx = logger.WithMatchID(ctx, m.ID)
	l := logger.ForMatch(ctx)

	levels := [2]Level{cfg.LevelA, cfg.LevelB}
	shooters := [2]Targeter{
		TargeterForLevel(cfg.LevelA, rng),
		TargeterForLevel(cfg.LevelB, rng),
	}
	heatmaps := [2]*Heatmap{cfg.HeatmapA, cfg.HeatmapB}

	if matchRepo != nil {
		if _, err := matchRepo.Create(ctx, m.ID, int(cfg.LevelA), int(cfg.LevelB), cfg.Seed); err != nil {
			return nil, fmt.Errorf("create arena match: %w", err)
		}
	}

	var shots []model.Shot
	for !m.Finished() && m.TotalShots() < cfg.MaxTurns {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		side := m.Turn
		shot, err := m.FireWith(ctx, shooters[side])
		if err != nil {
			return nil, fmt.Errorf("turn %d (%s, %s): %w", m.TotalShots()+1, side, levels[side], err)
		}
		if h := heatmaps[side]; h != nil {
			h.Record(shot.Coord)
		}
		shots = append(shots, model.Shot{
			MatchID: m.ID,
			Turn:    shot.Turn,
			Side:    side.String(),
			X:       shot.Coord.X,
			Y:       shot.Coord.Y,
			Result:  int(shot.Result),
		})

		if cache != nil {
			if err := cache.RecordShot(ctx, m.ID, side.String(), int(shot.Result)); err != nil {
				return nil, fmt.Errorf("cache shot: %w", err)
			}
			if err := cache.SetSnapshot(ctx, m.ID, game.EncodeSave(m)); err != nil {
				return nil, fmt.Errorf("cache snapshot: %w", err)
			}
		}
	}

	result := &ArenaResult{
		MatchID:      m.ID,
		Turns:        m.TotalShots(),
		PlayerShots:  m.Shots[game.Player],
		VillainShots: m.Shots[game.Villain],
		Match:        m,
	}
	winner, won := m.Winner()
	if won {
		result.Winner = winner.String()
		result.WinnerLevel = levels[winner].String()
	}

	if err := persistResult(ctx, m, levels, result, shots, matchRepo, scoreRepo, cache); err != nil {
		return nil, err
	}

	if won {
		l.Info().
			Str("winner", result.Winner).
			Str("level", result.WinnerLevel).
			Int("turns", result.Turns).
			Msg("Arena match won")
	} else {
		l.Info().Int("turns", result.Turns).Msg("Arena match abandoned (turn limit)")
	}
	logger.LogSnapshot(l, "final", game.EncodeSave(m))
	return result, nil
}

// persistResult writes the shot log, final boards and winning score, then
// drops the live cache entries.
func persistResult(
	ctx context.Context,
	m *game.Match,
	levels [2]Level,
	result *ArenaResult,
	shots []model.Shot,
	matchRepo repository.MatchRepository,
	scoreRepo repository.ScoreRepository,
	cache repository.MatchCache,
) error {
	if matchRepo != nil {
		if len(shots) > 0 {
			if err := matchRepo.SaveShots(ctx, shots); err != nil {
				return fmt.Errorf("save shots: %w", err)
			}
		}
		finalState, err := json.Marshal(map[string]*battleship.Board{
			game.Player.String():  m.Boards[game.Player],
			game.Villain.String(): m.Boards[game.Villain],
		})
		if err != nil {
			return fmt.Errorf("marshal final state: %w", err)
		}
		if err := matchRepo.SetFinished(ctx, m.ID, result.Winner, result.PlayerShots, result.VillainShots, finalState); err != nil {
			return fmt.Errorf("set finished: %w", err)
		}
	}

	if scoreRepo != nil && result.Winner != "" {
		winner, _ := m.Winner()
		name := "bot-" + levels[winner].String()
		if _, err := scoreRepo.Add(ctx, name, m.Shots[winner], int(levels[winner])); err != nil {
			return fmt.Errorf("add score: %w", err)
		}
	}

	if cache != nil {
		sides := []string{game.Player.String(), game.Villain.String()}
		if err := cache.DeleteMatchData(ctx, m.ID, sides); err != nil {
			return fmt.Errorf("clear match cache: %w", err)
		}
	}
	return nil
}
