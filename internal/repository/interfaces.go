package repository

import (
	"context"
	"encoding/json"

	"github.com/freeeve/battleship/internal/model"
)

// ScoreRepository defines high-score data operations.
type ScoreRepository interface {
	Add(ctx context.Context, name string, shots, level int) (*model.Score, error)
	Top(ctx context.Context, limit int) ([]model.Score, error)
}

// MatchRepository defines match history operations.
type MatchRepository interface {
	Create(ctx context.Context, id string, levelA, levelB int, seed int64) (*model.Match, error)
	FindByID(ctx context.Context, id string) (*model.Match, error)
	ListRecent(ctx context.Context, limit int) ([]model.Match, error)
	SaveShots(ctx context.Context, shots []model.Shot) error
	ShotsByMatch(ctx context.Context, matchID string) ([]model.Shot, error)
	SetFinished(ctx context.Context, id, winner string, playerShots, villainShots int, finalState json.RawMessage) error
}

// MatchCache defines live match state operations (Redis).
type MatchCache interface {
	SetSnapshot(ctx context.Context, matchID, snapshot string) error
	GetSnapshot(ctx context.Context, matchID string) (string, error)
	RecordShot(ctx context.Context, matchID, side string, result int) error
	ShotCounts(ctx context.Context, matchID, side string) (map[string]int64, error)
	DeleteMatchData(ctx context.Context, matchID string, sides []string) error
}
