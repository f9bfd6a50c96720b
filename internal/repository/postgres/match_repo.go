package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sqlc-dev/pqtype"

	"github.com/freeeve/battleship/internal/model"
)

// MatchRepo handles match and shot history operations.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

const matchColumns = `id, level_a, level_b, seed, status, winner, player_shots, villain_shots, final_state, created_at, finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*model.Match, error) {
	var m model.Match
	var finalState pqtype.NullRawMessage
	if err := row.Scan(&m.ID, &m.LevelA, &m.LevelB, &m.Seed, &m.Status, &m.Winner,
		&m.PlayerShots, &m.VillainShots, &finalState, &m.CreatedAt, &m.FinishedAt); err != nil {
		return nil, err
	}
	if finalState.Valid {
		m.FinalState = finalState.RawMessage
	}
	m.Turns = m.PlayerShots + m.VillainShots
	return &m, nil
}

// Create inserts a new active match.
func (r *MatchRepo) Create(ctx context.Context, id string, levelA, levelB int, seed int64) (*model.Match, error) {
	m, err := scanMatch(r.db.QueryRowContext(ctx,
		`INSERT INTO matches (id, level_a, level_b, seed)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+matchColumns,
		id, levelA, levelB, seed,
	))
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	return m, nil
}

// FindByID looks up a match. It returns nil, nil if there is none.
func (r *MatchRepo) FindByID(ctx context.Context, id string) (*model.Match, error) {
	m, err := scanMatch(r.db.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find match by id: %w", err)
	}
	return m, nil
}

// ListRecent returns the newest matches first.
func (r *MatchRepo) ListRecent(ctx context.Context, limit int) ([]model.Match, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM matches ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// SaveShots inserts a batch of shots in one transaction.
func (r *MatchRepo) SaveShots(ctx context.Context, shots []model.Shot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO shots (match_id, turn, side, x, y, result)
		 VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("prepare insert shot: %w", err)
	}
	defer stmt.Close()

	for _, s := range shots {
		if _, err := stmt.ExecContext(ctx, s.MatchID, s.Turn, s.Side, s.X, s.Y, s.Result); err != nil {
			return fmt.Errorf("insert shot: %w", err)
		}
	}
	return tx.Commit()
}

// ShotsByMatch returns a match's shots in firing order.
func (r *MatchRepo) ShotsByMatch(ctx context.Context, matchID string) ([]model.Shot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, turn, side, x, y, result
		 FROM shots WHERE match_id = $1 ORDER BY turn`, matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("shots by match: %w", err)
	}
	defer rows.Close()

	var shots []model.Shot
	for rows.Next() {
		var s model.Shot
		if err := rows.Scan(&s.MatchID, &s.Turn, &s.Side, &s.X, &s.Y, &s.Result); err != nil {
			return nil, fmt.Errorf("scan shot: %w", err)
		}
		shots = append(shots, s)
	}
	return shots, rows.Err()
}

// SetFinished marks a match as finished and stores the final boards.
func (r *MatchRepo) SetFinished(ctx context.Context, id, winner string, playerShots, villainShots int, finalState json.RawMessage) error {
	state := pqtype.NullRawMessage{RawMessage: finalState, Valid: len(finalState) > 0}
	_, err := r.db.ExecContext(ctx,
		`UPDATE matches
		 SET status = 'finished', winner = $1, player_shots = $2, villain_shots = $3, final_state = $4, finished_at = now()
		 WHERE id = $5`,
		winner, playerShots, villainShots, state, id,
	)
	if err != nil {
		return fmt.Errorf("set match finished: %w", err)
	}
	return nil
}
