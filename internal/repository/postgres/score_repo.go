package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/freeeve/battleship/internal/model"
)

// ScoreRepo handles high-score database operations.
type ScoreRepo struct {
	db *sql.DB
}

// NewScoreRepo creates a ScoreRepo.
func NewScoreRepo(db *sql.DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

// Add stores a winning score.
func (r *ScoreRepo) Add(ctx context.Context, name string, shots, level int) (*model.Score, error) {
	var s model.Score
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO scores (name, shots, level)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, shots, level, created_at`,
		name, shots, level,
	).Scan(&s.ID, &s.Name, &s.Shots, &s.Level, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add score: %w", err)
	}
	return &s, nil
}

// Top returns the best scores, fewest shots first. Among equal shot counts
// the newer score ranks higher.
func (r *ScoreRepo) Top(ctx context.Context, limit int) ([]model.Score, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, shots, level, created_at
		 FROM scores
		 ORDER BY shots ASC, created_at DESC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	var scores []model.Score
	for rows.Next() {
		var s model.Score
		if err := rows.Scan(&s.ID, &s.Name, &s.Shots, &s.Level, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
