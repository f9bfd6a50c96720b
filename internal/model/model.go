package model

import (
	"encoding/json"
	"time"
)

// Score is a persisted high-score entry.
type Score struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Shots     int       `json:"shots"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// Match is a finished or running match between two targeting levels.
type Match struct {
	ID           string          `json:"id"`
	LevelA       int             `json:"level_a"` // player side
	LevelB       int             `json:"level_b"` // villain side
	Seed         int64           `json:"seed"`
	Status       string          `json:"status"` // active, finished
	Winner       string          `json:"winner,omitempty"`
	Turns        int             `json:"turns"`
	PlayerShots  int             `json:"player_shots"`
	VillainShots int             `json:"villain_shots"`
	FinalState   json.RawMessage `json:"final_state,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
}

// Shot is one resolved shot within a match.
type Shot struct {
	MatchID string `json:"match_id"`
	Turn    int    `json:"turn"`
	Side    string `json:"side"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Result  int    `json:"result"` // 0 miss, 1 hit, 2 sunk
}
