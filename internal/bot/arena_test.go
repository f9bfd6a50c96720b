package bot

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/freeeve/battleship/internal/model"
	"github.com/freeeve/battleship/pkg/battleship"
)

// memMatchRepo records every call made by RunMatch.
type memMatchRepo struct {
	mu       sync.Mutex
	created  []string
	shots    []model.Shot
	finished map[string]model.Match
	failSave bool
}

func newMemMatchRepo() *memMatchRepo {
	return &memMatchRepo{finished: make(map[string]model.Match)}
}

func (r *memMatchRepo) Create(_ context.Context, id string, levelA, levelB int, seed int64) (*model.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, id)
	return &model.Match{ID: id, LevelA: levelA, LevelB: levelB, Seed: seed, Status: "active"}, nil
}

func (r *memMatchRepo) FindByID(_ context.Context, id string) (*model.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.finished[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *memMatchRepo) ListRecent(context.Context, int) ([]model.Match, error) { return nil, nil }

func (r *memMatchRepo) SaveShots(_ context.Context, shots []model.Shot) error {
	if r.failSave {
		return errors.New("disk full")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shots = append(r.shots, shots...)
	return nil
}

func (r *memMatchRepo) ShotsByMatch(_ context.Context, matchID string) ([]model.Shot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Shot
	for _, s := range r.shots {
		if s.MatchID == matchID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memMatchRepo) SetFinished(_ context.Context, id, winner string, playerShots, villainShots int, finalState json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished[id] = model.Match{
		ID:           id,
		Status:       "finished",
		Winner:       winner,
		PlayerShots:  playerShots,
		VillainShots: villainShots,
		FinalState:   finalState,
	}
	return nil
}

type memScoreRepo struct {
	scores []model.Score
}

func (r *memScoreRepo) Add(_ context.Context, name string, shots, level int) (*model.Score, error) {
	s := model.Score{Name: name, Shots: shots, Level: level}
	r.scores = append(r.scores, s)
	return &s, nil
}

func (r *memScoreRepo) Top(context.Context, int) ([]model.Score, error) { return r.scores, nil }

type memCache struct {
	snapshots map[string]string
	counts    map[string]map[int]int
	deleted   []string
}

func newMemCache() *memCache {
	return &memCache{snapshots: make(map[string]string), counts: make(map[string]map[int]int)}
}

func (c *memCache) SetSnapshot(_ context.Context, matchID, snapshot string) error {
	c.snapshots[matchID] = snapshot
	return nil
}

func (c *memCache) GetSnapshot(_ context.Context, matchID string) (string, error) {
	return c.snapshots[matchID], nil
}

func (c *memCache) RecordShot(_ context.Context, _ string, side string, result int) error {
	if c.counts[side] == nil {
		c.counts[side] = make(map[int]int)
	}
	c.counts[side][result]++
	return nil
}

func (c *memCache) ShotCounts(context.Context, string, string) (map[string]int64, error) {
	return nil, nil
}

func (c *memCache) DeleteMatchData(_ context.Context, matchID string, _ []string) error {
	delete(c.snapshots, matchID)
	c.deleted = append(c.deleted, matchID)
	return nil
}

func TestRunMatchDryRun(t *testing.T) {
	cfg := ArenaConfig{LevelA: LevelHunter, LevelB: LevelNoRepeat, Seed: 42, DryRun: true}

	result, err := RunMatch(context.Background(), cfg, nil, nil, nil)
	if err != nil {
		t.Fatalf("RunMatch failed: %v", err)
	}
	if result.Winner == "" {
		t.Fatal("expected a winner")
	}
	if result.Turns != result.PlayerShots+result.VillainShots {
		t.Errorf("turns %d != %d + %d", result.Turns, result.PlayerShots, result.VillainShots)
	}
	winnerShots := result.PlayerShots
	if result.Winner == "villain" {
		winnerShots = result.VillainShots
	}
	if winnerShots < battleship.FleetCells() {
		t.Errorf("winner needed only %d shots", winnerShots)
	}
	if !result.Match.Finished() {
		t.Error("match not finished")
	}
	t.Logf("Result: winner=%s (%s) turns=%d", result.Winner, result.WinnerLevel, result.Turns)
}

func TestRunMatchSuddenDeathBeatsTest(t *testing.T) {
	cfg := ArenaConfig{LevelA: LevelSuddenDeath, LevelB: LevelTest, Seed: 7, DryRun: true}

	result, err := RunMatch(context.Background(), cfg, nil, nil, nil)
	if err != nil {
		t.Fatalf("RunMatch failed: %v", err)
	}
	if result.Winner != "player" || result.WinnerLevel != "sudden-death" {
		t.Fatalf("unexpected winner %q (%s)", result.Winner, result.WinnerLevel)
	}
	if result.PlayerShots != battleship.FleetCells() {
		t.Errorf("player shots = %d, want %d", result.PlayerShots, battleship.FleetCells())
	}
	if result.VillainShots != battleship.FleetCells()-1 {
		t.Errorf("villain shots = %d, want %d", result.VillainShots, battleship.FleetCells()-1)
	}
	if n := result.Match.Boards[0].Count(battleship.Hit); n != 0 {
		t.Errorf("test level scored %d hits while water remained", n)
	}
}

func TestRunMatchDeterministic(t *testing.T) {
	cfg := ArenaConfig{LevelA: LevelHunter, LevelB: LevelHunter, Seed: 1234, DryRun: true}

	a, err := RunMatch(context.Background(), cfg, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunMatch(context.Background(), cfg, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Winner != b.Winner || a.Turns != b.Turns || a.PlayerShots != b.PlayerShots {
		t.Errorf("same seed gave different matches: %+v vs %+v", a, b)
	}
	if a.MatchID == b.MatchID {
		t.Error("match IDs should be unique")
	}
}

func TestRunMatchTurnLimit(t *testing.T) {
	cfg := ArenaConfig{LevelA: LevelRandom, LevelB: LevelRandom, Seed: 5, MaxTurns: 10, DryRun: true}

	result, err := RunMatch(context.Background(), cfg, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Winner != "" {
		t.Errorf("expected abandoned match, got winner %q", result.Winner)
	}
	if result.Turns != 10 || result.PlayerShots != 5 || result.VillainShots != 5 {
		t.Errorf("unexpected counts: %+v", result)
	}
}

func TestRunMatchInvalidLevel(t *testing.T) {
	cfg := ArenaConfig{LevelA: Level(9), LevelB: LevelHunter, DryRun: true}
	if _, err := RunMatch(context.Background(), cfg, nil, nil, nil); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestRunMatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := ArenaConfig{LevelA: LevelHunter, LevelB: LevelHunter, Seed: 3, DryRun: true}
	if _, err := RunMatch(ctx, cfg, nil, nil, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunMatchPersists(t *testing.T) {
	matches := newMemMatchRepo()
	scores := &memScoreRepo{}
	cache := newMemCache()
	hA, hB := NewHeatmap(), NewHeatmap()

	cfg := ArenaConfig{LevelA: LevelHunter, LevelB: LevelNoRepeat, Seed: 99, HeatmapA: hA, HeatmapB: hB}
	result, err := RunMatch(context.Background(), cfg, matches, scores, cache)
	if err != nil {
		t.Fatalf("RunMatch failed: %v", err)
	}

	if len(matches.created) != 1 || matches.created[0] != result.MatchID {
		t.Errorf("unexpected creates: %v", matches.created)
	}
	if len(matches.shots) != result.Turns {
		t.Errorf("saved %d shots, want %d", len(matches.shots), result.Turns)
	}
	for i, s := range matches.shots {
		if s.Turn != i+1 {
			t.Fatalf("shot %d has turn %d", i, s.Turn)
		}
	}

	fin, _ := matches.FindByID(context.Background(), result.MatchID)
	if fin == nil || fin.Winner != result.Winner {
		t.Fatalf("unexpected finished record: %+v", fin)
	}
	var boards map[string]*battleship.Board
	if err := json.Unmarshal(fin.FinalState, &boards); err != nil {
		t.Fatalf("final state: %v", err)
	}
	if boards["player"] == nil || boards["villain"] == nil {
		t.Fatalf("final state missing a board: %s", fin.FinalState)
	}

	if len(scores.scores) != 1 {
		t.Fatalf("expected one score, got %d", len(scores.scores))
	}
	wantName := "bot-" + result.WinnerLevel
	if scores.scores[0].Name != wantName {
		t.Errorf("score name %q, want %q", scores.scores[0].Name, wantName)
	}

	recorded := 0
	for _, byResult := range cache.counts {
		for _, n := range byResult {
			recorded += n
		}
	}
	if recorded != result.Turns {
		t.Errorf("cache saw %d shots, want %d", recorded, result.Turns)
	}
	if len(cache.deleted) != 1 || len(cache.snapshots) != 0 {
		t.Errorf("cache not cleared: deleted=%v snapshots=%d", cache.deleted, len(cache.snapshots))
	}

	if hA.Shots() != result.PlayerShots || hB.Shots() != result.VillainShots {
		t.Errorf("heatmaps %d/%d, want %d/%d", hA.Shots(), hB.Shots(), result.PlayerShots, result.VillainShots)
	}
}

func TestRunMatchDryRunSkipsRepos(t *testing.T) {
	matches := newMemMatchRepo()
	scores := &memScoreRepo{}
	cache := newMemCache()

	cfg := ArenaConfig{LevelA: LevelSuddenDeath, LevelB: LevelHunter, Seed: 2, DryRun: true}
	if _, err := RunMatch(context.Background(), cfg, matches, scores, cache); err != nil {
		t.Fatal(err)
	}
	if len(matches.created) != 0 || len(scores.scores) != 0 || len(cache.counts) != 0 {
		t.Error("dry run touched persistence")
	}
}

func TestRunMatchSaveError(t *testing.T) {
	matches := newMemMatchRepo()
	matches.failSave = true

	cfg := ArenaConfig{LevelA: LevelSuddenDeath, LevelB: LevelTest, Seed: 4}
	if _, err := RunMatch(context.Background(), cfg, matches, nil, nil); err == nil {
		t.Fatal("expected save error")
	}
}
