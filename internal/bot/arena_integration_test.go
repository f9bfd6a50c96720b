//go:build integration

package bot

import (
	"context"
	"testing"

	"github.com/freeeve/battleship/internal/repository/postgres"
	"github.com/freeeve/battleship/internal/repository/redis"
	"github.com/freeeve/battleship/internal/testutil"
)

// Run with: go test -tags integration -run TestRunMatchStoresHistory -v -count=1
func TestRunMatchStoresHistory(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.CleanupDB(t, db)
	rdb := testutil.SetupRedis(t)
	testutil.CleanupRedis(t, rdb)

	matches := postgres.NewMatchRepo(db)
	scores := postgres.NewScoreRepo(db)
	cache := redis.NewClientFromPool(rdb)
	ctx := context.Background()

	cfg := ArenaConfig{LevelA: LevelHunter, LevelB: LevelNoRepeat, Seed: 11}
	result, err := RunMatch(ctx, cfg, matches, scores, cache)
	if err != nil {
		t.Fatalf("RunMatch failed: %v", err)
	}

	stored, err := matches.FindByID(ctx, result.MatchID)
	if err != nil {
		t.Fatalf("find match: %v", err)
	}
	if stored == nil {
		t.Fatal("match not stored")
	}
	if stored.Status != "finished" || stored.Winner != result.Winner {
		t.Errorf("unexpected stored match: status=%s winner=%s", stored.Status, stored.Winner)
	}
	if stored.LevelA != int(LevelHunter) || stored.LevelB != int(LevelNoRepeat) || stored.Seed != 11 {
		t.Errorf("unexpected levels/seed: %+v", stored)
	}
	if len(stored.FinalState) == 0 {
		t.Error("final state not stored")
	}

	shots, err := matches.ShotsByMatch(ctx, result.MatchID)
	if err != nil {
		t.Fatalf("shots by match: %v", err)
	}
	if len(shots) != result.Turns {
		t.Errorf("stored %d shots, want %d", len(shots), result.Turns)
	}

	top, err := scores.Top(ctx, 10)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(top) != 1 || top[0].Name != "bot-"+result.WinnerLevel {
		t.Errorf("unexpected scores: %+v", top)
	}

	snap, err := cache.GetSnapshot(ctx, result.MatchID)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if snap != "" {
		t.Error("live snapshot should be cleared after the match")
	}
}
