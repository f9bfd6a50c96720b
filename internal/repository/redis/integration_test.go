//go:build integration

package redis

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"github.com/freeeve/battleship/internal/testutil"
)

var testRDB *goredis.Client

func setup(t *testing.T) *Client {
	t.Helper()
	if testRDB == nil {
		testRDB = testutil.SetupRedis(t)
	}
	testutil.CleanupRedis(t, testRDB)
	return NewClientFromPool(testRDB)
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	if err := c.SetSnapshot(ctx, "m-1", "line1\nline2\n"); err != nil {
		t.Fatalf("set snapshot: %v", err)
	}
	got, err := c.GetSnapshot(ctx, "m-1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if got != "line1\nline2\n" {
		t.Fatalf("unexpected snapshot %q", got)
	}

	ttl, err := testRDB.TTL(ctx, snapshotKey("m-1")).Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > snapshotTTL {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestSnapshotNotFound(t *testing.T) {
	c := setup(t)
	got, err := c.GetSnapshot(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("get missing snapshot: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty snapshot, got %q", got)
	}
}

func TestRecordShot(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	for _, r := range []int{0, 0, 1, 2} {
		if err := c.RecordShot(ctx, "m-1", "player", r); err != nil {
			t.Fatalf("record shot %d: %v", r, err)
		}
	}
	if err := c.RecordShot(ctx, "m-1", "player", 7); err == nil {
		t.Fatal("expected error for unknown result")
	}

	counts, err := c.ShotCounts(ctx, "m-1", "player")
	if err != nil {
		t.Fatalf("shot counts: %v", err)
	}
	if counts["miss"] != 2 || counts["hit"] != 1 || counts["sunk"] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}

	empty, err := c.ShotCounts(ctx, "m-1", "villain")
	if err != nil {
		t.Fatalf("shot counts: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no villain counts, got %v", empty)
	}
}

func TestDeleteMatchData(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	c.SetSnapshot(ctx, "m-1", "snap")
	c.RecordShot(ctx, "m-1", "player", 1)
	c.RecordShot(ctx, "m-1", "villain", 0)

	if err := c.DeleteMatchData(ctx, "m-1", []string{"player", "villain"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	n, err := testRDB.Exists(ctx, snapshotKey("m-1"), shotsKey("m-1", "player"), shotsKey("m-1", "villain")).Result()
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected all keys gone, %d remain", n)
	}
}
