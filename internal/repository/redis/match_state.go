package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// snapshotTTL bounds how long an abandoned match snapshot survives.
const snapshotTTL = 24 * time.Hour

// Key patterns for Redis match state.
func snapshotKey(matchID string) string    { return "match:" + matchID + ":snapshot" }
func shotsKey(matchID, side string) string { return "match:" + matchID + ":shots:" + side }

// resultFields names the hash fields used by RecordShot, indexed by the
// integer shot result.
var resultFields = [...]string{"miss", "hit", "sunk"}

// SetSnapshot stores the encoded match (save-file form).
func (c *Client) SetSnapshot(ctx context.Context, matchID, snapshot string) error {
	return c.rdb.Set(ctx, snapshotKey(matchID), snapshot, snapshotTTL).Err()
}

// GetSnapshot retrieves the encoded match, or "" if none is stored.
func (c *Client) GetSnapshot(ctx context.Context, matchID string) (string, error) {
	s, err := c.rdb.Get(ctx, snapshotKey(matchID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get snapshot: %w", err)
	}
	return s, nil
}

// RecordShot bumps the per-side counter for a shot result (0 miss, 1 hit,
// 2 sunk).
func (c *Client) RecordShot(ctx context.Context, matchID, side string, result int) error {
	if result < 0 || result >= len(resultFields) {
		return fmt.Errorf("record shot: unknown result %d", result)
	}
	key := shotsKey(matchID, side)
	pipe := c.rdb.TxPipeline()
	pipe.HIncrBy(ctx, key, resultFields[result], 1)
	pipe.Expire(ctx, key, snapshotTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record shot: %w", err)
	}
	return nil
}

// ShotCounts returns the result counters for one side.
func (c *Client) ShotCounts(ctx context.Context, matchID, side string) (map[string]int64, error) {
	raw, err := c.rdb.HGetAll(ctx, shotsKey(matchID, side)).Result()
	if err != nil {
		return nil, fmt.Errorf("shot counts: %w", err)
	}
	counts := make(map[string]int64, len(raw))
	for field, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("shot counts: field %s: %w", field, err)
		}
		counts[field] = n
	}
	return counts, nil
}

// DeleteMatchData removes all Redis data for a match (on match end).
func (c *Client) DeleteMatchData(ctx context.Context, matchID string, sides []string) error {
	keys := []string{snapshotKey(matchID)}
	for _, side := range sides {
		keys = append(keys, shotsKey(matchID, side))
	}
	return c.rdb.Del(ctx, keys...).Err()
}
