package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DailyMatchCache caches the day's suggestions per user and collapses
// concurrent regeneration attempts behind a short-lived lock: the
// first writer computes, later callers read its result.
type DailyMatchCache struct {
	client *redis.Client
	ttl    time.Duration
}

const generationLockTTL = 60 * time.Second

func NewDailyMatchCache(client *redis.Client, ttl time.Duration) *DailyMatchCache {
	return &DailyMatchCache{client: client, ttl: ttl}
}

func (c *DailyMatchCache) key(userID int64, day time.Time) string {
	return fmt.Sprintf("daily_matches:%d:%s", userID, day.Format("2006-01-02"))
}

func (c *DailyMatchCache) lockKey(userID int64, day time.Time) string {
	return c.key(userID, day) + ":lock"
}

// Get returns the cached suggestions for the user's current day, or
// nil on a miss
func (c *DailyMatchCache) Get(ctx context.Context, userID int64) ([]*ScoredCandidate, error) {
	data, err := c.client.Get(ctx, c.key(userID, time.Now())).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var matches []*ScoredCandidate
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// Set stores the day's suggestions with the configured TTL
func (c *DailyMatchCache) Set(ctx context.Context, userID int64, matches []*ScoredCandidate) error {
	data, err := json.Marshal(matches)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID, time.Now()), data, c.ttl).Err()
}

// AcquireGenerationLock reports whether the caller won the right to
// compute today's suggestions for the user
func (c *DailyMatchCache) AcquireGenerationLock(ctx context.Context, userID int64) (bool, error) {
	return c.client.SetNX(ctx, c.lockKey(userID, time.Now()), 1, generationLockTTL).Result()
}

// ReleaseGenerationLock releases the computation lock early
func (c *DailyMatchCache) ReleaseGenerationLock(ctx context.Context, userID int64) {
	c.client.Del(ctx, c.lockKey(userID, time.Now()))
}
