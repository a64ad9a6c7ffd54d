package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/go-redis/redis/v8"
)

// cacheEntryTTL bounds staleness if an invalidation is ever missed
const cacheEntryTTL = 30 * time.Second

// Cache is a read-through redis cache in front of an Aggregator. Balances
// are recomputed on every ledger write, so entries are short-lived and
// explicitly invalidated whenever an expense or settlement in the trip
// changes. Redis being down degrades to computing straight from the
// database, never to an error.
type Cache struct {
	rdb  *redis.Client
	next Aggregator
}

// NewCache creates a balance cache over the given aggregator
func NewCache(rdb *redis.Client, next Aggregator) *Cache {
	return &Cache{rdb: rdb, next: next}
}

func tripKey(tripID int64) string {
	return fmt.Sprintf("trip-balances:%d", tripID)
}

// TripBalances returns the cached balances for a trip, computing and
// caching them on a miss.
func (c *Cache) TripBalances(ctx context.Context, tripID int64) ([]UserBalance, error) {
	key := tripKey(tripID)

	val, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		var balances []UserBalance
		if err := json.Unmarshal([]byte(val), &balances); err == nil {
			return balances, nil
		}
		slog.Warn("discarding undecodable balance cache entry", "key", key)
	} else if err != redis.Nil {
		slog.Warn("balance cache read failed", "key", key, "error", err)
	}

	balances, err := c.next.TripBalances(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(balances); err == nil {
		if err := c.rdb.Set(ctx, key, encoded, cacheEntryTTL).Err(); err != nil {
			slog.Warn("balance cache write failed", "key", key, "error", err)
		}
	}

	return balances, nil
}

// InvalidateTrip drops the cached balances for a trip
func (c *Cache) InvalidateTrip(ctx context.Context, tripID int64) {
	if err := c.rdb.Del(ctx, tripKey(tripID)).Err(); err != nil {
		slog.Warn("balance cache invalidation failed", "trip_id", tripID, "error", err)
	}
}
