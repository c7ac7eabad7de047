package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SeatCache is a short-TTL read cache for the occupied-seats endpoint. The
// seat map itself stays authoritative in Postgres; a stale read here is
// acceptable because reserve re-validates against the guarded map anyway.
type SeatCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewSeatCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *SeatCache {
	return &SeatCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With(zap.String("cache", "seats")),
	}
}

func seatsKey(showID uuid.UUID) string {
	return fmt.Sprintf("show:%s:occupied", showID.String())
}

// Get returns the cached seat labels; any redis failure is treated as a miss.
func (c *SeatCache) Get(ctx context.Context, showID uuid.UUID) ([]string, bool) {
	raw, err := c.rdb.Get(ctx, seatsKey(showID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("Seat cache read failed", zap.Error(err), zap.String("show_id", showID.String()))
		return nil, false
	}

	var seats []string
	if err := json.Unmarshal(raw, &seats); err != nil {
		c.log.Warn("Seat cache decode failed", zap.Error(err), zap.String("show_id", showID.String()))
		return nil, false
	}

	return seats, true
}

func (c *SeatCache) Set(ctx context.Context, showID uuid.UUID, seats []string) {
	raw, err := json.Marshal(seats)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, seatsKey(showID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Seat cache write failed", zap.Error(err), zap.String("show_id", showID.String()))
	}
}

func (c *SeatCache) Invalidate(ctx context.Context, showID uuid.UUID) {
	if err := c.rdb.Del(ctx, seatsKey(showID)).Err(); err != nil {
		c.log.Warn("Seat cache invalidation failed", zap.Error(err), zap.String("show_id", showID.String()))
	}
}
