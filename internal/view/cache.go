package view

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "view:snapshot"

// Cache guarda o último snapshot montado no Redis por um TTL curto,
// poupando remontagens em rajadas de GET /api/view.
type Cache struct{ R *redis.Client }

func NewCache(r *redis.Client) *Cache { return &Cache{R: r} }

func (c *Cache) Get(ctx context.Context, dst *Snapshot) (bool, error) {
	b, err := c.R.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) Set(ctx context.Context, snap Snapshot, ttl time.Duration) error {
	b, _ := json.Marshal(snap)
	return c.R.Set(ctx, snapshotKey, b, ttl).Err()
}
