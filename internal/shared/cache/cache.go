package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Timeouts curtos: o Redis daqui serve pub/sub de mudanças e cache de
// snapshot; quando está fora, o serviço degrada para o arquivo local em
// vez de esperar.
const (
	dialTimeout = 2 * time.Second
	readTimeout = 1 * time.Second
	pingTimeout = 2 * time.Second
)

func ConnectRedis(addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: readTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}
