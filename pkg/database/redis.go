package database

import (
	"context"
	"fmt"
	"time"

	"quickshow/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects the client used for the seat cache. The task queue
// opens its own connection from the same config.
func InitRedis(config utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis failed: %w", err)
	}

	return client, nil
}
