package config

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// ConnectRedis opens the shared Redis client used for the waiting queue,
// the question-set cache and the token blacklist.
func ConnectRedis() error {
	dbIdx, _ := strconv.Atoi(envOrDefault("REDIS_DB", "0"))

	RDB = redis.NewClient(&redis.Options{
		Addr:     envOrDefault("REDIS_ADDR", "127.0.0.1:6379"),
		Password: envOrDefault("REDIS_PASSWORD", ""),
		DB:       dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return RDB.Ping(ctx).Err()
}
