package config

import (
	"sync"

	"github.com/redis/go-redis/v9"
)

// SetRedisClientForTesting allows tests to inject a mock Redis client.
// This should only be used in tests.
func SetRedisClientForTesting(client *redis.Client) {
	redisClient = client
}

// ResetRedisClientForTesting resets the Redis client singleton so a test can
// drive ConnectRedis again. This should only be used in tests.
func ResetRedisClientForTesting() {
	redisClient = nil
	redisOnce = sync.Once{}
}

// ResetConfigForTesting resets the configuration singleton so a test can
// reload it under different environment variables.
func ResetConfigForTesting() {
	config = nil
	once = sync.Once{}
}
