package backend

import (
	"github.com/redis/go-redis/v9"
)

// Option is a function type that can be used to configure a backend.
type Option[T IBackendConstrain] func(*T)

// ApplyOptions applies the given options to the given backend.
func ApplyOptions[T IBackendConstrain](backend *T, options ...Option[T]) {
	for _, option := range options {
		option(backend)
	}
}

// WithRedisClient is an option that sets the redis client to use.
func WithRedisClient(client *redis.Client) Option[Redis] {
	return func(backend *Redis) {
		backend.rdb = client
	}
}

// WithKeyPrefix is an option that sets the prefix of every snapshot key.
func WithKeyPrefix(prefix string) Option[Redis] {
	return func(backend *Redis) {
		backend.keys.prefix = prefix
	}
}

// WithNamesSetName is an option that sets the name of the set that holds the snapshot names.
func WithNamesSetName(name string) Option[Redis] {
	return func(backend *Redis) {
		backend.keys.namesSet = name
	}
}

// WithRedisClusterClient sets the redis cluster client to use.
func WithRedisClusterClient(client *redis.ClusterClient) Option[RedisCluster] {
	return func(backend *RedisCluster) {
		backend.rdb = client
	}
}

// WithClusterKeys sets the snapshot key prefix and the names set of a cluster backend.
// Both should carry the same hash tag, e.g. "{metrics}:" and "{metrics}:names".
func WithClusterKeys(prefix, namesSet string) Option[RedisCluster] {
	return func(backend *RedisCluster) {
		backend.keys.prefix = prefix
		backend.keys.namesSet = namesSet
	}
}
