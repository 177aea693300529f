package backend

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/binstat/internal/constants"
	"github.com/hyp3rd/binstat/internal/sentinel"
)

// Redis is a snapshot backend that stores encoded snapshots in a redis server.
// Each snapshot lives under a prefixed string key; a set tracks the stored names.
type Redis struct {
	rdb  *redis.Client // redis client to interact with the redis server
	keys redisKeys
}

// NewRedis creates a new redis backend with the given options.
func NewRedis(redisOptions ...Option[Redis]) (*Redis, error) {
	rb := &Redis{}
	// Apply the backend options
	ApplyOptions(rb, redisOptions...)

	// Check if the client is nil
	if rb.rdb == nil {
		return nil, sentinel.ErrNilClient
	}

	if rb.keys.prefix == "" {
		rb.keys.prefix = constants.RedisKeyPrefix
	}

	if rb.keys.namesSet == "" {
		rb.keys.namesSet = constants.RedisNamesSetName
	}

	return rb, nil
}

// Save stores data under name and records the name.
func (cacheBackend *Redis) Save(ctx context.Context, name string, data []byte) error {
	return redisSave(ctx, cacheBackend.rdb, cacheBackend.keys, name, data)
}

// Load returns the snapshot stored under name.
func (cacheBackend *Redis) Load(ctx context.Context, name string) ([]byte, error) {
	return redisLoad(ctx, cacheBackend.rdb, cacheBackend.keys, name)
}

// Delete removes the snapshots stored under names.
func (cacheBackend *Redis) Delete(ctx context.Context, names ...string) error {
	return redisDelete(ctx, cacheBackend.rdb, cacheBackend.keys, names...)
}

// List returns the stored names in ascending order.
func (cacheBackend *Redis) List(ctx context.Context) ([]string, error) {
	return redisList(ctx, cacheBackend.rdb, cacheBackend.keys)
}

// Count returns the number of stored snapshots.
func (cacheBackend *Redis) Count(ctx context.Context) int {
	return redisCount(ctx, cacheBackend.rdb, cacheBackend.keys)
}
