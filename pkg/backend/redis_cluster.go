package backend

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/binstat/internal/constants"
	"github.com/hyp3rd/binstat/internal/sentinel"
)

// RedisCluster is a snapshot backend over a Redis Cluster.
// It mirrors the single-node Redis backend; its default keys share one hash
// tag so the save and delete transactions stay on a single slot.
type RedisCluster struct {
	rdb  *redis.ClusterClient // redis cluster client
	keys redisKeys
}

// NewRedisCluster creates a new Redis Cluster backend with the given options.
func NewRedisCluster(redisOptions ...Option[RedisCluster]) (*RedisCluster, error) {
	rc := &RedisCluster{}

	ApplyOptions(rc, redisOptions...)

	if rc.rdb == nil {
		return nil, sentinel.ErrNilClient
	}

	if rc.keys.prefix == "" {
		rc.keys.prefix = constants.RedisClusterKeyPrefix
	}

	if rc.keys.namesSet == "" {
		rc.keys.namesSet = constants.RedisClusterNamesSetName
	}

	return rc, nil
}

// Save stores data under name and records the name.
func (cacheBackend *RedisCluster) Save(ctx context.Context, name string, data []byte) error {
	return redisSave(ctx, cacheBackend.rdb, cacheBackend.keys, name, data)
}

// Load returns the snapshot stored under name.
func (cacheBackend *RedisCluster) Load(ctx context.Context, name string) ([]byte, error) {
	return redisLoad(ctx, cacheBackend.rdb, cacheBackend.keys, name)
}

// Delete removes the snapshots stored under names.
func (cacheBackend *RedisCluster) Delete(ctx context.Context, names ...string) error {
	return redisDelete(ctx, cacheBackend.rdb, cacheBackend.keys, names...)
}

// List returns the stored names in ascending order.
func (cacheBackend *RedisCluster) List(ctx context.Context) ([]string, error) {
	return redisList(ctx, cacheBackend.rdb, cacheBackend.keys)
}

// Count returns the number of stored snapshots.
func (cacheBackend *RedisCluster) Count(ctx context.Context) int {
	return redisCount(ctx, cacheBackend.rdb, cacheBackend.keys)
}
