package backend

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/binstat/internal/sentinel"
)

// redisKeys locates snapshots in a redis keyspace.
type redisKeys struct {
	prefix   string // prepended to every snapshot name
	namesSet string // set holding the stored names
}

func (k redisKeys) key(name string) string { return k.prefix + name }

// redisSave writes the snapshot and records its name in one transaction.
func redisSave(ctx context.Context, client redis.Cmdable, keys redisKeys, name string, data []byte) error {
	if strings.TrimSpace(name) == "" {
		return sentinel.ErrParamCannotBeEmpty
	}

	pipe := client.TxPipeline()
	pipe.Set(ctx, keys.key(name), data, 0)
	pipe.SAdd(ctx, keys.namesSet, name)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return ewrap.Wrap(err, "failed to execute redis pipeline")
	}

	return nil
}

func redisLoad(ctx context.Context, client redis.Cmdable, keys redisKeys, name string) ([]byte, error) {
	data, err := client.Get(ctx, keys.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrSnapshotNotFound
		}

		return nil, ewrap.Wrap(err, "failed to get snapshot from redis")
	}

	return data, nil
}

func redisDelete(ctx context.Context, client redis.Cmdable, keys redisKeys, names ...string) error {
	if len(names) == 0 {
		return nil
	}

	snapshotKeys := make([]string, 0, len(names))
	members := make([]any, 0, len(names))

	for _, name := range names {
		snapshotKeys = append(snapshotKeys, keys.key(name))
		members = append(members, name)
	}

	pipe := client.TxPipeline()
	pipe.Del(ctx, snapshotKeys...)
	pipe.SRem(ctx, keys.namesSet, members...)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return ewrap.Wrap(err, "failed to remove snapshots from redis")
	}

	return nil
}

func redisList(ctx context.Context, client redis.Cmdable, keys redisKeys) ([]string, error) {
	names, err := client.SMembers(ctx, keys.namesSet).Result()
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to get names from redis")
	}

	slices.Sort(names)

	return names, nil
}

func redisCount(ctx context.Context, client redis.Cmdable, keys redisKeys) int {
	count, err := client.SCard(ctx, keys.namesSet).Result()
	if err != nil {
		return 0
	}

	return int(count)
}
