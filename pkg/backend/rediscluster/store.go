package rediscluster

import (
	"context"
	"net"
	"slices"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/binstat/internal/constants"
	"github.com/hyp3rd/binstat/internal/sentinel"
)

// Store holds the ClusterClient the snapshot backend writes through.
type Store struct {
	Client *redis.ClusterClient
}

// New validates the seed addresses and builds a cluster client. Duplicate
// seeds are collapsed; nothing is dialed until the first command.
func New(opts ...Option) (*Store, error) {
	opt := &redis.ClusterOptions{
		MaxRetries:   constants.RedisClientMaxRetries,
		DialTimeout:  constants.RedisDialTimeout,
		ReadTimeout:  constants.RedisClientReadTimeout,
		WriteTimeout: constants.RedisClientWriteTimeout,
		PoolSize:     constants.RedisClientPoolSize,
		MinIdleConns: constants.RedisClientMinIdleConns,
		PoolTimeout:  constants.RedisClientPoolTimeout,
	}

	ApplyOptions(opt, opts...)

	addrs, err := seeds(opt.Addrs)
	if err != nil {
		return nil, err
	}

	opt.Addrs = addrs

	return &Store{Client: redis.NewClusterClient(opt)}, nil
}

func seeds(addrs []string) ([]string, error) {
	if len(addrs) == 0 {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "redis cluster addrs")
	}

	out := make([]string, 0, len(addrs))

	for _, addr := range addrs {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "redis cluster address")
		}

		_, _, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, ewrap.Wrapf(err, "redis cluster address %q", addr)
		}

		if !slices.Contains(out, addr) {
			out = append(out, addr)
		}
	}

	return out, nil
}

// Ping checks that every master answers.
func (s *Store) Ping(ctx context.Context) error {
	err := s.Client.ForEachMaster(ctx, func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		return ewrap.Wrap(err, "redis cluster ping")
	}

	return nil
}

// Close releases the client's connections.
func (s *Store) Close() error {
	return s.Client.Close()
}
