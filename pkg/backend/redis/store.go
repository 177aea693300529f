package redis

import (
	"context"
	"net"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/binstat/internal/constants"
	"github.com/hyp3rd/binstat/internal/sentinel"
)

// Store holds the single-node client the snapshot backend writes through.
type Store struct {
	Client *redis.Client
}

// New creates a redis store instance with the given options.
// No connection is made until the first command; use Ping to check reachability.
func New(opts ...Option) (*Store, error) {
	opt := &redis.Options{
		MaxRetries:   constants.RedisClientMaxRetries,
		DialTimeout:  constants.RedisDialTimeout,
		ReadTimeout:  constants.RedisClientReadTimeout,
		WriteTimeout: constants.RedisClientWriteTimeout,
		PoolSize:     constants.RedisClientPoolSize,
		MinIdleConns: constants.RedisClientMinIdleConns,
		PoolTimeout:  constants.RedisClientPoolTimeout,
	}

	ApplyOptions(opt, opts...)

	opt.Addr = strings.TrimSpace(opt.Addr)
	if opt.Addr == "" {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "redis address")
	}

	_, _, err := net.SplitHostPort(opt.Addr)
	if err != nil {
		return nil, ewrap.Wrapf(err, "redis address %q", opt.Addr)
	}

	return &Store{Client: redis.NewClient(opt)}, nil
}

// Ping checks that the server answers.
func (s *Store) Ping(ctx context.Context) error {
	err := s.Client.Ping(ctx).Err()
	if err != nil {
		return ewrap.Wrap(err, "redis ping")
	}

	return nil
}

// Close releases the client's connections.
func (s *Store) Close() error {
	return s.Client.Close()
}
