package binstat

import (
	"context"
	"errors"
	"io"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/binstat/internal/constants"
	"github.com/hyp3rd/binstat/pkg/backend"
	"github.com/hyp3rd/binstat/pkg/backend/redis"
	"github.com/hyp3rd/binstat/pkg/backend/rediscluster"
)

// Config is a struct that wraps all the configuration options to setup a `Registry` and its backend.
type Config struct {
	// BackendType selects the snapshot backend: "" (none), "in-memory", "redis" or "redis-cluster".
	BackendType string
	// RedisOptions configure the redis client when BackendType is "redis".
	RedisOptions []redis.Option
	// RedisBackendOptions configure the redis backend (key prefix, names set).
	RedisBackendOptions []backend.Option[backend.Redis]
	// RedisClusterOptions configure the cluster client when BackendType is "redis-cluster".
	RedisClusterOptions []rediscluster.Option
	// RedisClusterBackendOptions configure the cluster backend (keys, names set).
	RedisClusterBackendOptions []backend.Option[backend.RedisCluster]
	// RegistryOptions configure the `Registry`.
	RegistryOptions []Option
}

// NewConfig returns a new `Config` struct with default values:
//   - `BackendType` is empty (no persistence)
//   - `RegistryOptions` is set to:
//     -- `WithDefaultDDOF(0)`
//     -- `WithSerializer("json")`
//
// Each of the above options can be overridden by appending a different option.
func NewConfig() *Config {
	return &Config{
		RegistryOptions: []Option{
			WithDefaultDDOF(constants.DefaultDDOF),
			WithSerializer(constants.DefaultSerializer),
		},
	}
}

// pinger is the client handle behind a remote backend.
type pinger interface {
	Ping(ctx context.Context) error
	io.Closer
}

// NewRegistryFromConfig builds the configured backend and a registry on top of it.
// Remote clients are pinged before the registry is returned; the registry
// closes them on Stop.
func NewRegistryFromConfig(ctx context.Context, cfg *Config) (*Registry, error) {
	opts := append([]Option(nil), cfg.RegistryOptions...)

	var client pinger

	switch cfg.BackendType {
	case "":
	case constants.InMemoryBackend:
		b, err := backend.NewInMemory()
		if err != nil {
			return nil, err
		}

		opts = append(opts, WithBackend(b))
	case constants.RedisBackend:
		store, err := redis.New(cfg.RedisOptions...)
		if err != nil {
			return nil, err
		}

		client = store

		b, err := backend.NewRedis(append([]backend.Option[backend.Redis]{backend.WithRedisClient(store.Client)}, cfg.RedisBackendOptions...)...)
		if err != nil {
			return nil, closeOnError(client, err)
		}

		opts = append(opts, WithBackend(b))
	case constants.RedisClusterBackend:
		store, err := rediscluster.New(cfg.RedisClusterOptions...)
		if err != nil {
			return nil, err
		}

		client = store

		clusterOpts := append(
			[]backend.Option[backend.RedisCluster]{backend.WithRedisClusterClient(store.Client)},
			cfg.RedisClusterBackendOptions...,
		)

		b, err := backend.NewRedisCluster(clusterOpts...)
		if err != nil {
			return nil, closeOnError(client, err)
		}

		opts = append(opts, WithBackend(b))
	default:
		return nil, ewrap.Newf("unknown backend type %q", cfg.BackendType)
	}

	if client != nil {
		err := client.Ping(ctx)
		if err != nil {
			return nil, closeOnError(client, ewrap.Wrapf(err, "%s backend unreachable", cfg.BackendType))
		}
	}

	registry, err := NewRegistry(opts...)
	if err != nil {
		return nil, closeOnError(client, err)
	}

	if client != nil {
		registry.closer = client
	}

	return registry, nil
}

func closeOnError(client io.Closer, err error) error {
	if client == nil {
		return err
	}

	return errors.Join(err, client.Close())
}
