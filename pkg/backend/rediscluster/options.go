// Package rediscluster builds the go-redis cluster client used by the
// Redis Cluster snapshot backend.
package rediscluster

import (
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option is a function type that can be used to configure the redis ClusterClient Options.
type Option func(*redis.ClusterOptions)

// ApplyOptions applies a list of options to the provided ClusterOptions.
func ApplyOptions(opt *redis.ClusterOptions, options ...Option) {
	for _, option := range options {
		option(opt)
	}
}

// WithAddrs sets the seed addresses of the cluster nodes.
func WithAddrs(addrs ...string) Option {
	return func(opt *redis.ClusterOptions) {
		opt.Addrs = addrs
	}
}

// WithCredentials sets the ACL username and password.
func WithCredentials(username, password string) Option {
	return func(opt *redis.ClusterOptions) {
		opt.Username = username
		opt.Password = password
	}
}

// WithTimeouts sets dial, read and write timeouts at once.
func WithTimeouts(dial, read, write time.Duration) Option {
	return func(opt *redis.ClusterOptions) {
		opt.DialTimeout = dial
		opt.ReadTimeout = read
		opt.WriteTimeout = write
	}
}

// WithPool sizes the per-node connection pool.
func WithPool(size, minIdle int) Option {
	return func(opt *redis.ClusterOptions) {
		opt.PoolSize = size
		opt.MinIdleConns = minIdle
	}
}

// WithTLSConfig enables TLS.
func WithTLSConfig(tlsConfig *tls.Config) Option {
	return func(opt *redis.ClusterOptions) {
		opt.TLSConfig = tlsConfig
	}
}
