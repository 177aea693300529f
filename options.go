package binstat

import (
	"github.com/hyp3rd/binstat/pkg/backend"
	"github.com/hyp3rd/binstat/pkg/stats"
)

// Logger describes a logging interface allowing to implement different external, or custom logger.
// A *log.Logger satisfies it; zap.NewStdLog adapts a zap logger.
type Logger interface {
	Printf(format string, v ...any)
}

// Option is a function type that can be used to configure the `Registry` struct.
type Option func(*Registry)

// ApplyOptions applies the given options to the given registry.
func ApplyOptions(registry *Registry, options ...Option) {
	for _, option := range options {
		option(registry)
	}
}

// WithDefaultDDOF is an option that sets the ddof of stores created without an explicit WithDDOF.
func WithDefaultDDOF(ddof uint) Option {
	return func(registry *Registry) {
		registry.defaultDDOF = ddof
	}
}

// WithSerializer is an option that sets the name of the serializer used to encode snapshots.
// The name must be one of "json" (default), "msgpack" or "cbor".
func WithSerializer(name string) Option {
	return func(registry *Registry) {
		registry.serializerName = name
	}
}

// WithBackend is an option that sets the backend snapshots are persisted to.
// Without a backend Persist and Load fail with ErrBackendNotFound.
func WithBackend(b backend.IBackend) Option {
	return func(registry *Registry) {
		registry.backend = b
	}
}

// WithStatsCollector is an option that sets the stats collector of the registry.
// It can be shared with other registries to aggregate counters.
func WithStatsCollector(collector *stats.Collector) Option {
	return func(registry *Registry) {
		registry.statsCollector = collector
	}
}

// WithLogger is an option that sets the logger used for lifecycle events.
func WithLogger(logger Logger) Option {
	return func(registry *Registry) {
		registry.logger = logger
	}
}
