// Package constants defines default configuration values for the binstat system.
// It provides standard settings for store construction, snapshot serialization,
// and the management HTTP server.
package constants

import "time"

const (
	// DefaultDDOF is the degrees-of-freedom adjustment used when none is given,
	// yielding the population variance.
	DefaultDDOF = 0
	// JSONSerializer is the name of the goccy/go-json snapshot serializer.
	JSONSerializer = "json"
	// MsgpackSerializer is the name of the msgpack snapshot serializer.
	MsgpackSerializer = "msgpack"
	// CBORSerializer is the name of the CBOR snapshot serializer.
	CBORSerializer = "cbor"
	// DefaultSerializer is the serializer used to encode snapshots when none is configured.
	DefaultSerializer = JSONSerializer
	// InMemoryBackend is the in-memory snapshot backend type.
	InMemoryBackend = "in-memory"
	// RedisBackend is the name of the Redis snapshot backend.
	RedisBackend = "redis"
	// RedisClusterBackend is the name of the Redis Cluster snapshot backend.
	RedisClusterBackend = "redis-cluster"
	// DefaultMgmtReadTimeout bounds reading a management request.
	DefaultMgmtReadTimeout = 5 * time.Second
	// DefaultMgmtWriteTimeout bounds writing a management response.
	DefaultMgmtWriteTimeout = 5 * time.Second
	// DefaultMgmtBodyLimit caps management request bodies; sample batches can be large.
	DefaultMgmtBodyLimit = 16 << 20
)
