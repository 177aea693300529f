package backend

import (
	"sync"
)

const (
	// shardCount is the number of shards used by the map.
	shardCount = 32
	// shardCount32 is the number of shards pre-casted to uint32.
	shardCount32 uint32 = uint32(shardCount)
)

// shardedMap is a "thread" safe map of type string:[]byte.
// To avoid lock bottlenecks this map is divided into several (shardCount) map shards.
type shardedMap struct {
	shards []*mapShard
}

// mapShard is a "thread" safe string to []byte map shard.
type mapShard struct {
	sync.RWMutex

	items map[string][]byte
}

func newShardedMap() shardedMap {
	shards := make([]*mapShard, shardCount)
	for i := range shardCount {
		shards[i] = &mapShard{
			items: make(map[string][]byte),
		}
	}

	return shardedMap{shards: shards}
}

// shard returns shard under given key.
func (m *shardedMap) shard(key string) *mapShard {
	// Inline FNV-1a 32-bit hashing to avoid allocations.
	const (
		fnvOffset32 = 2166136261
		fnvPrime32  = 16777619
	)

	var sum uint32 = fnvOffset32
	for i := range key {
		sum ^= uint32(key[i])

		sum *= fnvPrime32
	}

	return m.shards[sum&(shardCount32-1)]
}

// Set sets the given value under the specified key.
func (m *shardedMap) Set(key string, value []byte) {
	shard := m.shard(key)
	shard.Lock()

	shard.items[key] = value
	shard.Unlock()
}

// Get retrieves an element from map under given key.
func (m *shardedMap) Get(key string) ([]byte, bool) {
	shard := m.shard(key)
	shard.RLock()

	value, ok := shard.items[key]
	shard.RUnlock()

	return value, ok
}

// Remove removes an element from the map.
func (m *shardedMap) Remove(key string) {
	shard := m.shard(key)
	shard.Lock()

	delete(shard.items, key)
	shard.Unlock()
}

// Keys returns all keys, in no particular order.
func (m *shardedMap) Keys() []string {
	keys := make([]string, 0, m.Count())

	for _, shard := range m.shards {
		shard.RLock()

		for key := range shard.items {
			keys = append(keys, key)
		}

		shard.RUnlock()
	}

	return keys
}

// Count returns the number of elements within the map.
func (m *shardedMap) Count() int {
	count := 0

	for _, shard := range m.shards {
		shard.RLock()
		count += len(shard.items)
		shard.RUnlock()
	}

	return count
}
