// Package stats collects operation counters for the binstat registry.
package stats

import "sync"

// Stats contains registry operation counters.
type Stats struct {
	StoresCreated   uint64 `json:"stores_created"`   // number of stores created
	StoresDropped   uint64 `json:"stores_dropped"`   // number of stores dropped
	SamplesAccepted uint64 `json:"samples_accepted"` // number of samples folded into a bin
	SamplesDropped  uint64 `json:"samples_dropped"`  // number of samples outside their grid
	SamplesFailed   uint64 `json:"samples_failed"`   // number of samples rejected with an error
	Merges          uint64 `json:"merges"`           // number of successful merges
	Persists        uint64 `json:"persists"`         // number of snapshots written to the backend
	Loads           uint64 `json:"loads"`            // number of snapshots read from the backend
}

// Collector is a struct for collecting registry statistics.
type Collector struct {
	mu    sync.RWMutex // mutex to protect concurrent access to the stats
	stats Stats        // registry statistics
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{}
}

// update applies fn to the stats under the write lock.
func (c *Collector) update(fn func(*Stats)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn(&c.stats)
}

// IncrementStoresCreated increments the number of created stores.
func (c *Collector) IncrementStoresCreated() {
	c.update(func(s *Stats) { s.StoresCreated++ })
}

// IncrementStoresDropped increments the number of dropped stores.
func (c *Collector) IncrementStoresDropped() {
	c.update(func(s *Stats) { s.StoresDropped++ })
}

// AddSamples records the outcome of an ingestion call.
func (c *Collector) AddSamples(accepted, dropped, failed uint64) {
	c.update(func(s *Stats) {
		s.SamplesAccepted += accepted
		s.SamplesDropped += dropped
		s.SamplesFailed += failed
	})
}

// IncrementMerges increments the number of merges.
func (c *Collector) IncrementMerges() {
	c.update(func(s *Stats) { s.Merges++ })
}

// IncrementPersists increments the number of persisted snapshots.
func (c *Collector) IncrementPersists() {
	c.update(func(s *Stats) { s.Persists++ })
}

// IncrementLoads increments the number of loaded snapshots.
func (c *Collector) IncrementLoads() {
	c.update(func(s *Stats) { s.Loads++ })
}

// GetStats returns a copy of the collected statistics.
func (c *Collector) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.stats
}
