package binstat

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/hyp3rd/ewrap"
	"gonum.org/v1/gonum/mat"

	"github.com/hyp3rd/binstat/internal/constants"
	"github.com/hyp3rd/binstat/internal/libs/serializer"
	"github.com/hyp3rd/binstat/internal/sentinel"
	"github.com/hyp3rd/binstat/pkg/backend"
	"github.com/hyp3rd/binstat/pkg/grid"
	"github.com/hyp3rd/binstat/pkg/stats"
)

// Registry owns a set of named float64 stores and makes them safe for concurrent use.
//
// Each store has its own writer lock, so producers feeding different stores
// never contend. Readers get copies (Report, Snapshot), never live views.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*entry

	defaultDDOF    uint
	serializerName string
	serializer     serializer.ISerializer
	backend        backend.IBackend
	closer         io.Closer
	statsCollector *stats.Collector
	logger         Logger
}

type entry struct {
	mu    sync.Mutex
	store *Store[float64]
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) (*Registry, error) {
	registry := &Registry{
		stores:         make(map[string]*entry),
		defaultDDOF:    constants.DefaultDDOF,
		serializerName: constants.DefaultSerializer,
	}

	ApplyOptions(registry, opts...)

	ser, err := serializer.New(registry.serializerName)
	if err != nil {
		return nil, err
	}

	registry.serializer = ser

	if registry.statsCollector == nil {
		registry.statsCollector = stats.NewCollector()
	}

	return registry, nil
}

// Create implements Service.
func (r *Registry) Create(_ context.Context, name string, edges [][]float64, opts ...StoreOption) error {
	if strings.TrimSpace(name) == "" {
		return ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "name")
	}

	g, err := grid.FromEdges(edges...)
	if err != nil {
		return err
	}

	store := New[float64](g, append([]StoreOption{WithDDOF(r.defaultDDOF)}, opts...)...)
	name = strings.Clone(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[name]; ok {
		return ewrap.Wrap(sentinel.ErrStoreExists, name)
	}

	r.stores[name] = &entry{store: store}
	r.statsCollector.IncrementStoresCreated()
	r.logf("created store %q with shape %v and ddof %d", name, store.Shape(), store.DDOF())

	return nil
}

// Drop implements Service. The persisted snapshot, if any, is deleted too.
func (r *Registry) Drop(ctx context.Context, name string) error {
	r.mu.Lock()

	if _, ok := r.stores[name]; !ok {
		r.mu.Unlock()

		return ewrap.Wrap(sentinel.ErrStoreNotFound, name)
	}

	delete(r.stores, name)
	r.mu.Unlock()

	r.statsCollector.IncrementStoresDropped()
	r.logf("dropped store %q", name)

	if r.backend == nil {
		return nil
	}

	err := r.backend.Delete(ctx, name)
	if err != nil {
		return ewrap.Wrapf(err, "delete snapshot %q", name)
	}

	return nil
}

// Names implements Service.
func (r *Registry) Names(_ context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Observe implements Service.
func (r *Registry) Observe(_ context.Context, name string, point []float64, value float64) error {
	e, err := r.lookup(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	err = e.store.AddSample(point, value)
	e.mu.Unlock()

	switch {
	case err == nil:
		r.statsCollector.AddSamples(1, 0, 0)
	case errors.Is(err, sentinel.ErrBinNotFound):
		r.statsCollector.AddSamples(0, 1, 0)
	default:
		r.statsCollector.AddSamples(0, 0, 1)
	}

	return err
}

// ObserveBatch implements Service.
func (r *Registry) ObserveBatch(ctx context.Context, name string, points [][]float64, values []float64) (int, error) {
	err := ctx.Err()
	if err != nil {
		return 0, ewrap.Wrap(err, "observe batch")
	}

	e, err := r.lookup(name)
	if err != nil {
		return 0, err
	}

	if len(points) != len(values) {
		return 0, ewrap.Wrapf(sentinel.ErrLengthMismatch, "%d points, %d values", len(points), len(values))
	}

	if len(points) == 0 {
		return 0, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ndim := e.store.NDim()
	flat := make([]float64, 0, len(points)*ndim)

	for i, p := range points {
		if len(p) != ndim {
			return 0, ewrap.Wrapf(sentinel.ErrDimensionMismatch, "row %d has %d coordinates, grid has %d axes", i, len(p), ndim)
		}

		flat = append(flat, p...)
	}

	accepted, err := e.store.AddSamples(mat.NewDense(len(points), ndim, flat), values)

	if err != nil {
		r.statsCollector.AddSamples(uint64(accepted), 0, 1)

		return accepted, err
	}

	r.statsCollector.AddSamples(uint64(accepted), uint64(len(points)-accepted), 0)

	return accepted, nil
}

// Report implements Service.
func (r *Registry) Report(_ context.Context, name string) (Report, error) {
	e, err := r.lookup(name)
	if err != nil {
		return Report{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return NewReport(e.store), nil
}

// Snapshot implements Service.
func (r *Registry) Snapshot(_ context.Context, name string) (*Snapshot, error) {
	e, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.Snapshot()
}

// Merge implements Service. The source store is left untouched.
func (r *Registry) Merge(_ context.Context, dst, src string) error {
	target, err := r.lookup(dst)
	if err != nil {
		return err
	}

	source, err := r.lookup(src)
	if err != nil {
		return err
	}

	// copy the source first so the two locks are never held together
	source.mu.Lock()
	other := source.store.Clone()
	source.mu.Unlock()

	target.mu.Lock()
	err = target.store.MergeFrom(other)
	target.mu.Unlock()

	if err != nil {
		return ewrap.Wrapf(err, "merge %q into %q", src, dst)
	}

	r.statsCollector.IncrementMerges()
	r.logf("merged store %q into %q", src, dst)

	return nil
}

// Persist implements Service.
func (r *Registry) Persist(ctx context.Context, name string) error {
	if r.backend == nil {
		return sentinel.ErrBackendNotFound
	}

	snap, err := r.Snapshot(ctx, name)
	if err != nil {
		return err
	}

	data, err := r.serializer.Marshal(snap)
	if err != nil {
		return err
	}

	err = r.backend.Save(ctx, name, data)
	if err != nil {
		return ewrap.Wrapf(err, "persist %q", name)
	}

	r.statsCollector.IncrementPersists()
	r.logf("persisted store %q (%d bytes, %s)", name, len(data), r.serializerName)

	return nil
}

// Load implements Service.
func (r *Registry) Load(ctx context.Context, name string) error {
	if r.backend == nil {
		return sentinel.ErrBackendNotFound
	}

	data, err := r.backend.Load(ctx, name)
	if err != nil {
		return ewrap.Wrapf(err, "load %q", name)
	}

	var snap Snapshot

	err = r.serializer.Unmarshal(data, &snap)
	if err != nil {
		return ewrap.Wrapf(sentinel.ErrCorruptSnapshot, "decode %q: %v", name, err)
	}

	store, err := Restore[float64](&snap)
	if err != nil {
		return err
	}

	r.mu.Lock()

	existing, ok := r.stores[name]
	if !ok {
		r.stores[strings.Clone(name)] = &entry{store: store}
	}

	r.mu.Unlock()

	// writers holding the entry keep feeding the restored store
	if ok {
		existing.mu.Lock()
		existing.store = store
		existing.mu.Unlock()
	}

	r.statsCollector.IncrementLoads()
	r.logf("loaded store %q with %d samples", name, store.Total())

	return nil
}

// Persisted implements Service.
func (r *Registry) Persisted(ctx context.Context) ([]string, error) {
	if r.backend == nil {
		return nil, sentinel.ErrBackendNotFound
	}

	names, err := r.backend.List(ctx)
	if err != nil {
		return nil, ewrap.Wrap(err, "list snapshots")
	}

	return names, nil
}

// GetStats implements Service.
func (r *Registry) GetStats() stats.Stats {
	return r.statsCollector.GetStats()
}

// Stop implements Service. It persists every store, then releases the
// backend's client when the registry owns one.
func (r *Registry) Stop(ctx context.Context) error {
	if r.backend == nil {
		return nil
	}

	var errs []error

	for _, name := range r.Names(ctx) {
		err := r.Persist(ctx, name)
		if err != nil {
			errs = append(errs, err)
		}
	}

	r.logf("stopped with %d snapshots in the backend", r.backend.Count(ctx))

	if r.closer != nil {
		err := r.closer.Close()
		if err != nil {
			errs = append(errs, ewrap.Wrap(err, "close backend client"))
		}
	}

	return errors.Join(errs...)
}

func (r *Registry) lookup(name string) (*entry, error) {
	r.mu.RLock()
	e, ok := r.stores[name]
	r.mu.RUnlock()

	if !ok {
		return nil, ewrap.Wrap(sentinel.ErrStoreNotFound, name)
	}

	return e, nil
}

func (r *Registry) logf(format string, v ...any) {
	if r.logger != nil {
		r.logger.Printf(format, v...)
	}
}
