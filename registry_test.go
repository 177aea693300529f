package binstat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/binstat/internal/constants"
	"github.com/hyp3rd/binstat/pkg/backend"
	"github.com/hyp3rd/binstat/pkg/backend/redis"
	"github.com/hyp3rd/binstat/pkg/stats"
)

var squareEdges = [][]float64{{-1, 0, 1}, {-1, 0, 1}}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func newRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()

	r, err := NewRegistry(opts...)
	assert.NoError(t, err)

	return r
}

func TestRegistry_Lifecycle(t *testing.T) {
	ctx := context.Background()
	logger := &recordingLogger{}
	r := newRegistry(t, WithLogger(logger))

	assert.NoError(t, r.Create(ctx, "b", squareEdges))
	assert.NoError(t, r.Create(ctx, "a", squareEdges, WithDDOF(1)))

	assert.True(t, errors.Is(r.Create(ctx, "a", squareEdges), ErrStoreExists))
	assert.True(t, errors.Is(r.Create(ctx, " ", squareEdges), ErrParamCannotBeEmpty))
	assert.True(t, errors.Is(r.Create(ctx, "c", [][]float64{{1}}), ErrInvalidEdges))

	assert.Equal(t, []string{"a", "b"}, r.Names(ctx))

	report, err := r.Report(ctx, "a")
	assert.NoError(t, err)
	assert.Equal(t, uint(1), report.DDOF)

	assert.NoError(t, r.Drop(ctx, "b"))
	assert.True(t, errors.Is(r.Drop(ctx, "b"), ErrStoreNotFound))

	_, err = r.Report(ctx, "b")
	assert.True(t, errors.Is(err, ErrStoreNotFound))

	st := r.GetStats()
	assert.Equal(t, uint64(2), st.StoresCreated)
	assert.Equal(t, uint64(1), st.StoresDropped)
	assert.True(t, len(logger.lines) >= 3)
}

func TestRegistry_Observe(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, WithDefaultDDOF(0))
	assert.NoError(t, r.Create(ctx, "s", squareEdges))

	assert.NoError(t, r.Observe(ctx, "s", []float64{0.5, 0.5}, 1))
	assert.True(t, IsBinNotFound(r.Observe(ctx, "s", []float64{3, 3}, 1)))
	assert.True(t, errors.Is(r.Observe(ctx, "s", []float64{0.5}, 1), ErrDimensionMismatch))
	assert.True(t, errors.Is(r.Observe(ctx, "missing", []float64{0.5, 0.5}, 1), ErrStoreNotFound))

	accepted, err := r.ObserveBatch(ctx, "s", [][]float64{{0.5, 0.5}, {9, 9}, {-0.5, -0.5}}, []float64{2, 3, 4})
	assert.NoError(t, err)
	assert.Equal(t, 2, accepted)

	_, err = r.ObserveBatch(ctx, "s", [][]float64{{0.5, 0.5}}, nil)
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = r.ObserveBatch(ctx, "s", [][]float64{{0.5, 0.5, 0.5}}, []float64{1})
	assert.True(t, errors.Is(err, ErrDimensionMismatch))

	report, err := r.Report(ctx, "s")
	assert.NoError(t, err)
	assert.Equal(t, []uint64{1, 0, 0, 2}, report.Counts)
	assert.Equal(t, 1.5, *report.Mean[3])

	st := r.GetStats()
	assert.Equal(t, uint64(3), st.SamplesAccepted)
	assert.Equal(t, uint64(2), st.SamplesDropped)
	assert.Equal(t, uint64(1), st.SamplesFailed)
}

func TestRegistry_ConcurrentObserve(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)
	assert.NoError(t, r.Create(ctx, "s", squareEdges))

	const (
		workers = 8
		perG    = 500
	)

	var wg sync.WaitGroup

	for w := range workers {
		wg.Go(func() {
			for i := range perG {
				x := float64((w+i)%4)/2 - 0.9
				_ = r.Observe(ctx, "s", []float64{x, -x}, float64(i))
			}
		})
	}

	wg.Wait()

	report, err := r.Report(ctx, "s")
	assert.NoError(t, err)
	assert.Equal(t, uint64(workers*perG), report.Total)
	assert.Equal(t, uint64(workers*perG), r.GetStats().SamplesAccepted)
}

func TestRegistry_Merge(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)
	assert.NoError(t, r.Create(ctx, "dst", squareEdges))
	assert.NoError(t, r.Create(ctx, "src", squareEdges))
	assert.NoError(t, r.Create(ctx, "odd", [][]float64{{-1, 1}, {-1, 1}}))

	assert.NoError(t, r.Observe(ctx, "dst", []float64{0.5, 0.5}, 1))
	assert.NoError(t, r.Observe(ctx, "src", []float64{0.5, 0.5}, 2))

	assert.NoError(t, r.Merge(ctx, "dst", "src"))

	report, err := r.Report(ctx, "dst")
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), report.Counts[3])
	assert.Equal(t, 1.5, *report.Mean[3])

	src, err := r.Report(ctx, "src")
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), src.Total)

	assert.True(t, errors.Is(r.Merge(ctx, "dst", "odd"), ErrGridMismatch))
	assert.True(t, errors.Is(r.Merge(ctx, "dst", "missing"), ErrStoreNotFound))

	// merging a store into itself doubles it
	assert.NoError(t, r.Merge(ctx, "src", "src"))

	src, err = r.Report(ctx, "src")
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), src.Total)
	assert.Equal(t, uint64(2), r.GetStats().Merges)
}

func TestRegistry_PersistAndLoad(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{constants.JSONSerializer, constants.MsgpackSerializer, constants.CBORSerializer} {
		t.Run(name, func(t *testing.T) {
			b, err := backend.NewInMemory()
			assert.NoError(t, err)

			collector := stats.NewCollector()
			r := newRegistry(t, WithBackend(b), WithSerializer(name), WithStatsCollector(collector))

			assert.NoError(t, r.Create(ctx, "s", squareEdges, WithDDOF(1)))
			assert.NoError(t, r.Observe(ctx, "s", []float64{0.5, 0.5}, 1))
			assert.NoError(t, r.Observe(ctx, "s", []float64{0.5, 0.5}, 3))

			want, err := r.Report(ctx, "s")
			assert.NoError(t, err)

			assert.NoError(t, r.Persist(ctx, "s"))
			assert.Equal(t, 1, b.Count(ctx))

			// a fresh registry over the same backend sees the snapshot
			other := newRegistry(t, WithBackend(b), WithSerializer(name), WithStatsCollector(collector))
			assert.NoError(t, other.Load(ctx, "s"))

			got, err := other.Report(ctx, "s")
			assert.NoError(t, err)
			assert.Equal(t, want, got)

			assert.True(t, errors.Is(other.Load(ctx, "missing"), ErrSnapshotNotFound))

			st := collector.GetStats()
			assert.Equal(t, uint64(1), st.Persists)
			assert.Equal(t, uint64(1), st.Loads)
		})
	}
}

func TestRegistry_LoadRejectsGarbage(t *testing.T) {
	ctx := context.Background()

	b, err := backend.NewInMemory()
	assert.NoError(t, err)
	assert.NoError(t, b.Save(ctx, "s", []byte("not a snapshot")))

	r := newRegistry(t, WithBackend(b))
	assert.True(t, errors.Is(r.Load(ctx, "s"), ErrCorruptSnapshot))
	assert.Equal(t, 0, len(r.Names(ctx)))
}

func TestRegistry_WithoutBackend(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)
	assert.NoError(t, r.Create(ctx, "s", squareEdges))

	assert.True(t, errors.Is(r.Persist(ctx, "s"), ErrBackendNotFound))
	assert.True(t, errors.Is(r.Load(ctx, "s"), ErrBackendNotFound))
	assert.NoError(t, r.Stop(ctx))
}

func TestRegistry_StopPersistsEveryStore(t *testing.T) {
	ctx := context.Background()

	b, err := backend.NewInMemory()
	assert.NoError(t, err)

	r := newRegistry(t, WithBackend(b))
	assert.NoError(t, r.Create(ctx, "a", squareEdges))
	assert.NoError(t, r.Create(ctx, "b", squareEdges))

	assert.NoError(t, r.Stop(ctx))

	names, err := b.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestRegistry_UnknownSerializer(t *testing.T) {
	_, err := NewRegistry(WithSerializer("xml"))
	assert.True(t, errors.Is(err, ErrSerializerNotFound))
}

func TestNewRegistryFromConfig(t *testing.T) {
	ctx := context.Background()

	cfg := NewConfig()
	cfg.BackendType = constants.InMemoryBackend

	r, err := NewRegistryFromConfig(ctx, cfg)
	assert.NoError(t, err)

	assert.NoError(t, r.Create(ctx, "s", squareEdges))
	assert.NoError(t, r.Persist(ctx, "s"))

	cfg.BackendType = "etcd"
	_, err = NewRegistryFromConfig(ctx, cfg)
	assert.True(t, err != nil)
}

func TestNewRegistryFromConfig_UnreachableRedis(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cfg := NewConfig()
	cfg.BackendType = constants.RedisBackend
	cfg.RedisOptions = []redis.Option{
		redis.WithAddr("127.0.0.1:1"),
		redis.WithTimeouts(200*time.Millisecond, 200*time.Millisecond, 200*time.Millisecond),
	}

	r, err := NewRegistryFromConfig(ctx, cfg)
	assert.True(t, err != nil)
	assert.True(t, r == nil)
	assert.True(t, strings.Contains(err.Error(), "redis backend unreachable"))
}

type countingCloser struct {
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++

	return nil
}

func TestRegistry_StopClosesBackendClient(t *testing.T) {
	ctx := context.Background()

	b, err := backend.NewInMemory()
	assert.NoError(t, err)

	closer := &countingCloser{}
	r := newRegistry(t, WithBackend(b))
	r.closer = closer

	assert.NoError(t, r.Create(ctx, "s", squareEdges))
	assert.NoError(t, r.Stop(ctx))
	assert.Equal(t, 1, closer.closed)
}

func TestRegistry_DropDeletesSnapshot(t *testing.T) {
	ctx := context.Background()

	b, err := backend.NewInMemory()
	assert.NoError(t, err)

	r := newRegistry(t, WithBackend(b))
	assert.NoError(t, r.Create(ctx, "x", squareEdges))
	assert.NoError(t, r.Create(ctx, "y", squareEdges))
	assert.NoError(t, r.Persist(ctx, "x"))
	assert.NoError(t, r.Persist(ctx, "y"))

	persisted, err := r.Persisted(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, persisted)

	assert.NoError(t, r.Drop(ctx, "x"))
	assert.Equal(t, 1, b.Count(ctx))

	assert.True(t, errors.Is(r.Load(ctx, "x"), ErrSnapshotNotFound))
	assert.Equal(t, []string{"y"}, r.Names(ctx))

	persisted, err = r.Persisted(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"y"}, persisted)

	_, err = newRegistry(t).Persisted(ctx)
	assert.True(t, errors.Is(err, ErrBackendNotFound))
}

func TestRegistry_LoadKeepsEntryForWriters(t *testing.T) {
	ctx := context.Background()

	b, err := backend.NewInMemory()
	assert.NoError(t, err)

	r := newRegistry(t, WithBackend(b))
	assert.NoError(t, r.Create(ctx, "s", squareEdges))
	assert.NoError(t, r.Observe(ctx, "s", []float64{0.5, 0.5}, 1))
	assert.NoError(t, r.Persist(ctx, "s"))

	// a writer that looked the entry up before Load must feed the restored store
	held, err := r.lookup("s")
	assert.NoError(t, err)

	assert.NoError(t, r.Observe(ctx, "s", []float64{0.5, 0.5}, 2))
	assert.NoError(t, r.Load(ctx, "s"))

	current, err := r.lookup("s")
	assert.NoError(t, err)
	assert.True(t, held == current)

	held.mu.Lock()
	assert.NoError(t, held.store.AddSample([]float64{-0.5, -0.5}, 3))
	held.mu.Unlock()

	report, err := r.Report(ctx, "s")
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), report.Total)
}
