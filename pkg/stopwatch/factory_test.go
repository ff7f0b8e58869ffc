package stopwatch

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_CreateThenList(t *testing.T) {
	f := NewFactory()

	a, err := f.Create("a")
	require.NoError(t, err)
	b, err := f.Create("b")
	require.NoError(t, err)

	assert.Equal(t, "a", a.ID())
	assert.Equal(t, "b", b.ID())

	list := f.List()
	require.Len(t, list, 2)
	assert.Same(t, a, list[0])
	assert.Same(t, b, list[1])
	assert.Equal(t, []string{"a", "b"}, f.IDs())
}

func TestFactory_CreateDuplicate(t *testing.T) {
	f := NewFactory()

	first, err := f.Create("dup")
	require.NoError(t, err)
	before := f.List()

	sw, err := f.Create("dup")

	assert.Nil(t, sw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, ErrDuplicateID)

	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, "dup", argErr.ID)

	// State unchanged
	assert.Equal(t, before, f.List())
	got, ok := f.Get("dup")
	assert.True(t, ok)
	assert.Same(t, first, got)
}

func TestFactory_CreateEmptyID(t *testing.T) {
	f := NewFactory()

	sw, err := f.Create("")

	assert.Nil(t, sw)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, ErrEmptyID)
	assert.Equal(t, 0, f.Len())
	assert.Empty(t, f.List())
}

func TestFactory_ListEmpty(t *testing.T) {
	f := NewFactory()

	list := f.List()

	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestFactory_ListSnapshotIsNotAliased(t *testing.T) {
	f := NewFactory()
	_, err := f.Create("a")
	require.NoError(t, err)
	_, err = f.Create("b")
	require.NoError(t, err)

	snapshot := f.List()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "a", snapshot[0].ID())
	assert.Equal(t, "b", snapshot[1].ID())

	_, err = f.Create("c")
	require.NoError(t, err)

	assert.Len(t, snapshot, 2)

	// Mutating the snapshot does not reach the factory
	snapshot[0] = nil
	_ = append(snapshot, New("intruder"))
	assert.Equal(t, []string{"a", "b", "c"}, f.IDs())
	list := f.List()
	require.Len(t, list, 3)
	assert.NotNil(t, list[0])
}

func TestFactory_FactoriesAreIsolated(t *testing.T) {
	f1 := NewFactory()
	f2 := NewFactory()

	_, err := f1.Create("shared-name")
	require.NoError(t, err)
	_, err = f2.Create("shared-name")
	require.NoError(t, err)

	assert.Equal(t, 1, f1.Len())
	assert.Equal(t, 1, f2.Len())
}

func TestFactory_CreatedStopwatchUsesClock(t *testing.T) {
	clock := newFakeClock()
	f := NewFactory(WithClock(clock.Now))

	sw, err := f.Create("timed")
	require.NoError(t, err)

	require.NoError(t, sw.Start())
	clock.Advance(42)
	require.NoError(t, sw.Stop())

	snaps := f.Snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, "timed", snaps[0].ID)
	assert.EqualValues(t, 42, snaps[0].Elapsed)
}

func TestFactory_ConcurrentSameID(t *testing.T) {
	for _, n := range []int{1, 2, 8, 64, 512} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			f := NewFactory()
			var wg sync.WaitGroup
			var successes, failures atomic.Int32
			winners := make(chan *Stopwatch, n)

			start := make(chan struct{})
			for range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					sw, err := f.Create("contended")
					if err != nil {
						assert.ErrorIs(t, err, ErrInvalidArgument)
						failures.Add(1)
						return
					}
					successes.Add(1)
					winners <- sw
				}()
			}
			close(start)
			wg.Wait()
			close(winners)

			assert.Equal(t, int32(1), successes.Load())
			assert.Equal(t, int32(n-1), failures.Load())

			list := f.List()
			require.Len(t, list, 1)
			assert.Same(t, <-winners, list[0])
		})
	}
}

func TestFactory_ConcurrentDistinctIDs(t *testing.T) {
	const n = 1000
	f := NewFactory()
	var wg sync.WaitGroup

	start := make(chan struct{})
	for i := range n {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			<-start
			_, err := f.Create(fmt.Sprintf("sw-%d", id))
			assert.NoError(t, err)
		}(i)
	}
	close(start)
	wg.Wait()

	list := f.List()
	require.Len(t, list, n)

	seen := make(map[string]bool, n)
	for _, sw := range list {
		assert.False(t, seen[sw.ID()], "duplicate %s", sw.ID())
		seen[sw.ID()] = true
	}
	for i := range n {
		assert.True(t, seen[fmt.Sprintf("sw-%d", i)], "missing sw-%d", i)
	}
	assert.Equal(t, f.IDs(), idsOf(list))
}

func TestFactory_ConcurrentListDuringCreate(t *testing.T) {
	const writers, perWriter = 4, 500
	f := NewFactory()
	var wg sync.WaitGroup
	defer wg.Wait()

	for w := range writers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range perWriter {
				_, err := f.Create(fmt.Sprintf("w%d-%d", w, i))
				assert.NoError(t, err)
			}
		}(w)
	}

	// Snapshots only grow and every earlier snapshot is a prefix of a later one
	var prev []*Stopwatch
	for range 200 {
		cur := f.List()
		require.GreaterOrEqual(t, len(cur), len(prev))
		for i := range prev {
			require.Same(t, prev[i], cur[i])
		}
		for _, sw := range cur[len(prev):] {
			got, ok := f.Get(sw.ID())
			require.True(t, ok)
			require.Same(t, sw, got)
		}
		prev = cur
	}

	wg.Wait()
	assert.Equal(t, writers*perWriter, f.Len())
}

func idsOf(list []*Stopwatch) []string {
	ids := make([]string, len(list))
	for i, sw := range list {
		ids[i] = sw.ID()
	}
	return ids
}

func BenchmarkFactory_Create(b *testing.B) {
	f := NewFactory()
	ids := make([]string, b.N)
	for i := range ids {
		ids[i] = fmt.Sprintf("sw-%d", i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Create(ids[i])
	}
}

func BenchmarkFactory_CreateParallel(b *testing.B) {
	f := NewFactory()
	var next atomic.Int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = f.Create(fmt.Sprintf("sw-%d", next.Add(1)))
		}
	})
}
