package graph_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/overlay/graph"
)

func TestSeriesRetainsLatest(t *testing.T) {
	const capacity = 64
	s, err := graph.NewSeries(capacity)
	require.NoError(t, err)

	for _, total := range []int{1, capacity - 1, capacity, capacity + 1, 10 * capacity} {
		s, _ := graph.NewSeries(capacity)
		for i := range total {
			require.NoError(t, s.Push(float64(i), float64(i)*0.5))
		}
		got := s.Snapshot(nil)
		want := min(total, capacity)
		require.Len(t, got, want, "after %d pushes", total)
		first := total - want
		for j, smp := range got {
			assert.Equal(t, float64(first+j), smp.T)
			assert.Equal(t, float64(first+j)*0.5, smp.V)
		}
		assert.Equal(t, want, s.Len())
		assert.Equal(t, uint64(total), s.Total())
	}

	assert.Empty(t, s.Snapshot(nil))
}

func TestSeriesInvalidCapacity(t *testing.T) {
	_, err := graph.NewSeries(0)
	assert.Error(t, err)
}

func TestSeriesClose(t *testing.T) {
	s, err := graph.NewSeries(4)
	require.NoError(t, err)
	require.NoError(t, s.Push(1, 1))
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Push(2, 2), graph.ErrClosed)
	assert.ErrorIs(t, s.Close(), graph.ErrClosed)
	assert.Len(t, s.Snapshot(nil), 1)
}

// The producer encodes the insertion index in both fields, so a sample built
// from two different insertions is detectable.
func TestSeriesConcurrentNoTornSamples(t *testing.T) {
	const (
		capacity = 128
		pushes   = 200_000
	)
	s, err := graph.NewSeries(capacity)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range pushes {
			_ = s.Push(float64(i), -float64(i)-1)
		}
	}()

	var (
		buf    []graph.Sample
		reads  int
		failed bool
	)
	for s.Total() < pushes && !failed {
		buf = s.Snapshot(buf[:0])
		reads++
		last := math.Inf(-1)
		for _, smp := range buf {
			if smp.V != -smp.T-1 || smp.T <= last {
				failed = true
				t.Errorf("torn or unordered sample %+v after %v", smp, last)
				break
			}
			last = smp.T
		}
		if len(buf) > capacity {
			failed = true
			t.Errorf("snapshot of %d samples exceeds capacity", len(buf))
		}
	}
	wg.Wait()

	final := s.Snapshot(nil)
	require.Len(t, final, capacity)
	assert.Equal(t, float64(pushes-1), final[capacity-1].T)
	assert.Positive(t, reads)
}
