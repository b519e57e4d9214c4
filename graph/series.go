// Package graph holds the sample storage and geometry of scrolling telemetry
// plots. It performs no drawing; the overlay package turns Project output
// into a polyline.
package graph

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

// ErrClosed is returned by Push after Close.
var ErrClosed = errors.New("graph: series closed")

// Sample is one (timestamp, value) pair.
type Sample struct {
	T, V float64
}

// slot stores one sample behind a sequence number. seq is 2i+1 while the
// i-th insertion is being written and 2i+2 once it is complete.
type slot struct {
	seq atomic.Uint64
	t   atomic.Uint64
	v   atomic.Uint64
}

// Series is a fixed-capacity ring of samples. Push may run on one producer
// goroutine concurrently with readers on another; readers never observe a
// sample whose timestamp and value come from different insertions.
type Series struct {
	slots  []slot
	head   atomic.Uint64 // insertions so far
	closed atomic.Bool
}

// NewSeries returns an empty series holding the latest capacity samples.
func NewSeries(capacity int) (*Series, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("graph: capacity must be positive, got %d", capacity)
	}
	return &Series{slots: make([]slot, capacity)}, nil
}

// Cap returns the capacity.
func (s *Series) Cap() int { return len(s.slots) }

// Len returns the number of retained samples.
func (s *Series) Len() int { return int(min(s.head.Load(), uint64(len(s.slots)))) }

// Total returns the number of samples pushed since creation.
func (s *Series) Total() uint64 { return s.head.Load() }

// Push appends a sample, overwriting the oldest once full. It must only be
// called from a single goroutine at a time.
func (s *Series) Push(t, v float64) error {
	if s.closed.Load() {
		return ErrClosed
	}
	i := s.head.Load()
	sl := &s.slots[i%uint64(len(s.slots))]
	sl.seq.Store(2*i + 1)
	sl.t.Store(math.Float64bits(t))
	sl.v.Store(math.Float64bits(v))
	sl.seq.Store(2*i + 2)
	s.head.Store(i + 1)
	return nil
}

// Snapshot appends the retained samples to dst, oldest first. Slots being
// overwritten while they are read are skipped.
func (s *Series) Snapshot(dst []Sample) []Sample {
	n := s.head.Load()
	c := uint64(len(s.slots))
	start := uint64(0)
	if n > c {
		start = n - c
	}
	for i := start; i < n; i++ {
		sl := &s.slots[i%c]
		want := 2*i + 2
		if sl.seq.Load() != want {
			continue
		}
		t := math.Float64frombits(sl.t.Load())
		v := math.Float64frombits(sl.v.Load())
		if sl.seq.Load() != want {
			continue
		}
		dst = append(dst, Sample{T: t, V: v})
	}
	return dst
}

// Close stops the series. Later pushes fail with ErrClosed; Snapshot keeps
// returning the retained samples.
func (s *Series) Close() error {
	if s.closed.Swap(true) {
		return ErrClosed
	}
	return nil
}

// Closed reports whether Close has been called.
func (s *Series) Closed() bool { return s.closed.Load() }
