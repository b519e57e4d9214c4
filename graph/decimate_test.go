package graph_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/overlay/graph"
)

func TestDecimateBoundsAndExtremes(t *testing.T) {
	const (
		n     = 10_000
		width = 100
	)
	rng := rand.New(rand.NewPCG(1, 2))
	samples := make([]graph.Sample, n)
	for i := range samples {
		samples[i] = graph.Sample{T: float64(i), V: rng.NormFloat64()}
	}
	// A single-sample spike must survive.
	samples[4321].V = 50

	out := graph.Decimate(samples, width, nil)
	assert.LessOrEqual(t, len(out), 2*width)
	assert.GreaterOrEqual(t, len(out), width)

	window := n / width
	for w := 0; w < width; w++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, s := range samples[w*window : (w+1)*window] {
			lo, hi = min(lo, s.V), max(hi, s.V)
		}
		glo, ghi := math.Inf(1), math.Inf(-1)
		for _, s := range out {
			if int(s.T)/window == w {
				glo, ghi = min(glo, s.V), max(ghi, s.V)
			}
		}
		require.Equal(t, lo, glo, "window %d min", w)
		require.Equal(t, hi, ghi, "window %d max", w)
	}

	// Occurrence order is kept.
	for i := 1; i < len(out); i++ {
		require.Less(t, out[i-1].T, out[i].T)
	}
}

func TestDecimateIdentityWhenSmall(t *testing.T) {
	samples := []graph.Sample{{T: 0, V: 1}, {T: 1, V: 3}, {T: 2, V: 2}}
	assert.Equal(t, samples, graph.Decimate(samples, 100, nil))
	assert.Equal(t, samples, graph.Decimate(samples, 3, nil))
}

func TestDecimateSkipsNaN(t *testing.T) {
	samples := []graph.Sample{{T: 0, V: math.NaN()}, {T: 1, V: math.NaN()}, {T: 2, V: 4}, {T: 3, V: 1}}
	out := graph.Decimate(samples, 2, nil)
	assert.Equal(t, []graph.Sample{{T: 2, V: 4}, {T: 3, V: 1}}, out)
}

func TestProject(t *testing.T) {
	samples := []graph.Sample{{T: 10, V: 0}, {T: 15, V: 5}, {T: 20, V: 10}}
	rect := graph.Rect{X: 100, Y: 50, W: 200, H: 100}

	pts := graph.Project(samples, rect, graph.Span(samples), graph.Fixed(0, 10), nil)
	require.Len(t, pts, 3)
	assert.Equal(t, graph.Point{X: 100, Y: 150}, pts[0])
	assert.Equal(t, graph.Point{X: 200, Y: 100}, pts[1])
	assert.Equal(t, graph.Point{X: 300, Y: 50}, pts[2])

	// Out-of-range values are clamped to the rectangle.
	pts = graph.Project([]graph.Sample{{T: 0, V: 99}}, rect, graph.Range{}, graph.Fixed(0, 10), nil)
	assert.Equal(t, graph.Point{X: 300, Y: 50}, pts[0])
}

func TestAutoRange(t *testing.T) {
	samples := []graph.Sample{{V: -2}, {V: math.NaN()}, {V: 6}}
	lo, hi := graph.Auto().Resolve(samples)
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 6.0, hi)

	lo, hi = graph.Auto().Resolve([]graph.Sample{{V: 3}})
	assert.Less(t, lo, 3.0)
	assert.Greater(t, hi, 3.0)

	lo, hi = graph.Fixed(5, 1).Resolve(nil)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 5.0, hi)
}
