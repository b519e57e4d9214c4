package graph

import "math"

// Rect is a screen rectangle in pixels.
type Rect struct {
	X, Y, W, H float32
}

// Point is a screen position in pixels.
type Point struct {
	X, Y float32
}

// Range is a closed value interval. An Auto range is resolved from the data
// on every call, so the vertical scale moves whenever a new extreme arrives.
type Range struct {
	Min, Max float64
	Auto     bool
}

// Fixed returns a constant range.
func Fixed(lo, hi float64) Range { return Range{Min: lo, Max: hi} }

// Auto returns a range that tracks the current samples.
func Auto() Range { return Range{Auto: true} }

// Resolve returns the concrete bounds for samples. Degenerate ranges are
// widened by one unit around their value.
func (r Range) Resolve(samples []Sample) (lo, hi float64) {
	lo, hi = r.Min, r.Max
	if r.Auto {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, s := range samples {
			if math.IsNaN(s.V) || math.IsInf(s.V, 0) {
				continue
			}
			lo, hi = min(lo, s.V), max(hi, s.V)
		}
		if lo > hi {
			return 0, 1
		}
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo == 0 {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi
}

// Span returns the time interval covered by samples.
func Span(samples []Sample) Range {
	if len(samples) == 0 {
		return Range{}
	}
	return Range{Min: samples[0].T, Max: samples[len(samples)-1].T}
}

// Project maps samples into rect and appends the points to dst. x follows
// the timestamp across xr; when xr is empty the sample index is used
// instead. y follows the value across yr with larger values upward. Points
// are clamped to rect and NaN values are dropped.
func Project(samples []Sample, rect Rect, xr, yr Range, dst []Point) []Point {
	n := len(samples)
	if n == 0 {
		return dst
	}
	ylo, yhi := yr.Resolve(samples)
	byIndex := !(xr.Max > xr.Min)
	for i, s := range samples {
		if math.IsNaN(s.V) {
			continue
		}
		var fx float64
		switch {
		case byIndex && n == 1:
			fx = 1
		case byIndex:
			fx = float64(i) / float64(n-1)
		default:
			fx = (s.T - xr.Min) / (xr.Max - xr.Min)
		}
		fy := (s.V - ylo) / (yhi - ylo)
		dst = append(dst, Point{
			X: rect.X + rect.W*float32(clamp01(fx)),
			Y: rect.Y + rect.H*float32(1-clamp01(fy)),
		})
	}
	return dst
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return min(max(f, 0), 1)
}
