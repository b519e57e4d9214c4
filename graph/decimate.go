package graph

import "math"

// Decimate reduces samples to at most two per bucket, the minimum and the
// maximum, emitted in the order they occur. With no more samples than
// buckets the input is appended unchanged. NaN values never win a bucket.
func Decimate(samples []Sample, buckets int, dst []Sample) []Sample {
	n := len(samples)
	if buckets <= 0 || n <= buckets {
		return append(dst, samples...)
	}
	for b := 0; b < buckets; b++ {
		lo := b * n / buckets
		hi := (b + 1) * n / buckets
		if hi <= lo {
			continue
		}
		minI, maxI := -1, -1
		for i := lo; i < hi; i++ {
			v := samples[i].V
			if math.IsNaN(v) {
				continue
			}
			if minI < 0 || v < samples[minI].V {
				minI = i
			}
			if maxI < 0 || v > samples[maxI].V {
				maxI = i
			}
		}
		switch {
		case minI < 0:
		case minI == maxI:
			dst = append(dst, samples[minI])
		case minI < maxI:
			dst = append(dst, samples[minI], samples[maxI])
		default:
			dst = append(dst, samples[maxI], samples[minI])
		}
	}
	return dst
}
