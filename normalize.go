package hdrview

import "math"

// ResolveRange turns the normalization settings into a concrete display
// range. Precedence, strictly in this order: auto-normalize uses the
// observed finite stats (full native range when there are none), gamma mode
// uses the full native range, a manual range is taken as given (scaled by
// the type maximum when it was entered as a 0-1 fraction for an integer
// source), and everything else falls back to the full native range.
//
// The resolved range may be degenerate (max == min); consumers must treat
// the inverse range as 0 so every value maps to the range floor.
func ResolveRange(s NormalizationSettings, st *Stats, typeMax float64, isFloat bool) (min, max float64) {
	switch {
	case s.AutoNormalize:
		if st != nil {
			return st.Min, st.Max
		}
		return 0, typeMax
	case s.GammaMode:
		return 0, typeMax
	case s.HasRange:
		min, max = s.Min, s.Max
		if s.NormalizedFloat && !isFloat {
			min *= typeMax
			max *= typeMax
		}
		return min, max
	}
	return 0, typeMax
}

// invRange returns 1/(max-min), or 0 for a degenerate range.
func invRange(min, max float64) float64 {
	if max == min {
		return 0
	}
	return 1 / (max - min)
}

// LogRangeValue maps a normalized position t in [0,1] to a value spaced
// logarithmically between min and max; the colormap-inversion path uses it
// to label bins on a log scale. Magnitudes are floored at 1e-10 before
// taking log10. When both bounds are negative the result's sign is flipped;
// when the signs are mixed the mapping degrades to plain linear
// interpolation between the raw bounds.
func LogRangeValue(t, min, max float64) float64 {
	if (min < 0) != (max < 0) {
		return min + t*(max-min)
	}
	logMin := math.Log10(math.Max(math.Abs(min), 1e-10))
	logMax := math.Log10(math.Max(math.Abs(max), 1e-10))
	v := math.Pow(10, logMin+t*(logMax-logMin))
	if min < 0 && max < 0 {
		return -v
	}
	return v
}
