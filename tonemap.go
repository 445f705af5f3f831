package hdrview

import "math"

const toneEpsilon = 1e-3

// IsIdentity reports whether the transform is a no-op within tolerance.
// Identity short-circuits Apply and lets the renderer skip the LUT entirely;
// both paths must produce identical output.
func (t ToneSettings) IsIdentity() bool {
	return math.Abs(t.GammaIn-1) < toneEpsilon &&
		math.Abs(t.GammaOut-1) < toneEpsilon &&
		math.Abs(t.Exposure) < toneEpsilon
}

// Apply runs the gamma-in, exposure, gamma-out transform on a normalized
// value. It never clamps: HDR values may legitimately exceed 1 here, and
// only the final 8-bit quantization clamps to [0,1].
func (t ToneSettings) Apply(normalized float64) float64 {
	if t.IsIdentity() {
		return normalized
	}
	linear := math.Pow(normalized, t.GammaIn)
	linear *= math.Exp2(t.Exposure)
	return math.Pow(linear, 1/t.GammaOut)
}
