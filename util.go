package hdrview

import "math"

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isFinite32(v float32) bool {
	return isFinite(float64(v))
}

// quantize8 maps a clamped [0,1] display value to a byte.
func quantize8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

// floatLUTIndex quantizes a float sample into the 16-bit LUT domain.
// The rounding here is a deliberate, small source of error relative to the
// direct float path and matches the histogram's quantization exactly.
func floatLUTIndex(v, min, invRange float64) int {
	idx := int(math.Round((v - min) * invRange * 65535))
	if idx < 0 {
		return 0
	}
	if idx > 65535 {
		return 65535
	}
	return idx
}
