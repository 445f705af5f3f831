package hdrview

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// floatLUTSize is the domain of the quantized-float lookup table. Float
// samples are first quantized into a 16-bit index over the resolved range
// (see floatLUTIndex), so the table itself spans 0..65535 directly.
const floatLUTSize = 65536

// BuildLUT precomputes the displayed byte for every representable input
// value: size is typeMax+1 for 8/16-bit integer sources, where the index is
// the raw sample, and 65536 for the quantized float domain. Entry i is the
// tone-mapped, clamped, 8-bit quantized value of input i under the resolved
// range.
func BuildLUT(tone ToneSettings, min, max float64, size int) []uint8 {
	inv := invRange(min, max)
	lut := make([]uint8, size)
	for i := range lut {
		normalized := clamp01((float64(i) - min) * inv)
		lut[i] = quantize8(tone.Apply(normalized))
	}
	return lut
}

// LUTCache memoizes one built table, keyed by a hash of everything that
// went into it. Any change to the tone settings or the resolved range
// produces a new key and therefore a rebuild; tables are never mutated.
type LUTCache struct {
	key uint64
	lut []uint8
}

func lutKey(tone ToneSettings, min, max float64, size int) uint64 {
	var buf [48]byte
	binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(tone.GammaIn))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(tone.GammaOut))
	binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(tone.Exposure))
	binary.LittleEndian.PutUint64(buf[24:], math.Float64bits(min))
	binary.LittleEndian.PutUint64(buf[32:], math.Float64bits(max))
	binary.LittleEndian.PutUint64(buf[40:], uint64(size))
	return xxhash.Sum64(buf[:])
}

// Get returns the cached table for the parameters, building it on miss.
func (c *LUTCache) Get(tone ToneSettings, min, max float64, size int) []uint8 {
	key := lutKey(tone, min, max, size)
	if c.lut == nil || c.key != key {
		c.lut = BuildLUT(tone, min, max, size)
		c.key = key
	}
	return c.lut
}
