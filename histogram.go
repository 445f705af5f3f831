package hdrview

import "math"

// ValueRange describes the resolved display range a histogram was binned
// over.
type ValueRange struct {
	Min, Max float64
	Float    bool
}

// ChannelStats are true-value statistics of one channel's finite samples,
// kept separately from the bin indices so a viewer can report both "bin
// range" and "original value range" for a hovered bin.
type ChannelStats struct {
	Min, Max float64
	Mean     float64
	Count    uint64
}

// Histogram holds 256-bin per-channel counts in display space: bin b counts
// pixels whose displayed value falls in b under the same normalization and
// tone settings the renderer would use. Grayscale sources duplicate into all
// three color histograms. Luma is derived per pixel from the already-binned
// R, G, B indices with the 0.299/0.587/0.114 weights; that quantized-first
// luminance is a deliberate approximation carried over from the display
// path's contract.
type Histogram struct {
	R, G, B  [256]uint32
	Luma     [256]uint32
	NaNCount uint32
	Range    ValueRange
	Stats    [3]ChannelStats
}

// ComputeHistogram re-derives per-channel histograms from the raw samples,
// replicating Render's mode precedence exactly: outside gamma mode (or under
// an identity transform) bins come from the direct linear stretch with floor
// binning, and in gamma mode a lookup table maps raw integer samples, or
// 16-bit quantized float samples, straight to bins. A fresh histogram is
// returned on every call.
func ComputeHistogram(b *SampleBuffer, st *Stats, norm NormalizationSettings, tone ToneSettings, opts HistogramOptions) (*Histogram, error) {
	if b.Channels < 1 || b.Channels > 4 {
		return nil, formatErr("histogram", ErrUnsupported, "%d channels", b.Channels)
	}

	typeMax := b.TypeMax
	if opts.TypeMax > 0 {
		typeMax = opts.TypeMax
	}
	min, max := ResolveRange(norm, st, typeMax, b.Float)
	binner := newBinner(norm, tone, min, max, b.Kind)

	h := &Histogram{
		Range: ValueRange{Min: min, Max: max, Float: b.Float},
	}

	colorCh := b.Channels
	if colorCh > 3 {
		colorCh = 3
	}
	if b.Channels == 2 {
		colorCh = 1 // gray + alpha
	}

	var sum [3]float64
	n := b.Pixels()
	for p := 0; p < n; p++ {
		base := p * b.Channels

		finite := true
		for c := 0; c < colorCh; c++ {
			if !isFinite32(b.Samples[base+c]) {
				finite = false
				break
			}
		}
		if !finite {
			h.NaNCount++
			continue
		}

		var bins [3]int
		if colorCh == 1 {
			v := float64(b.Samples[base])
			bin := binner.bin(v)
			bins[0], bins[1], bins[2] = bin, bin, bin
			h.R[bin]++
			h.G[bin]++
			h.B[bin]++
			trackChannel(&h.Stats[0], &sum[0], v)
			trackChannel(&h.Stats[1], &sum[1], v)
			trackChannel(&h.Stats[2], &sum[2], v)
		} else {
			for c := 0; c < colorCh; c++ {
				v := float64(b.Samples[base+c])
				bins[c] = binner.bin(v)
				trackChannel(&h.Stats[c], &sum[c], v)
			}
			h.R[bins[0]]++
			h.G[bins[1]]++
			h.B[bins[2]]++
		}

		luma := int(math.Round(0.299*float64(bins[0]) + 0.587*float64(bins[1]) + 0.114*float64(bins[2])))
		h.Luma[luma]++
	}

	for c := range h.Stats {
		if h.Stats[c].Count > 0 {
			h.Stats[c].Mean = sum[c] / float64(h.Stats[c].Count)
		}
	}
	return h, nil
}

func trackChannel(cs *ChannelStats, sum *float64, v float64) {
	if cs.Count == 0 {
		cs.Min, cs.Max = v, v
	} else {
		if v < cs.Min {
			cs.Min = v
		}
		if v > cs.Max {
			cs.Max = v
		}
	}
	cs.Count++
	*sum += v
}

// binner maps one finite raw sample to its display-space bin 0..255.
type binner struct {
	min, inv float64
	direct   bool
	lut      []uint8
	floatLUT []uint8
}

func newBinner(norm NormalizationSettings, tone ToneSettings, min, max float64, kind ElementKind) *binner {
	bn := &binner{min: min, inv: invRange(min, max)}
	if !norm.GammaMode || tone.IsIdentity() {
		bn.direct = true
		return bn
	}
	switch kind {
	case KindUint8, KindUint16:
		bn.lut = BuildLUT(tone, min, max, int(kind.TypeMax())+1)
	default:
		bn.floatLUT = BuildLUT(tone, 0, 65535, floatLUTSize)
	}
	return bn
}

func (bn *binner) bin(v float64) int {
	if bn.direct {
		bin := int(math.Floor((v - bn.min) * bn.inv * 255))
		if bin < 0 {
			return 0
		}
		if bin > 255 {
			return 255
		}
		return bin
	}
	if bn.lut != nil {
		i := int(v)
		if i < 0 {
			i = 0
		} else if i >= len(bn.lut) {
			i = len(bn.lut) - 1
		}
		return int(bn.lut[i])
	}
	return int(bn.floatLUT[floatLUTIndex(v, bn.min, bn.inv)])
}
