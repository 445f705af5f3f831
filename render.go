package hdrview

import (
	"image"
	"math"
)

// Render maps a sample buffer to a displayable RGBA raster under the given
// normalization and tone settings. Gamma and exposure apply only in gamma
// mode; outside it the direct linear stretch is always taken, and inside it
// an identity transform still short-circuits to the direct path, which by
// construction produces output identical to the lookup-table path.
func Render(b *SampleBuffer, st *Stats, norm NormalizationSettings, tone ToneSettings, opts RenderOptions) (*image.RGBA, error) {
	if opts.RGBPacked {
		return renderPacked(b, norm, tone, opts)
	}

	typeMax := b.TypeMax
	if opts.TypeMax > 0 {
		typeMax = opts.TypeMax
	}
	min, max := ResolveRange(norm, st, typeMax, b.Float)
	tx := newTransform(norm, tone, min, max, b.Kind)

	out := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	n := b.Pixels()
	s := b.Samples

	switch b.Channels {
	case 1:
		for p := 0; p < n; p++ {
			v := float64(s[p])
			o := p * 4
			if !isFinite(v) {
				setNaN(out.Pix[o:], opts.NaNColor)
				continue
			}
			g := tx.displayByte(v)
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = g, g, g, 255
		}
	case 2:
		for p := 0; p < n; p++ {
			v := float64(s[p*2])
			a := float64(s[p*2+1])
			o := p * 4
			if !isFinite(v) {
				setNaN(out.Pix[o:], opts.NaNColor)
				out.Pix[o+3] = alphaByte(a, typeMax)
				continue
			}
			g := tx.displayByte(v)
			out.Pix[o], out.Pix[o+1], out.Pix[o+2] = g, g, g
			out.Pix[o+3] = alphaByte(a, typeMax)
		}
	case 3, 4:
		ch := b.Channels
		for p := 0; p < n; p++ {
			base := p * ch
			r := float64(s[base])
			g := float64(s[base+1])
			bl := float64(s[base+2])
			o := p * 4
			if !isFinite(r) || !isFinite(g) || !isFinite(bl) {
				setNaN(out.Pix[o:], opts.NaNColor)
			} else {
				out.Pix[o] = tx.displayByte(r)
				out.Pix[o+1] = tx.displayByte(g)
				out.Pix[o+2] = tx.displayByte(bl)
			}
			if ch == 4 {
				// Alpha is linearly scaled from the native range and
				// never tone mapped.
				out.Pix[o+3] = alphaByte(float64(s[base+3]), typeMax)
			} else {
				out.Pix[o+3] = 255
			}
		}
	default:
		return nil, formatErr("render", ErrUnsupported, "%d channels", b.Channels)
	}

	if opts.FlipY {
		flipRaster(out)
	}
	return out, nil
}

const packedMax = float64(1<<24 - 1)

// renderPacked implements the 24-bit grayscale mode: the three color
// channels, scaled to 8 bits, are packed into (R<<16)|(G<<8)|B and that
// integer becomes the single sample for normalization and tone mapping.
// Used for depth or disparity data smuggled through RGB images.
func renderPacked(b *SampleBuffer, norm NormalizationSettings, tone ToneSettings, opts RenderOptions) (*image.RGBA, error) {
	if b.Channels < 3 {
		return nil, formatErr("render", ErrUnsupported, "24-bit grayscale needs 3 channels, have %d", b.Channels)
	}
	typeMax := b.TypeMax
	if opts.TypeMax > 0 {
		typeMax = opts.TypeMax
	}

	packed := &SampleBuffer{
		Width:    b.Width,
		Height:   b.Height,
		Channels: 1,
		Kind:     KindUint32,
		TypeMax:  packedMax,
		Samples:  make([]float32, b.Pixels()),
	}
	n := b.Pixels()
	for p := 0; p < n; p++ {
		base := p * b.Channels
		r := float64(b.Samples[base])
		g := float64(b.Samples[base+1])
		bl := float64(b.Samples[base+2])
		if !isFinite(r) || !isFinite(g) || !isFinite(bl) {
			packed.Samples[p] = float32(math.NaN())
			continue
		}
		r8 := float64(quantize8(r / typeMax))
		g8 := float64(quantize8(g / typeMax))
		b8 := float64(quantize8(bl / typeMax))
		packed.Samples[p] = float32(r8*65536 + g8*256 + b8)
	}

	st := packed.ComputeStats()
	packedOpts := opts
	packedOpts.RGBPacked = false
	packedOpts.TypeMax = packedMax
	return Render(packed, st, norm, tone, packedOpts)
}

// transform is the resolved per-sample display mapping for one render or
// histogram pass.
type transform struct {
	min, inv float64
	tone     ToneSettings
	direct   bool
	lut      []uint8 // integer-domain table, index = raw sample
	floatLUT []uint8 // quantized-float table, index = 16-bit quantized value
}

func newTransform(norm NormalizationSettings, tone ToneSettings, min, max float64, kind ElementKind) *transform {
	tx := &transform{min: min, inv: invRange(min, max), tone: tone}
	if !norm.GammaMode || tone.IsIdentity() {
		tx.direct = true
		return tx
	}
	switch kind {
	case KindUint8, KindUint16:
		tx.lut = BuildLUT(tone, min, max, int(kind.TypeMax())+1)
	default:
		// Quantization into the 16-bit index applies the range, so the
		// table itself spans the full index domain.
		tx.floatLUT = BuildLUT(tone, 0, 65535, floatLUTSize)
	}
	return tx
}

// displayByte maps one finite raw sample to its displayed 8-bit value.
func (t *transform) displayByte(v float64) uint8 {
	if t.direct {
		return quantize8((v - t.min) * t.inv)
	}
	if t.lut != nil {
		i := int(v)
		if i < 0 {
			i = 0
		} else if i >= len(t.lut) {
			i = len(t.lut) - 1
		}
		return t.lut[i]
	}
	return t.floatLUT[floatLUTIndex(v, t.min, t.inv)]
}

func setNaN(pix []uint8, c [3]uint8) {
	pix[0], pix[1], pix[2], pix[3] = c[0], c[1], c[2], 255
}

func alphaByte(a, typeMax float64) uint8 {
	if !isFinite(a) {
		return 255
	}
	return quantize8(a / typeMax)
}

func flipRaster(img *image.RGBA) {
	h := img.Rect.Dy()
	tmp := make([]uint8, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bot := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
}
