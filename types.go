package hdrview

// ElementKind identifies the storage type of the source samples.
type ElementKind int

const (
	KindUint8 ElementKind = iota
	KindInt8
	KindUint16
	KindInt16
	KindUint32
	KindInt32
	KindUint64
	KindInt64
	KindFloat16
	KindFloat32
	KindFloat64
)

// Size returns the storage size of one element in bytes.
func (k ElementKind) Size() int {
	switch k {
	case KindUint8, KindInt8:
		return 1
	case KindUint16, KindInt16, KindFloat16:
		return 2
	case KindUint32, KindInt32, KindFloat32:
		return 4
	case KindUint64, KindInt64, KindFloat64:
		return 8
	}
	return 0
}

// IsFloat reports whether the kind stores real-valued samples.
func (k ElementKind) IsFloat() bool {
	return k == KindFloat16 || k == KindFloat32 || k == KindFloat64
}

// TypeMax returns the full-scale value for the kind: 255 or 65535 for
// narrow integers, 1.0 for floats and wide integers.
func (k ElementKind) TypeMax() float64 {
	switch k {
	case KindUint8, KindInt8:
		return 255
	case KindUint16, KindInt16:
		return 65535
	}
	return 1.0
}

func (k ElementKind) String() string {
	switch k {
	case KindUint8:
		return "uint8"
	case KindInt8:
		return "int8"
	case KindUint16:
		return "uint16"
	case KindInt16:
		return "int16"
	case KindUint32:
		return "uint32"
	case KindInt32:
		return "int32"
	case KindUint64:
		return "uint64"
	case KindInt64:
		return "int64"
	case KindFloat16:
		return "float16"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	}
	return "unknown"
}

// SampleBuffer is a decoded image: one value per channel per pixel,
// channel-interleaved, row-major, top row first. It is created by exactly
// one decoder and is read-only for every downstream consumer; reloading an
// image replaces the buffer wholesale, it is never mutated in place.
type SampleBuffer struct {
	Width    int
	Height   int
	Channels int // 1..4
	Kind     ElementKind
	// Float reports whether the samples are real-valued. Integer NumPy
	// arrays are upcast to float32 storage but keep Float=false so the
	// display path still normalizes over the native integer range.
	Float bool
	// TypeMax is the full-scale value of the source type (255, 65535 or
	// 1.0), fixed at decode time.
	TypeMax float64
	Samples []float32
}

// Pixels returns the pixel count of the buffer.
func (b *SampleBuffer) Pixels() int { return b.Width * b.Height }

// NormalizationSettings selects how the display range is resolved.
// Exactly one of auto-normalize, gamma mode and the manual range is
// authoritative; see ResolveRange for the precedence.
type NormalizationSettings struct {
	// AutoNormalize stretches the observed finite min/max to full output.
	AutoNormalize bool
	// GammaMode normalizes over the full native range and enables the
	// gamma/exposure transform.
	GammaMode bool
	// Min and Max are the manual display range, honored when HasRange is
	// set and neither auto-normalize nor gamma mode is active.
	Min, Max float64
	HasRange bool
	// NormalizedFloat means a manual range entered as a 0-1 fraction of
	// full scale; for integer sources both endpoints are scaled by the
	// type maximum.
	NormalizedFloat bool
}

// ToneSettings is the gamma-in, exposure, gamma-out transform applied to a
// normalized value in gamma mode.
type ToneSettings struct {
	GammaIn  float64 // > 0
	GammaOut float64 // > 0
	Exposure float64 // in stops
}

// NeutralTone returns tone settings that leave values unchanged.
func NeutralTone() ToneSettings {
	return ToneSettings{GammaIn: 1, GammaOut: 1, Exposure: 0}
}

// Stats holds the finite-value minimum and maximum of a buffer, restricted
// to the first three channels. A nil *Stats means no finite sample exists.
type Stats struct {
	Min, Max float64
}

// RenderOptions carries the per-render switches that are not part of the
// normalization or tone settings.
type RenderOptions struct {
	// TypeMax overrides the buffer's full-scale value when > 0.
	TypeMax float64
	// NaNColor substitutes for any pixel with a non-finite channel.
	// The zero value renders such pixels black; viewers typically
	// configure fuchsia {255, 0, 255}.
	NaNColor [3]uint8
	// FlipY flips the completed raster vertically as a final step.
	FlipY bool
	// RGBPacked treats three 8-bit-scaled channels as one packed 24-bit
	// integer sample and renders it as grayscale. Only valid for buffers
	// with at least three channels; used for depth data packed into RGB.
	RGBPacked bool
}

// HistogramOptions carries the histogram-only switches.
type HistogramOptions struct {
	// TypeMax overrides the buffer's full-scale value when > 0.
	TypeMax float64
}
