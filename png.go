package hdrview

import (
	"bytes"
	"image"
	"image/png"
)

// DecodePNG decodes an 8- or 16-bit PNG into a sample buffer. Grayscale
// stays single-channel, truecolor becomes 3 channels when fully opaque and
// 4 otherwise, and 16-bit variants keep their full sample width.
func DecodePNG(data []byte) (*SampleBuffer, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, formatErr("png", ErrBadHeader, "%v", err)
	}
	return bufferFromImage(img, "png")
}

// bufferFromImage converts a decoded standard-library image into a sample
// buffer, preserving the source bit depth. Shared by the PNG decoder and the
// integer TIFF delegation path.
func bufferFromImage(img image.Image, format string) (*SampleBuffer, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, formatErr(format, ErrBadHeader, "dimensions %dx%d", w, h)
	}

	switch src := img.(type) {
	case *image.Gray:
		buf := newIntBuffer(w, h, 1, KindUint8)
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				buf.Samples[y*w+x] = float32(row[x])
			}
		}
		return buf, nil

	case *image.Gray16:
		buf := newIntBuffer(w, h, 1, KindUint16)
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				buf.Samples[y*w+x] = float32(uint16(row[x*2])<<8 | uint16(row[x*2+1]))
			}
		}
		return buf, nil

	case *image.NRGBA:
		return rgbaBuffer(w, h, src.Opaque(), KindUint8, func(x, y int) (r, g, bl, a float32) {
			i := y*src.Stride + x*4
			return float32(src.Pix[i]), float32(src.Pix[i+1]), float32(src.Pix[i+2]), float32(src.Pix[i+3])
		}), nil

	case *image.NRGBA64:
		return rgbaBuffer(w, h, src.Opaque(), KindUint16, func(x, y int) (r, g, bl, a float32) {
			i := y*src.Stride + x*8
			return float32(be16(src.Pix[i:])), float32(be16(src.Pix[i+2:])),
				float32(be16(src.Pix[i+4:])), float32(be16(src.Pix[i+6:]))
		}), nil

	case *image.RGBA64:
		return rgbaBuffer(w, h, src.Opaque(), KindUint16, func(x, y int) (r, g, bl, a float32) {
			i := y*src.Stride + x*8
			return float32(be16(src.Pix[i:])), float32(be16(src.Pix[i+2:])),
				float32(be16(src.Pix[i+4:])), float32(be16(src.Pix[i+6:]))
		}), nil

	case *image.RGBA:
		return rgbaBuffer(w, h, src.Opaque(), KindUint8, func(x, y int) (r, g, bl, a float32) {
			i := y*src.Stride + x*4
			return float32(src.Pix[i]), float32(src.Pix[i+1]), float32(src.Pix[i+2]), float32(src.Pix[i+3])
		}), nil
	}

	// Paletted and anything else: through the generic color interface at
	// 8-bit precision.
	buf := newIntBuffer(w, h, 3, KindUint8)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*w + x) * 3
			buf.Samples[i] = float32(r >> 8)
			buf.Samples[i+1] = float32(g >> 8)
			buf.Samples[i+2] = float32(bl >> 8)
		}
	}
	return buf, nil
}

func newIntBuffer(w, h, channels int, kind ElementKind) *SampleBuffer {
	return &SampleBuffer{
		Width:    w,
		Height:   h,
		Channels: channels,
		Kind:     kind,
		TypeMax:  kind.TypeMax(),
		Samples:  make([]float32, w*h*channels),
	}
}

func rgbaBuffer(w, h int, opaque bool, kind ElementKind, at func(x, y int) (r, g, b, a float32)) *SampleBuffer {
	channels := 4
	if opaque {
		channels = 3
	}
	buf := newIntBuffer(w, h, channels, kind)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := at(x, y)
			i := (y*w + x) * channels
			buf.Samples[i] = r
			buf.Samples[i+1] = g
			buf.Samples[i+2] = b
			if channels == 4 {
				buf.Samples[i+3] = a
			}
		}
	}
	return buf
}

func be16(p []byte) uint16 {
	return uint16(p[0])<<8 | uint16(p[1])
}
