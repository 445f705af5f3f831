package hdrview

import (
	"bytes"
	"encoding/binary"
	"math"

	"golang.org/x/image/tiff"
)

const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagPlanarConfig    = 284
	tagSampleFormat    = 339

	sampleFormatUint  = 1
	sampleFormatInt   = 2
	sampleFormatFloat = 3
)

// DecodeTIFF decodes a TIFF image. Integer rasters are delegated to the
// x/image/tiff decoder, which handles the common compressions. Float rasters
// (SampleFormat 3), which that decoder rejects, take a dedicated path: an
// IFD walk plus an uncompressed strip reader, with per-band planar rasters
// interleaved into one buffer.
func DecodeTIFF(data []byte) (*SampleBuffer, error) {
	ifd, err := parseTIFFIFD(data)
	if err != nil {
		return nil, err
	}
	if ifd.sampleFormat == sampleFormatFloat {
		return decodeFloatTIFF(data, ifd)
	}

	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, formatErr("tiff", ErrBadHeader, "%v", err)
	}
	return bufferFromImage(img, "tiff")
}

type tiffIFD struct {
	order           binary.ByteOrder
	width, height   int
	bitsPerSample   int
	compression     int
	samplesPerPixel int
	rowsPerStrip    int
	planar          int
	sampleFormat    int
	stripOffsets    []int
	stripCounts     []int
}

func parseTIFFIFD(data []byte) (*tiffIFD, error) {
	if len(data) < 8 {
		return nil, formatErr("tiff", ErrTruncated, "header")
	}
	ifd := &tiffIFD{
		compression:     1,
		samplesPerPixel: 1,
		planar:          1,
		sampleFormat:    sampleFormatUint,
	}
	switch {
	case data[0] == 'I' && data[1] == 'I':
		ifd.order = binary.LittleEndian
	case data[0] == 'M' && data[1] == 'M':
		ifd.order = binary.BigEndian
	default:
		return nil, formatErr("tiff", ErrBadMagic, "%q", string(data[:2]))
	}
	if ifd.order.Uint16(data[2:4]) != 42 {
		return nil, formatErr("tiff", ErrBadMagic, "magic %d", ifd.order.Uint16(data[2:4]))
	}

	off := int(ifd.order.Uint32(data[4:8]))
	if off+2 > len(data) {
		return nil, formatErr("tiff", ErrTruncated, "IFD offset %d", off)
	}
	entries := int(ifd.order.Uint16(data[off : off+2]))
	off += 2
	if off+entries*12 > len(data) {
		return nil, formatErr("tiff", ErrTruncated, "%d IFD entries", entries)
	}

	ifd.rowsPerStrip = math.MaxInt32
	for i := 0; i < entries; i++ {
		e := data[off+i*12:]
		tag := int(ifd.order.Uint16(e[0:2]))
		typ := int(ifd.order.Uint16(e[2:4]))
		count := int(ifd.order.Uint32(e[4:8]))
		vals, err := tiffEntryValues(data, ifd.order, e, typ, count)
		if err != nil {
			return nil, err
		}
		if len(vals) == 0 {
			continue
		}
		switch tag {
		case tagImageWidth:
			ifd.width = vals[0]
		case tagImageLength:
			ifd.height = vals[0]
		case tagBitsPerSample:
			ifd.bitsPerSample = vals[0]
		case tagCompression:
			ifd.compression = vals[0]
		case tagStripOffsets:
			ifd.stripOffsets = vals
		case tagSamplesPerPixel:
			ifd.samplesPerPixel = vals[0]
		case tagRowsPerStrip:
			ifd.rowsPerStrip = vals[0]
		case tagStripByteCounts:
			ifd.stripCounts = vals
		case tagPlanarConfig:
			ifd.planar = vals[0]
		case tagSampleFormat:
			ifd.sampleFormat = vals[0]
		}
	}
	if ifd.width <= 0 || ifd.height <= 0 {
		return nil, formatErr("tiff", ErrBadHeader, "dimensions %dx%d", ifd.width, ifd.height)
	}
	return ifd, nil
}

// tiffEntryValues reads an entry's SHORT or LONG values, inline when they
// fit in the 4-byte value field, at the referenced offset otherwise. Other
// value types are skipped; the tags this decoder cares about use none.
func tiffEntryValues(data []byte, order binary.ByteOrder, entry []byte, typ, count int) ([]int, error) {
	var size int
	switch typ {
	case 3: // SHORT
		size = 2
	case 4: // LONG
		size = 4
	default:
		return nil, nil
	}
	pos := 8 // inline value field within the entry
	src := entry[pos : pos+4]
	if count*size > 4 {
		off := int(order.Uint32(entry[8:12]))
		if off+count*size > len(data) {
			return nil, formatErr("tiff", ErrTruncated, "entry values at %d", off)
		}
		src = data[off : off+count*size]
	}
	vals := make([]int, count)
	for i := 0; i < count; i++ {
		if size == 2 {
			vals[i] = int(order.Uint16(src[i*2:]))
		} else {
			vals[i] = int(order.Uint32(src[i*4:]))
		}
	}
	return vals, nil
}

func decodeFloatTIFF(data []byte, ifd *tiffIFD) (*SampleBuffer, error) {
	if ifd.bitsPerSample != 32 {
		return nil, formatErr("tiff", ErrUnsupported, "%d-bit float samples", ifd.bitsPerSample)
	}
	if ifd.compression != 1 {
		return nil, formatErr("tiff", ErrUnsupported, "compressed float raster (compression %d)", ifd.compression)
	}
	channels := ifd.samplesPerPixel
	if channels < 1 || channels > 4 {
		return nil, formatErr("tiff", ErrUnsupported, "%d samples per pixel", channels)
	}
	if len(ifd.stripOffsets) == 0 {
		return nil, formatErr("tiff", ErrBadHeader, "no strip offsets")
	}

	raw, err := tiffStripData(data, ifd)
	if err != nil {
		return nil, err
	}
	count := ifd.width * ifd.height * channels
	if len(raw) < count*4 {
		return nil, formatErr("tiff", ErrTruncated, "need %d bytes, have %d", count*4, len(raw))
	}

	samples := make([]float32, count)
	if ifd.planar == 2 && channels > 1 {
		// Band-sequential: one full plane per channel, interleave here.
		plane := ifd.width * ifd.height
		for c := 0; c < channels; c++ {
			src := raw[c*plane*4:]
			for i := 0; i < plane; i++ {
				samples[i*channels+c] = math.Float32frombits(ifd.order.Uint32(src[i*4:]))
			}
		}
	} else {
		for i := 0; i < count; i++ {
			samples[i] = math.Float32frombits(ifd.order.Uint32(raw[i*4:]))
		}
	}

	return &SampleBuffer{
		Width:    ifd.width,
		Height:   ifd.height,
		Channels: channels,
		Kind:     KindFloat32,
		Float:    true,
		TypeMax:  1.0,
		Samples:  samples,
	}, nil
}

// tiffStripData concatenates the strip payloads in offset-list order, which
// is row order for chunky rasters and band-major for planar ones.
func tiffStripData(data []byte, ifd *tiffIFD) ([]byte, error) {
	if len(ifd.stripCounts) != len(ifd.stripOffsets) {
		return nil, formatErr("tiff", ErrBadHeader, "%d strip offsets, %d byte counts",
			len(ifd.stripOffsets), len(ifd.stripCounts))
	}
	total := 0
	for _, n := range ifd.stripCounts {
		total += n
	}
	out := make([]byte, 0, total)
	for i, off := range ifd.stripOffsets {
		n := ifd.stripCounts[i]
		if off < 0 || n < 0 || off+n > len(data) {
			return nil, formatErr("tiff", ErrTruncated, "strip %d at %d+%d", i, off, n)
		}
		out = append(out, data[off:off+n]...)
	}
	return out, nil
}
