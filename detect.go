package hdrview

import "bytes"

// Format identifies a supported container format.
type Format int

const (
	FormatUnknown Format = iota
	FormatPFM
	FormatPNM
	FormatNPY
	FormatNPZ
	FormatEXR
	FormatTIFF
	FormatPNG
)

func (f Format) String() string {
	switch f {
	case FormatPFM:
		return "pfm"
	case FormatPNM:
		return "pnm"
	case FormatNPY:
		return "npy"
	case FormatNPZ:
		return "npz"
	case FormatEXR:
		return "exr"
	case FormatTIFF:
		return "tiff"
	case FormatPNG:
		return "png"
	}
	return "unknown"
}

var (
	pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	exrMagic = []byte{0x76, 0x2f, 0x31, 0x01}
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
)

// DetectFormat sniffs the leading magic bytes of a file. A zip signature is
// reported as NPZ since that is the only archive format consumed here.
func DetectFormat(data []byte) Format {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], pngMagic):
		return FormatPNG
	case len(data) >= 4 && bytes.Equal(data[:4], exrMagic):
		return FormatEXR
	case len(data) >= 6 && bytes.Equal(data[:6], npyMagic):
		return FormatNPY
	case len(data) >= 4 && bytes.Equal(data[:4], zipMagic):
		return FormatNPZ
	case len(data) >= 4 && (data[0] == 'I' && data[1] == 'I' || data[0] == 'M' && data[1] == 'M'):
		return FormatTIFF
	case len(data) >= 2 && data[0] == 'P' && (data[1] == 'f' || data[1] == 'F'):
		return FormatPFM
	case len(data) >= 2 && data[0] == 'P' && data[1] >= '1' && data[1] <= '6':
		return FormatPNM
	}
	return FormatUnknown
}
