package hdrview

import "os"

// Decode sniffs the format of data and dispatches to the matching decoder.
func Decode(data []byte) (*SampleBuffer, error) {
	switch DetectFormat(data) {
	case FormatPFM:
		return DecodePFM(data)
	case FormatPNM:
		return DecodePNM(data)
	case FormatNPY:
		return DecodeNPY(data)
	case FormatNPZ:
		return DecodeNPZ(data)
	case FormatEXR:
		return DecodeEXR(data)
	case FormatTIFF:
		return DecodeTIFF(data)
	case FormatPNG:
		return DecodePNG(data)
	}
	magic := data
	if len(magic) > 8 {
		magic = magic[:8]
	}
	return nil, formatErr("hdrview", ErrBadMagic, "% x", magic)
}

// DecodeFile reads and decodes a file from the filesystem.
func DecodeFile(path string) (*SampleBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
