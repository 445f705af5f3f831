package hdrview

import (
	"encoding/binary"
	"math"
	"strconv"
)

// DecodePFM decodes a Portable Float Map. The header is three ASCII lines:
// magic ("Pf" grayscale, "PF" RGB), "width height", and a scale factor whose
// sign selects the payload endianness (negative means little-endian). The
// float32 payload is stored bottom row first and is flipped here so the
// returned buffer is top-down like every other decoder's.
func DecodePFM(data []byte) (*SampleBuffer, error) {
	p := &pfmParser{data: data}

	magic, err := p.token()
	if err != nil {
		return nil, err
	}
	var channels int
	switch magic {
	case "Pf":
		channels = 1
	case "PF":
		channels = 3
	default:
		return nil, formatErr("pfm", ErrBadMagic, "%q", magic)
	}

	width, err := p.intToken()
	if err != nil {
		return nil, err
	}
	height, err := p.intToken()
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, formatErr("pfm", ErrBadHeader, "dimensions %dx%d", width, height)
	}

	scaleTok, err := p.token()
	if err != nil {
		return nil, err
	}
	scale, err := strconv.ParseFloat(scaleTok, 64)
	if err != nil || scale == 0 {
		return nil, formatErr("pfm", ErrBadHeader, "scale %q", scaleTok)
	}
	var order binary.ByteOrder = binary.BigEndian
	if scale < 0 {
		order = binary.LittleEndian
	}

	// Exactly one whitespace byte separates the scale token from the
	// binary payload; token() has already consumed it.
	payload := data[p.pos:]
	count := width * height * channels
	if len(payload) < count*4 {
		return nil, formatErr("pfm", ErrTruncated, "need %d bytes, have %d", count*4, len(payload))
	}

	samples := make([]float32, count)
	rowLen := width * channels
	for y := 0; y < height; y++ {
		srcRow := height - 1 - y
		src := payload[srcRow*rowLen*4:]
		dst := samples[y*rowLen:]
		for i := 0; i < rowLen; i++ {
			dst[i] = math.Float32frombits(order.Uint32(src[i*4:]))
		}
	}

	return &SampleBuffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Kind:     KindFloat32,
		Float:    true,
		TypeMax:  1.0,
		Samples:  samples,
	}, nil
}

type pfmParser struct {
	data []byte
	pos  int
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// token returns the next whitespace-delimited token and consumes exactly one
// trailing whitespace byte, so binary payloads that follow stay intact.
func (p *pfmParser) token() (string, error) {
	for p.pos < len(p.data) && isSpace(p.data[p.pos]) {
		p.pos++
	}
	start := p.pos
	for p.pos < len(p.data) && !isSpace(p.data[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", formatErr("pfm", ErrBadHeader, "unexpected end of header")
	}
	tok := string(p.data[start:p.pos])
	if p.pos < len(p.data) {
		p.pos++ // single separator
	}
	return tok, nil
}

func (p *pfmParser) intToken() (int, error) {
	tok, err := p.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, formatErr("pfm", ErrBadHeader, "integer %q", tok)
	}
	return v, nil
}
