package hdrview

import "strconv"

// DecodePNM decodes the portable anymap family: P1/P4 bitmaps, P2/P5
// graymaps and P3/P6 pixmaps, in both ASCII and binary variants. The header
// tokenizer tolerates '#' comments. Bitmaps decode to 0 (black) / 255
// (white); binary maps with maxval > 255 carry 16-bit big-endian samples.
func DecodePNM(data []byte) (*SampleBuffer, error) {
	if len(data) < 2 || data[0] != 'P' || data[1] < '1' || data[1] > '6' {
		tok := ""
		if len(data) >= 2 {
			tok = string(data[:2])
		}
		return nil, formatErr("pnm", ErrBadMagic, "%q", tok)
	}
	variant := data[1]
	p := &pnmParser{data: data, pos: 2}

	width, err := p.intToken()
	if err != nil {
		return nil, err
	}
	height, err := p.intToken()
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, formatErr("pnm", ErrBadHeader, "dimensions %dx%d", width, height)
	}

	maxval := 1
	if variant != '1' && variant != '4' {
		maxval, err = p.intToken()
		if err != nil {
			return nil, err
		}
		if maxval <= 0 || maxval > 65535 {
			return nil, formatErr("pnm", ErrBadHeader, "maxval %d", maxval)
		}
	}

	channels := 1
	if variant == '3' || variant == '6' {
		channels = 3
	}

	kind := KindUint8
	if maxval > 255 {
		kind = KindUint16
	}
	buf := &SampleBuffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Kind:     kind,
		TypeMax:  kind.TypeMax(),
		Samples:  make([]float32, width*height*channels),
	}

	switch variant {
	case '1':
		err = p.readASCIIBits(buf)
	case '2', '3':
		err = p.readASCIISamples(buf, maxval)
	case '4':
		err = p.readPackedBits(buf)
	case '5', '6':
		err = p.readBinarySamples(buf, maxval)
	}
	if err != nil {
		return nil, err
	}
	return buf, nil
}

type pnmParser struct {
	data []byte
	pos  int
}

func (p *pnmParser) skipSpaceAndComments() {
	for p.pos < len(p.data) {
		b := p.data[p.pos]
		if isSpace(b) {
			p.pos++
			continue
		}
		if b == '#' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		return
	}
}

// intToken reads the next integer and consumes exactly one trailing
// whitespace byte, the separator the binary variants rely on.
func (p *pnmParser) intToken() (int, error) {
	p.skipSpaceAndComments()
	start := p.pos
	for p.pos < len(p.data) && !isSpace(p.data[p.pos]) && p.data[p.pos] != '#' {
		p.pos++
	}
	if p.pos == start {
		return 0, formatErr("pnm", ErrBadHeader, "unexpected end of header")
	}
	tok := string(p.data[start:p.pos])
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, formatErr("pnm", ErrBadHeader, "integer %q", tok)
	}
	if p.pos < len(p.data) {
		p.pos++ // single separator before any binary payload
	}
	return v, nil
}

// readASCIIBits reads a P1 bitmap: bare 0/1 digits that need no separating
// whitespace. 1 is black (0), 0 is white (255).
func (p *pnmParser) readASCIIBits(buf *SampleBuffer) error {
	n := len(buf.Samples)
	for i := 0; i < n; {
		if p.pos >= len(p.data) {
			return formatErr("pnm", ErrTruncated, "need %d bits, have %d", n, i)
		}
		b := p.data[p.pos]
		p.pos++
		switch {
		case b == '0':
			buf.Samples[i] = 255
			i++
		case b == '1':
			buf.Samples[i] = 0
			i++
		case isSpace(b):
		case b == '#':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' {
				p.pos++
			}
		default:
			return formatErr("pnm", ErrBadHeader, "bitmap digit %q", string(b))
		}
	}
	return nil
}

func (p *pnmParser) readASCIISamples(buf *SampleBuffer, maxval int) error {
	for i := range buf.Samples {
		v, err := p.intToken()
		if err != nil {
			return formatErr("pnm", ErrTruncated, "sample %d of %d", i, len(buf.Samples))
		}
		if v < 0 || v > maxval {
			return formatErr("pnm", ErrBadHeader, "sample %d out of range 0..%d", v, maxval)
		}
		buf.Samples[i] = float32(v)
	}
	return nil
}

// readPackedBits reads a P4 bitmap: rows padded to whole bytes, bits packed
// MSB first.
func (p *pnmParser) readPackedBits(buf *SampleBuffer) error {
	bytesPerRow := (buf.Width + 7) / 8
	payload := p.data[p.pos:]
	if len(payload) < bytesPerRow*buf.Height {
		return formatErr("pnm", ErrTruncated, "need %d bytes, have %d", bytesPerRow*buf.Height, len(payload))
	}
	for y := 0; y < buf.Height; y++ {
		row := payload[y*bytesPerRow:]
		for x := 0; x < buf.Width; x++ {
			bit := (row[x/8] >> (7 - uint(x%8))) & 1
			if bit == 0 {
				buf.Samples[y*buf.Width+x] = 255
			}
		}
	}
	return nil
}

func (p *pnmParser) readBinarySamples(buf *SampleBuffer, maxval int) error {
	payload := p.data[p.pos:]
	n := len(buf.Samples)
	if maxval > 255 {
		if len(payload) < n*2 {
			return formatErr("pnm", ErrTruncated, "need %d bytes, have %d", n*2, len(payload))
		}
		for i := 0; i < n; i++ {
			buf.Samples[i] = float32(uint16(payload[i*2])<<8 | uint16(payload[i*2+1]))
		}
		return nil
	}
	if len(payload) < n {
		return formatErr("pnm", ErrTruncated, "need %d bytes, have %d", n, len(payload))
	}
	for i := 0; i < n; i++ {
		buf.Samples[i] = float32(payload[i])
	}
	return nil
}
