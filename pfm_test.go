package hdrview

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"testing"
)

// encodePFM builds PFM bytes from a top-down grid, storing rows bottom-up
// as the format requires.
func encodePFM(magic string, width, height int, scale float64, samples []float32) []byte {
	channels := 1
	if magic == "PF" {
		channels = 3
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n%d %d\n%g\n", magic, width, height, scale)
	var order binary.ByteOrder = binary.BigEndian
	if scale < 0 {
		order = binary.LittleEndian
	}
	rowLen := width * channels
	for y := height - 1; y >= 0; y-- {
		for i := 0; i < rowLen; i++ {
			_ = binary.Write(&buf, order, samples[y*rowLen+i])
		}
	}
	return buf.Bytes()
}

func TestDecodePFMGrayscale(t *testing.T) {
	data := encodePFM("Pf", 2, 2, -1.0, []float32{0, 0.25, 0.5, 1})
	buf, err := DecodePFM(data)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 2 || buf.Height != 2 || buf.Channels != 1 {
		t.Fatalf("got %dx%dx%d", buf.Width, buf.Height, buf.Channels)
	}
	if !buf.Float || buf.TypeMax != 1.0 {
		t.Fatalf("float=%v typeMax=%g", buf.Float, buf.TypeMax)
	}
	want := []float32{0, 0.25, 0.5, 1}
	for i, v := range want {
		if buf.Samples[i] != v {
			t.Fatalf("sample %d: got %g, want %g", i, buf.Samples[i], v)
		}
	}
}

// The payload is stored bottom row first; decoding must flip exactly once.
func TestDecodePFMFlipRoundTrip(t *testing.T) {
	grid := []float32{1, 2, 3, 4, 5, 6} // 2x3 top-down
	data := encodePFM("Pf", 2, 3, -1.0, grid)
	buf, err := DecodePFM(data)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range grid {
		if buf.Samples[i] != v {
			t.Fatalf("sample %d: got %g, want %g", i, buf.Samples[i], v)
		}
	}
}

// The sign of the scale selects the payload endianness. The same payload
// bytes must decode to different values under each interpretation when the
// value is not byte-symmetric.
func TestDecodePFMEndianness(t *testing.T) {
	le := encodePFM("Pf", 1, 1, -1.0, []float32{1.5})
	payload := le[len(le)-4:]
	// Same payload bytes, positive scale: reinterpreted as big-endian.
	be := append([]byte("Pf\n1 1\n1\n"), payload...)

	bufLE, err := DecodePFM(le)
	if err != nil {
		t.Fatal(err)
	}
	bufBE, err := DecodePFM(be)
	if err != nil {
		t.Fatal(err)
	}
	if bufLE.Samples[0] != 1.5 {
		t.Fatalf("little-endian decode: got %g", bufLE.Samples[0])
	}
	if bufBE.Samples[0] == bufLE.Samples[0] {
		t.Fatalf("endianness ignored: both decode to %g", bufBE.Samples[0])
	}
	wantBE := math.Float32frombits(0x0000C03F) // byte-swapped 1.5
	if bufBE.Samples[0] != wantBE {
		t.Fatalf("big-endian decode: got %g, want %g", bufBE.Samples[0], wantBE)
	}
}

func TestDecodePFMRGB(t *testing.T) {
	data := encodePFM("PF", 1, 2, -1.0, []float32{1, 2, 3, 4, 5, 6})
	buf, err := DecodePFM(data)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Channels != 3 {
		t.Fatalf("channels: got %d", buf.Channels)
	}
	want := []float32{1, 2, 3, 4, 5, 6}
	for i, v := range want {
		if buf.Samples[i] != v {
			t.Fatalf("sample %d: got %g, want %g", i, buf.Samples[i], v)
		}
	}
}

func TestDecodePFMErrors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		kind FormatErrorKind
	}{
		{name: "bad magic", data: []byte("P6\n1 1\n255\nxxx"), kind: ErrBadMagic},
		{name: "bad scale", data: []byte("Pf\n1 1\nzero\n"), kind: ErrBadHeader},
		{name: "zero scale", data: []byte("Pf\n1 1\n0\n"), kind: ErrBadHeader},
		{name: "bad dimensions", data: []byte("Pf\n0 1\n-1\n"), kind: ErrBadHeader},
		{name: "truncated", data: []byte("Pf\n2 2\n-1\n\x00\x00"), kind: ErrTruncated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodePFM(tc.data)
			fe, ok := err.(*FormatError)
			if !ok {
				t.Fatalf("got %v, want *FormatError", err)
			}
			if fe.Kind != tc.kind {
				t.Fatalf("kind: got %v, want %v", fe.Kind, tc.kind)
			}
		})
	}
}
