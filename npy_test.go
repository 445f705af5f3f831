package hdrview

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/klauspost/compress/zip"
)

// encodeNPY builds version-1 .npy bytes with the given descr, shape and raw
// payload.
func encodeNPY(descr string, shape string, payload []byte) []byte {
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': %s, }", descr, shape)
	// Pad the header so the payload starts 64-byte aligned, as numpy does.
	for (10+len(header)+1)%64 != 0 {
		header += " "
	}
	header += "\n"

	var buf bytes.Buffer
	buf.Write(npyMagic)
	buf.WriteByte(1)
	buf.WriteByte(0)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	buf.Write(payload)
	return buf.Bytes()
}

func TestDecodeNPYUint16(t *testing.T) {
	data := encodeNPY("<u2", "(1, 1)", []byte{0x34, 0x12})
	buf, err := DecodeNPY(data)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 1 || buf.Height != 1 || buf.Channels != 1 {
		t.Fatalf("got %dx%dx%d", buf.Width, buf.Height, buf.Channels)
	}
	if buf.Samples[0] != 4660 {
		t.Fatalf("sample: got %g, want 4660", buf.Samples[0])
	}
	// Integer dtype: float32 storage, but not real-valued.
	if buf.Float || buf.Kind != KindUint16 || buf.TypeMax != 65535 {
		t.Fatalf("float=%v kind=%v typeMax=%g", buf.Float, buf.Kind, buf.TypeMax)
	}
}

func TestDecodeNPYBigEndianFloat32(t *testing.T) {
	payload := make([]byte, 4)
	binary.BigEndian.PutUint32(payload, math.Float32bits(2.5))
	buf, err := DecodeNPY(encodeNPY(">f4", "(1, 1)", payload))
	if err != nil {
		t.Fatal(err)
	}
	if buf.Samples[0] != 2.5 {
		t.Fatalf("sample: got %g, want 2.5", buf.Samples[0])
	}
	if !buf.Float || buf.TypeMax != 1.0 {
		t.Fatalf("float=%v typeMax=%g", buf.Float, buf.TypeMax)
	}
}

func TestDecodeNPYFloat16(t *testing.T) {
	cases := []struct {
		bits uint16
		want float32
	}{
		{bits: 0x3C00, want: 1},
		{bits: 0xC000, want: -2},
		{bits: 0x0000, want: 0},
		{bits: 0x3555, want: 0.33325195}, // ~1/3
		{bits: 0x0001, want: 5.9604645e-08}, // smallest subnormal
	}
	for _, tc := range cases {
		payload := make([]byte, 2)
		binary.LittleEndian.PutUint16(payload, tc.bits)
		buf, err := DecodeNPY(encodeNPY("<f2", "(1, 1)", payload))
		if err != nil {
			t.Fatal(err)
		}
		if buf.Samples[0] != tc.want {
			t.Fatalf("bits %#04x: got %g, want %g", tc.bits, buf.Samples[0], tc.want)
		}
	}

	// Inf and NaN survive the widening.
	payload := []byte{0x00, 0x7C}
	buf, err := DecodeNPY(encodeNPY("<f2", "(1, 1)", payload))
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(float64(buf.Samples[0]), 1) {
		t.Fatalf("got %g, want +Inf", buf.Samples[0])
	}
	payload = []byte{0x00, 0x7E}
	buf, err = DecodeNPY(encodeNPY("<f2", "(1, 1)", payload))
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(float64(buf.Samples[0])) {
		t.Fatalf("got %g, want NaN", buf.Samples[0])
	}
}

func TestDecodeNPYFloat64(t *testing.T) {
	payload := make([]byte, 16)
	binary.LittleEndian.PutUint64(payload, math.Float64bits(0.125))
	binary.LittleEndian.PutUint64(payload[8:], math.Float64bits(-4))
	buf, err := DecodeNPY(encodeNPY("<f8", "(1, 2)", payload))
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 2 || buf.Height != 1 {
		t.Fatalf("got %dx%d", buf.Width, buf.Height)
	}
	if buf.Samples[0] != 0.125 || buf.Samples[1] != -4 {
		t.Fatalf("samples: got %v", buf.Samples)
	}
}

func TestDecodeNPYThreeDim(t *testing.T) {
	buf, err := DecodeNPY(encodeNPY("|u1", "(1, 2, 3)", []byte{1, 2, 3, 4, 5, 6}))
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 2 || buf.Height != 1 || buf.Channels != 3 {
		t.Fatalf("got %dx%dx%d", buf.Width, buf.Height, buf.Channels)
	}
}

func TestDecodeNPYVersion2(t *testing.T) {
	v1 := encodeNPY("<u1", "(1, 1)", []byte{7})
	// Rewrite as a version-2 header with a 32-bit length field.
	headerLen := int(binary.LittleEndian.Uint16(v1[8:10]))
	header := v1[10 : 10+headerLen]
	payload := v1[10+headerLen:]

	var buf bytes.Buffer
	buf.Write(npyMagic)
	buf.WriteByte(2)
	buf.WriteByte(0)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(header)))
	buf.Write(header)
	buf.Write(payload)

	out, err := DecodeNPY(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if out.Samples[0] != 7 {
		t.Fatalf("sample: got %g, want 7", out.Samples[0])
	}
}

func TestDecodeNPYErrors(t *testing.T) {
	fortran := []byte(encodeNPY("<u1", "(1, 1)", []byte{1}))
	fortran = bytes.Replace(fortran, []byte("False"), []byte("True "), 1)

	cases := []struct {
		name string
		data []byte
		kind FormatErrorKind
	}{
		{name: "bad magic", data: []byte("\x93NUMPZ\x01\x00"), kind: ErrBadMagic},
		{name: "bad version", data: append(append([]byte{}, npyMagic...), 3, 0, 0, 0), kind: ErrUnsupported},
		{name: "unsupported dtype", data: encodeNPY("<c8", "(1, 1)", make([]byte, 8)), kind: ErrUnsupported},
		{name: "1-dim shape", data: encodeNPY("<u1", "(4,)", []byte{1, 2, 3, 4}), kind: ErrUnsupported},
		{name: "fortran order", data: fortran, kind: ErrUnsupported},
		{name: "truncated payload", data: encodeNPY("<u2", "(2, 2)", []byte{1, 2}), kind: ErrTruncated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeNPY(tc.data)
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

// encodeNPZ builds a stored (uncompressed) zip archive of named .npy members.
func encodeNPZ(t *testing.T, members map[string][]byte, names []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(members[name]); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeNPZPrefersDepthMember(t *testing.T) {
	other := encodeNPY("<u1", "(1, 1)", []byte{1})
	depth := encodeNPY("<u1", "(1, 1)", []byte{2})
	data := encodeNPZ(t, map[string][]byte{
		"colors.npy": other,
		"depth.npy":  depth,
	}, []string{"colors.npy", "depth.npy"})

	buf, err := DecodeNPZ(data)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Samples[0] != 2 {
		t.Fatalf("sample: got %g, want the depth member", buf.Samples[0])
	}
}

func TestDecodeNPZFirstMemberFallback(t *testing.T) {
	first := encodeNPY("<u1", "(1, 1)", []byte{9})
	data := encodeNPZ(t, map[string][]byte{
		"a.npy": first,
		"b.npy": encodeNPY("<u1", "(1, 1)", []byte{1}),
	}, []string{"a.npy", "b.npy"})

	buf, err := DecodeNPZ(data)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Samples[0] != 9 {
		t.Fatalf("sample: got %g, want the first member", buf.Samples[0])
	}
}

func TestDecodeNPZRejectsCompressedMember(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "depth.npy", Method: zip.Deflate})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(encodeNPY("<u1", "(1, 1)", []byte{1})); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	_, err = DecodeNPZ(buf.Bytes())
	fe, ok := err.(*FormatError)
	if !ok || fe.Kind != ErrUnsupported {
		t.Fatalf("got %v, want unsupported", err)
	}
}
