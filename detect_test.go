package hdrview

import "testing"

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want Format
	}{
		{name: "png", data: []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, want: FormatPNG},
		{name: "exr", data: []byte{0x76, 0x2f, 0x31, 0x01}, want: FormatEXR},
		{name: "npy", data: []byte("\x93NUMPY\x01\x00"), want: FormatNPY},
		{name: "npz", data: []byte("PK\x03\x04....."), want: FormatNPZ},
		{name: "tiff le", data: []byte("II\x2a\x00"), want: FormatTIFF},
		{name: "tiff be", data: []byte("MM\x00\x2a"), want: FormatTIFF},
		{name: "pfm gray", data: []byte("Pf\n"), want: FormatPFM},
		{name: "pfm color", data: []byte("PF\n"), want: FormatPFM},
		{name: "pbm ascii", data: []byte("P1\n"), want: FormatPNM},
		{name: "ppm binary", data: []byte("P6\n"), want: FormatPNM},
		{name: "p7 is not pnm", data: []byte("P7\n"), want: FormatUnknown},
		{name: "empty", data: nil, want: FormatUnknown},
		{name: "garbage", data: []byte("hello"), want: FormatUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectFormat(tc.data); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	if FormatPFM.String() != "pfm" || FormatUnknown.String() != "unknown" {
		t.Fatalf("got %q, %q", FormatPFM, FormatUnknown)
	}
}
