package hdrview

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/mrjoshuak/go-openexr/half"
)

var npyMagic = []byte("\x93NUMPY")

// DecodeNPY decodes a NumPy .npy array. Versions 1 and 2 of the header are
// accepted; the header dict must carry a C-order 2-tuple (H, W) or 3-tuple
// (H, W, C) shape and one of the dtypes f2/f4/f8/u1/u2/u4/u8/i1/i2/i4/i8.
// Integer dtypes are upcast to float32 storage with Float=false so the
// display path still treats them as integer-ranged data.
func DecodeNPY(data []byte) (*SampleBuffer, error) {
	if len(data) < 8 || !bytes.Equal(data[:6], npyMagic) {
		tok := ""
		if len(data) >= 6 {
			tok = string(data[:6])
		}
		return nil, formatErr("npy", ErrBadMagic, "%q", tok)
	}
	major := data[6]
	var headerLen, headerStart int
	switch major {
	case 1:
		if len(data) < 10 {
			return nil, formatErr("npy", ErrTruncated, "header length")
		}
		headerLen = int(binary.LittleEndian.Uint16(data[8:10]))
		headerStart = 10
	case 2:
		if len(data) < 12 {
			return nil, formatErr("npy", ErrTruncated, "header length")
		}
		headerLen = int(binary.LittleEndian.Uint32(data[8:12]))
		headerStart = 12
	default:
		return nil, formatErr("npy", ErrUnsupported, "version %d", major)
	}
	if len(data) < headerStart+headerLen {
		return nil, formatErr("npy", ErrTruncated, "header declares %d bytes", headerLen)
	}
	header := string(data[headerStart : headerStart+headerLen])

	descr, err := npyDictString(header, "descr")
	if err != nil {
		return nil, err
	}
	if order, err := npyDictLiteral(header, "fortran_order"); err == nil && order == "True" {
		return nil, formatErr("npy", ErrUnsupported, "fortran_order")
	}
	shape, err := npyDictShape(header)
	if err != nil {
		return nil, err
	}

	height, width := shape[0], shape[1]
	channels := 1
	if len(shape) == 3 {
		channels = shape[2]
	}
	if width <= 0 || height <= 0 || channels < 1 || channels > 4 {
		return nil, formatErr("npy", ErrUnsupported, "shape %v", shape)
	}

	bigEndian, kind, err := npyDtype(descr)
	if err != nil {
		return nil, err
	}

	count := width * height * channels
	payload := data[headerStart+headerLen:]
	if len(payload) < count*kind.Size() {
		return nil, formatErr("npy", ErrTruncated, "need %d bytes, have %d", count*kind.Size(), len(payload))
	}

	samples := make([]float32, count)
	var order binary.ByteOrder = binary.LittleEndian
	if bigEndian {
		order = binary.BigEndian
	}
	for i := 0; i < count; i++ {
		samples[i] = npyElement(payload, i, kind, order)
	}

	return &SampleBuffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Kind:     kind,
		Float:    kind.IsFloat(),
		TypeMax:  kind.TypeMax(),
		Samples:  samples,
	}, nil
}

func npyElement(payload []byte, i int, kind ElementKind, order binary.ByteOrder) float32 {
	switch kind {
	case KindUint8:
		return float32(payload[i])
	case KindInt8:
		return float32(int8(payload[i]))
	case KindUint16:
		return float32(order.Uint16(payload[i*2:]))
	case KindInt16:
		return float32(int16(order.Uint16(payload[i*2:])))
	case KindUint32:
		return float32(order.Uint32(payload[i*4:]))
	case KindInt32:
		return float32(int32(order.Uint32(payload[i*4:])))
	case KindUint64:
		return float32(order.Uint64(payload[i*8:]))
	case KindInt64:
		return float32(int64(order.Uint64(payload[i*8:])))
	case KindFloat16:
		return half.Half(order.Uint16(payload[i*2:])).Float32()
	case KindFloat32:
		return math.Float32frombits(order.Uint32(payload[i*4:]))
	case KindFloat64:
		return float32(math.Float64frombits(order.Uint64(payload[i*8:])))
	}
	return 0
}

func npyDtype(descr string) (bigEndian bool, kind ElementKind, err error) {
	s := descr
	switch {
	case strings.HasPrefix(s, ">"):
		bigEndian = true
		s = s[1:]
	case strings.HasPrefix(s, "<"), strings.HasPrefix(s, "="), strings.HasPrefix(s, "|"):
		s = s[1:]
	}
	switch s {
	case "f2":
		kind = KindFloat16
	case "f4":
		kind = KindFloat32
	case "f8":
		kind = KindFloat64
	case "u1":
		kind = KindUint8
	case "u2":
		kind = KindUint16
	case "u4":
		kind = KindUint32
	case "u8":
		kind = KindUint64
	case "i1":
		kind = KindInt8
	case "i2":
		kind = KindInt16
	case "i4":
		kind = KindInt32
	case "i8":
		kind = KindInt64
	default:
		return false, 0, formatErr("npy", ErrUnsupported, "dtype %q", descr)
	}
	return bigEndian, kind, nil
}

// npyDictString extracts a quoted value from the Python-literal header dict.
func npyDictString(header, key string) (string, error) {
	re := regexp.MustCompile(`['"]` + key + `['"]\s*:\s*['"]([^'"]*)['"]`)
	m := re.FindStringSubmatch(header)
	if m == nil {
		return "", formatErr("npy", ErrBadHeader, "missing %q", key)
	}
	return m[1], nil
}

// npyDictLiteral extracts an unquoted literal such as True/False.
func npyDictLiteral(header, key string) (string, error) {
	re := regexp.MustCompile(`['"]` + key + `['"]\s*:\s*([A-Za-z]+)`)
	m := re.FindStringSubmatch(header)
	if m == nil {
		return "", formatErr("npy", ErrBadHeader, "missing %q", key)
	}
	return m[1], nil
}

var npyShapeRe = regexp.MustCompile(`['"]shape['"]\s*:\s*\(([^)]*)\)`)

func npyDictShape(header string) ([]int, error) {
	m := npyShapeRe.FindStringSubmatch(header)
	if m == nil {
		return nil, formatErr("npy", ErrBadHeader, "missing %q", "shape")
	}
	var dims []int
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, formatErr("npy", ErrBadHeader, "shape element %q", part)
		}
		dims = append(dims, v)
	}
	if len(dims) != 2 && len(dims) != 3 {
		return nil, formatErr("npy", ErrUnsupported, "%d-dimensional array", len(dims))
	}
	return dims, nil
}

var npzPreferRe = regexp.MustCompile(`(?i)depth|dispar|inv|z|range`)

// DecodeNPZ decodes the preferred array from a NumPy .npz archive. Only
// stored (uncompressed) members are supported. When the archive holds
// several arrays, a member whose name suggests depth or disparity data wins,
// otherwise the first .npy member is taken.
func DecodeNPZ(data []byte) (*SampleBuffer, error) {
	if len(data) < 4 || !bytes.Equal(data[:4], []byte{'P', 'K', 0x03, 0x04}) {
		return nil, formatErr("npz", ErrBadMagic, "not a zip archive")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, formatErr("npz", ErrBadHeader, "%v", err)
	}

	var chosen *zip.File
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".npy") {
			continue
		}
		if chosen == nil {
			chosen = f
		}
		if npzPreferRe.MatchString(f.Name) {
			chosen = f
			break
		}
	}
	if chosen == nil {
		return nil, formatErr("npz", ErrBadHeader, "no .npy member")
	}
	if chosen.Method != zip.Store {
		return nil, formatErr("npz", ErrUnsupported, "compressed member %q", chosen.Name)
	}

	rc, err := chosen.Open()
	if err != nil {
		return nil, formatErr("npz", ErrBadHeader, "%v", err)
	}
	defer rc.Close()
	member, err := io.ReadAll(rc)
	if err != nil {
		return nil, formatErr("npz", ErrTruncated, "%v", err)
	}
	return DecodeNPY(member)
}
