package hdrview

import (
	"bytes"

	"github.com/mrjoshuak/go-openexr/exr"
)

// DecodeEXR decodes an OpenEXR image. Container parsing (attributes,
// compression, scanline/tile layout, half/float storage) is delegated to the
// go-openexr library; this decoder's own job is mapping the channel list to
// a channel count and interleaving the per-channel planes into one buffer.
// Both half and float storage come back as float32 samples.
func DecodeEXR(data []byte) (*SampleBuffer, error) {
	f, err := exr.OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, formatErr("exr", ErrBadHeader, "%v", err)
	}
	header := f.Header(0)
	if header == nil {
		return nil, formatErr("exr", ErrBadHeader, "missing header")
	}
	dw := header.DataWindow()
	width, height := int(dw.Width()), int(dw.Height())
	if width <= 0 || height <= 0 {
		return nil, formatErr("exr", ErrBadHeader, "dimensions %dx%d", width, height)
	}

	cl := header.Channels()
	if cl == nil || cl.Len() == 0 {
		return nil, formatErr("exr", ErrBadHeader, "no channels")
	}
	names := exrChannelOrder(cl)
	if len(names) > 4 {
		names = names[:4]
	}

	fb := exr.NewFrameBuffer()
	planes := make([][]byte, len(names))
	for i, name := range names {
		planes[i] = make([]byte, width*height*4)
		fb.Set(name, exr.NewSlice(exr.PixelTypeFloat, planes[i], width, height))
	}

	if header.IsTiled() {
		tr, err := exr.NewTiledReader(f)
		if err != nil {
			return nil, formatErr("exr", ErrUnsupported, "%v", err)
		}
		tr.SetFrameBuffer(fb)
		td := header.TileDescription()
		tilesX := (width + int(td.XSize) - 1) / int(td.XSize)
		tilesY := (height + int(td.YSize) - 1) / int(td.YSize)
		if err := tr.ReadTiles(0, 0, tilesX-1, tilesY-1); err != nil {
			return nil, formatErr("exr", ErrTruncated, "%v", err)
		}
	} else {
		sr, err := exr.NewScanlineReader(f)
		if err != nil {
			return nil, formatErr("exr", ErrUnsupported, "%v", err)
		}
		sr.SetFrameBuffer(fb)
		if err := sr.ReadPixels(int(dw.Min.Y), int(dw.Max.Y)); err != nil {
			return nil, formatErr("exr", ErrTruncated, "%v", err)
		}
	}

	channels := len(names)
	samples := make([]float32, width*height*channels)
	for c, name := range names {
		slice := fb.Get(name)
		for y := 0; y < height; y++ {
			row := samples[y*width*channels:]
			for x := 0; x < width; x++ {
				row[x*channels+c] = slice.GetFloat32(x, y)
			}
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

// exrChannelOrder picks the interleave order: named color channels first in
// R, G, B, A order when present, otherwise the header's own channel order.
// A lone channel (a luminance or depth plane) stays a 1-channel image.
func exrChannelOrder(cl *exr.ChannelList) []string {
	have := make(map[string]bool, cl.Len())
	var all []string
	for i := 0; i < cl.Len(); i++ {
		name := cl.At(i).Name
		have[name] = true
		all = append(all, name)
	}
	if cl.Len() == 1 {
		return all
	}
	if have["R"] && have["G"] && have["B"] {
		names := []string{"R", "G", "B"}
		if have["A"] {
			names = append(names, "A")
		}
		return names
	}
	return all
}
