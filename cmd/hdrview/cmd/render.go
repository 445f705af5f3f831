package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/nfnt/resize"
	"github.com/spf13/cobra"

	"github.com/openhdr/hdrview"
)

var renderFlags struct {
	out       string
	auto      bool
	gamma     bool
	min, max  float64
	normFloat bool
	gammaIn   float64
	gammaOut  float64
	exposure  float64
	markNaN   bool
	flipY     bool
	packed    bool
	maxEdge   uint
}

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a file to an 8-bit PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.out, "out", "o", "out.png", "output PNG path")
	f.BoolVar(&renderFlags.auto, "auto", true, "auto-normalize to the observed min/max")
	f.BoolVar(&renderFlags.gamma, "gamma-mode", false, "normalize to the full native range and apply gamma/exposure")
	f.Float64Var(&renderFlags.min, "min", 0, "manual display minimum")
	f.Float64Var(&renderFlags.max, "max", 0, "manual display maximum")
	f.BoolVar(&renderFlags.normFloat, "normalized", false, "manual range is a 0-1 fraction of full scale")
	f.Float64Var(&renderFlags.gammaIn, "gamma-in", 1, "input gamma")
	f.Float64Var(&renderFlags.gammaOut, "gamma-out", 1, "output gamma")
	f.Float64Var(&renderFlags.exposure, "exposure", 0, "exposure in stops")
	f.BoolVar(&renderFlags.markNaN, "mark-nan", false, "render non-finite pixels fuchsia instead of black")
	f.BoolVar(&renderFlags.flipY, "flip-y", false, "flip the output vertically")
	f.BoolVar(&renderFlags.packed, "rgb-packed", false, "treat RGB as one packed 24-bit grayscale sample")
	f.UintVar(&renderFlags.maxEdge, "max-edge", 0, "downscale the preview so the longest edge fits this many pixels")
	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, args []string) error {
	buf, err := hdrview.DecodeFile(args[0])
	if err != nil {
		return fmt.Errorf("decode %s: %w", args[0], err)
	}

	norm := hdrview.NormalizationSettings{
		AutoNormalize:   renderFlags.auto,
		GammaMode:       renderFlags.gamma,
		NormalizedFloat: renderFlags.normFloat,
	}
	if renderFlags.min != 0 || renderFlags.max != 0 {
		norm.AutoNormalize = false
		norm.HasRange = true
		norm.Min, norm.Max = renderFlags.min, renderFlags.max
	}
	if renderFlags.gamma {
		norm.AutoNormalize = false
	}
	tone := hdrview.ToneSettings{
		GammaIn:  renderFlags.gammaIn,
		GammaOut: renderFlags.gammaOut,
		Exposure: renderFlags.exposure,
	}
	opts := hdrview.RenderOptions{
		FlipY:     renderFlags.flipY,
		RGBPacked: renderFlags.packed,
	}
	if renderFlags.markNaN {
		opts.NaNColor = [3]uint8{255, 0, 255}
	}

	var st *hdrview.Stats
	if norm.AutoNormalize {
		st = buf.ComputeStats()
	}
	img, err := hdrview.Render(buf, st, norm, tone, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	var out image.Image = img
	if e := renderFlags.maxEdge; e > 0 {
		w, h := img.Rect.Dx(), img.Rect.Dy()
		if w > int(e) || h > int(e) {
			if w >= h {
				out = resize.Resize(e, 0, img, resize.Bilinear)
			} else {
				out = resize.Resize(0, e, img, resize.Bilinear)
			}
		}
	}

	f, err := os.Create(renderFlags.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", renderFlags.out, err)
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
