package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhdr/hdrview"
)

var histFlags struct {
	auto     bool
	gamma    bool
	gammaIn  float64
	gammaOut float64
	exposure float64
}

var histogramCmd = &cobra.Command{
	Use:   "histogram <file>",
	Short: "Print the display-space histogram as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistogram,
}

func init() {
	f := histogramCmd.Flags()
	f.BoolVar(&histFlags.auto, "auto", true, "auto-normalize to the observed min/max")
	f.BoolVar(&histFlags.gamma, "gamma-mode", false, "normalize to the full native range and apply gamma/exposure")
	f.Float64Var(&histFlags.gammaIn, "gamma-in", 1, "input gamma")
	f.Float64Var(&histFlags.gammaOut, "gamma-out", 1, "output gamma")
	f.Float64Var(&histFlags.exposure, "exposure", 0, "exposure in stops")
	rootCmd.AddCommand(histogramCmd)
}

func runHistogram(_ *cobra.Command, args []string) error {
	buf, err := hdrview.DecodeFile(args[0])
	if err != nil {
		return fmt.Errorf("decode %s: %w", args[0], err)
	}

	norm := hdrview.NormalizationSettings{
		AutoNormalize: histFlags.auto && !histFlags.gamma,
		GammaMode:     histFlags.gamma,
	}
	tone := hdrview.ToneSettings{
		GammaIn:  histFlags.gammaIn,
		GammaOut: histFlags.gammaOut,
		Exposure: histFlags.exposure,
	}

	var st *hdrview.Stats
	if norm.AutoNormalize {
		st = buf.ComputeStats()
	}
	h, err := hdrview.ComputeHistogram(buf, st, norm, tone, hdrview.HistogramOptions{})
	if err != nil {
		return fmt.Errorf("histogram: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(h)
}
