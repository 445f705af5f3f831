package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "hdrview",
	Short: "Inspect and render scientific/HDR image files",
	Long: `hdrview decodes raw pixel encodings (float TIFF, OpenEXR, NumPy
arrays, PFM, PBM/PGM/PPM, 8/16-bit PNG) and renders them to displayable
8-bit PNGs, or reports their statistics and display-space histograms.`,
	Version: version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"hdrview %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}
