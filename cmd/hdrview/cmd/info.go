package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhdr/hdrview"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show format, dimensions and sample statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	format := hdrview.DetectFormat(data)
	buf, err := hdrview.Decode(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	fmt.Printf("Format:    %s\n", format)
	fmt.Printf("Size:      %dx%d\n", buf.Width, buf.Height)
	fmt.Printf("Channels:  %d\n", buf.Channels)
	fmt.Printf("Element:   %s (float=%v, full scale %g)\n", buf.Kind, buf.Float, buf.TypeMax)
	if st := buf.ComputeStats(); st != nil {
		fmt.Printf("Range:     [%g, %g]\n", st.Min, st.Max)
	} else {
		fmt.Printf("Range:     no finite samples\n")
	}
	return nil
}
