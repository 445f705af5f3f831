package main

import (
	"os"

	"github.com/openhdr/hdrview/cmd/hdrview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
