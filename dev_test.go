package hdrview_test

// Keep dev tooling (makefiles) in go.mod.
import _ "github.com/bool64/dev"
