// Package hdrview is the numeric core of a scientific/HDR image viewer.
//
// It decodes raw binary pixel encodings (float TIFF, OpenEXR, NumPy arrays,
// PFM, PBM/PGM/PPM, 8/16-bit PNG) into a flat sample buffer, and turns that
// buffer into an 8-bit displayable raster or into per-channel histograms
// computed under the exact same display transform, so that what the
// histogram counts is what the screen shows.
package hdrview
