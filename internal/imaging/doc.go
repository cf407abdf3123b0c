// Package imaging provides the contrast-enhancement and visualization
// helpers used on vehicle-tracking frames.
//
// The central operation is EnhanceContrast: it splits a 3-channel 8-bit
// image into red, green and blue planes, runs contrast-limited adaptive
// histogram equalization (CLAHE) on each plane on its own, and merges the
// planes back in the same order. Supporting pieces:
//
//   - CLAHE: the single-channel equalizer (OpenCV via gocv on Linux with
//     cgo, a pure Go port elsewhere)
//   - SplitChannels / MergeChannels and the RGB image type
//   - EqualizeHistogram / EqualizeChannels: global equalization
//   - ChannelHistograms: per-channel distribution summaries
//   - Mosaic: lay images out in a grid with no spacing
//   - TileGridOverlay: visualise the CLAHE tile geometry
//   - ImageCache: decode images from disk once per path
//
// # Accepted Images
//
// EnhanceContrast and friends want exactly three 8-bit channels. Opaque
// *image.RGBA, *image.NRGBA and *image.Paletted count, as do *image.YCbCr
// (JPEG) and *RGB. Grayscale, images with real transparency, CMYK and
// 16-bit images are rejected with an error wrapping ErrInvalidArgument.
//
// # Thread Safety
//
// Every function here is free of shared mutable state and may be called
// concurrently. Inputs are never modified and outputs never alias inputs.
// ImageCache is safe for concurrent use.
package imaging
