// Package server implements an MCP (Model Context Protocol) server that
// exposes the contrast-enhancement and visualization helpers as tools.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata (including channel count)
//   - image_dimensions: Get width and height
//
// Contrast Operations:
//   - image_enhance_contrast: Per-channel CLAHE
//   - image_equalize_histogram: Per-channel global histogram equalization
//   - image_channel_histograms: Per-channel histograms and statistics
//
// Visualization:
//   - image_mosaic: Grid layout of several images
//   - image_tile_grid_overlay: Draw CLAHE tile boundaries
//
// Omitted clip limits, tile grids and mosaic column counts fall back to the
// values in config.Config.
//
// # Error Handling
//
//   - -32601: unknown method
//   - -32602: malformed params or arguments rejected by validation
//     (anything wrapping imaging.ErrInvalidArgument)
//   - -32000: any other tool failure (missing file, decode error, ...)
package server
