package imaging

import (
	"fmt"
	"image"
	"math"
)

// TileGrid is the number of contextual tiles CLAHE divides an image into:
// X tiles across the width and Y tiles down the height.
type TileGrid struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats the grid as "XxY".
func (g TileGrid) String() string {
	return fmt.Sprintf("%dx%d", g.X, g.Y)
}

// Validate reports ErrInvalidArgument unless both dimensions are at least 1.
func (g TileGrid) Validate() error {
	if g.X < 1 || g.Y < 1 {
		return fmt.Errorf("%w: tile grid %s must be at least 1x1", ErrInvalidArgument, g)
	}
	return nil
}

// CLAHE performs contrast-limited adaptive histogram equalization on
// single-channel 8-bit images.
//
// A CLAHE value is immutable once created and safe for concurrent use.
//
// On Linux with cgo enabled Apply runs OpenCV's cv::CLAHE through gocv.
// Other builds use a pure Go port that follows cv::CLAHE step for step,
// float32 arithmetic included, so both produce the same bytes:
//
//  1. The image is padded (reflect-101) on the right and bottom until its
//     size is a multiple of the tile grid; every tile is tileW x tileH.
//  2. Each tile gets a 256-bin histogram. Bins above the integer limit
//     max(int(clipLimit*tileW*tileH/256), 1) are clipped; the excess is
//     spread evenly over all bins and any remainder is added one count at a
//     time, stepping through the bins.
//     A clip limit of 256 or more can never be reached and disables
//     clipping.
//  3. The clipped histogram's cumulative sum, scaled by 255/(tileW*tileH),
//     becomes the tile's lookup table.
//  4. Every output pixel bilinearly interpolates the lookup tables of the
//     four tiles whose centres surround it; pixels beyond the outer tile
//     centres clamp to the edge tiles.
type CLAHE struct {
	clipLimit float64
	grid      TileGrid
}

// NewCLAHE validates the parameters and returns a ready-to-use equalizer.
//
// clipLimit must be a finite number greater than zero; grid must be at
// least 1x1. Violations fail with ErrInvalidArgument.
func NewCLAHE(clipLimit float64, grid TileGrid) (*CLAHE, error) {
	if math.IsNaN(clipLimit) || math.IsInf(clipLimit, 0) || clipLimit <= 0 {
		return nil, fmt.Errorf("%w: clip limit %v must be a positive number", ErrInvalidArgument, clipLimit)
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	return &CLAHE{clipLimit: clipLimit, grid: grid}, nil
}

// ClipLimit returns the configured clip limit.
func (c *CLAHE) ClipLimit() float64 { return c.clipLimit }

// effectiveClipLimit caps the clip limit at the histogram size. Any larger
// value yields a per-bin limit of at least the tile area, which no bin can
// exceed, and would overflow the integer conversion.
func (c *CLAHE) effectiveClipLimit() float64 {
	return math.Min(c.clipLimit, histBins)
}

// TileGrid returns the configured tile grid.
func (c *CLAHE) TileGrid() TileGrid { return c.grid }

// Apply equalizes src and returns a new image with the same bounds. src is
// not modified.
func (c *CLAHE) Apply(src *image.Gray) (*image.Gray, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source image", ErrInvalidArgument)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image bounds %v", ErrInvalidArgument, src.Bounds())
	}
	return c.apply(src)
}
