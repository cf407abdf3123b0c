package imaging

import (
	"image"

	"golang.org/x/sync/errgroup"
)

// EnhanceContrast applies CLAHE to each color channel of img independently
// and returns the recombined result.
//
// Parameters:
//   - img: A 3-channel 8-bit color image. Opaque *image.RGBA, *image.NRGBA,
//     *image.Paletted, *image.YCbCr and *RGB are accepted.
//   - clipLimit: Contrast limit, > 0. Higher values allow more contrast
//     amplification per tile.
//   - grid: Number of tiles across and down the image, each >= 1.
//
// Returns:
//   - *RGB: A new image of the same width and height, channels in R, G, B
//     order, bounds starting at the origin.
//   - error: ErrInvalidArgument (wrapped) for grayscale, alpha-bearing,
//     CMYK or 16-bit input, for a non-positive clip limit and for a tile
//     grid smaller than 1x1.
//
// Channels are equalized concurrently. There is no coupling between them,
// so the output is the same as equalizing them one after another, and the
// result is fully deterministic. Either all three channels succeed or no
// image is returned.
func EnhanceContrast(img image.Image, clipLimit float64, grid TileGrid) (*RGB, error) {
	clahe, err := NewCLAHE(clipLimit, grid)
	if err != nil {
		return nil, err
	}
	return EnhanceContrastWith(img, clahe)
}

// EnhanceContrastWith is EnhanceContrast with an existing equalizer, for
// callers processing many images with the same parameters.
func EnhanceContrastWith(img image.Image, clahe *CLAHE) (*RGB, error) {
	planes, err := SplitChannels(img)
	if err != nil {
		return nil, err
	}
	out, err := mapChannels(planes, clahe.Apply)
	if err != nil {
		return nil, err
	}
	return MergeChannels(out[Red], out[Green], out[Blue])
}

// mapChannels runs fn on each plane in its own goroutine and returns the
// results in the same channel order.
func mapChannels(planes [3]*image.Gray, fn func(*image.Gray) (*image.Gray, error)) ([3]*image.Gray, error) {
	var out [3]*image.Gray
	var g errgroup.Group
	for c := range planes {
		c := c
		g.Go(func() error {
			res, err := fn(planes[c])
			if err != nil {
				return err
			}
			out[c] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}
