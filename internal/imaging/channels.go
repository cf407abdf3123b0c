package imaging

import (
	"fmt"
	"image"
)

// Channel indexes the planes returned by SplitChannels.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// String returns the lowercase channel name.
func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// SplitChannels separates a 3-channel 8-bit image into its red, green and
// blue planes. Each plane has bounds starting at the origin and the same
// width and height as img, so planes stay spatially aligned.
//
// Grayscale, alpha-bearing, CMYK and 16-bit images fail with
// ErrInvalidArgument.
func SplitChannels(img image.Image) ([3]*image.Gray, error) {
	var planes [3]*image.Gray

	rgb, err := ToRGB(img)
	if err != nil {
		return planes, err
	}

	r := rgb.Rect
	w, h := r.Dx(), r.Dy()
	for c := range planes {
		planes[c] = image.NewGray(r)
	}
	for y := 0; y < h; y++ {
		src := rgb.Pix[y*rgb.Stride : y*rgb.Stride+3*w]
		rp := planes[Red].Pix[y*planes[Red].Stride:]
		gp := planes[Green].Pix[y*planes[Green].Stride:]
		bp := planes[Blue].Pix[y*planes[Blue].Stride:]
		for x := 0; x < w; x++ {
			rp[x] = src[3*x+0]
			gp[x] = src[3*x+1]
			bp[x] = src[3*x+2]
		}
	}
	return planes, nil
}

// MergeChannels interleaves three single-channel planes into an RGB image,
// in the order given. All planes must share the same bounds.
func MergeChannels(r, g, b *image.Gray) (*RGB, error) {
	if r == nil || g == nil || b == nil {
		return nil, fmt.Errorf("%w: nil channel plane", ErrInvalidArgument)
	}
	bounds := r.Bounds()
	if g.Bounds() != bounds || b.Bounds() != bounds {
		return nil, fmt.Errorf("%w: channel bounds differ: %v, %v, %v",
			ErrInvalidArgument, bounds, g.Bounds(), b.Bounds())
	}

	out := NewRGB(bounds)
	w, h := bounds.Dx(), bounds.Dy()
	for y := 0; y < h; y++ {
		rp := r.Pix[r.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		gp := g.Pix[g.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		bp := b.Pix[b.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		dst := out.Pix[y*out.Stride : y*out.Stride+3*w]
		for x := 0; x < w; x++ {
			dst[3*x+0] = rp[x]
			dst[3*x+1] = gp[x]
			dst[3*x+2] = bp[x]
		}
	}
	return out, nil
}
