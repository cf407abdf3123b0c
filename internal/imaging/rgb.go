package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// RGB is an in-memory image of 8-bit red, green and blue samples with no
// alpha channel. Pixels are interleaved R, G, B in row-major order.
//
// RGB implements image.Image so results can be handed straight to the
// standard encoders.
type RGB struct {
	// Pix holds the samples. The pixel at (x, y) starts at
	// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*3].
	Pix []uint8
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// NewRGB returns a new black RGB image with the given bounds.
func NewRGB(r image.Rectangle) *RGB {
	w, h := r.Dx(), r.Dy()
	return &RGB{
		Pix:    make([]uint8, 3*w*h),
		Stride: 3 * w,
		Rect:   r,
	}
}

// ColorModel returns color.RGBAModel; every pixel is fully opaque.
func (p *RGB) ColorModel() color.Model { return color.RGBAModel }

// Bounds returns the image bounds.
func (p *RGB) Bounds() image.Rectangle { return p.Rect }

// At returns the color of the pixel at (x, y).
func (p *RGB) At(x, y int) color.Color {
	return p.RGBAt(x, y)
}

// RGBAt returns the pixel at (x, y) as an opaque color.RGBA.
func (p *RGB) RGBAt(x, y int) color.RGBA {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.RGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	return color.RGBA{R: s[0], G: s[1], B: s[2], A: 255}
}

// Set sets the pixel at (x, y), dropping any alpha.
func (p *RGB) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	c1 := color.RGBAModel.Convert(c).(color.RGBA)
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	s[0], s[1], s[2] = c1.R, c1.G, c1.B
}

// PixOffset returns the index of the first element of Pix that corresponds
// to the pixel at (x, y).
func (p *RGB) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

// Opaque always reports true.
func (p *RGB) Opaque() bool { return true }

// ToNRGBA copies the image into a fully opaque *image.NRGBA.
func (p *RGB) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(p.Rect)
	w, h := p.Rect.Dx(), p.Rect.Dy()
	for y := 0; y < h; y++ {
		src := p.Pix[y*p.Stride : y*p.Stride+3*w]
		dst := out.Pix[y*out.Stride : y*out.Stride+4*w]
		for x := 0; x < w; x++ {
			dst[4*x+0] = src[3*x+0]
			dst[4*x+1] = src[3*x+1]
			dst[4*x+2] = src[3*x+2]
			dst[4*x+3] = 255
		}
	}
	return out
}

// ChannelCount reports how many 8-bit channels a split of img would
// produce: 3 for color images without transparency, 1 for grayscale or
// alpha-only images and 4 for CMYK or images carrying real transparency.
// Images whose samples are wider than 8 bits return an error.
func ChannelCount(img image.Image) (int, error) {
	switch src := img.(type) {
	case *RGB, *image.YCbCr:
		return 3, nil
	case *image.RGBA:
		if src.Opaque() {
			return 3, nil
		}
		return 4, nil
	case *image.NRGBA:
		if src.Opaque() {
			return 3, nil
		}
		return 4, nil
	case *image.Paletted:
		if src.Opaque() {
			return 3, nil
		}
		return 4, nil
	case *image.Gray, *image.Alpha:
		return 1, nil
	case *image.CMYK:
		return 4, nil
	case *image.Gray16, *image.Alpha16, *image.RGBA64, *image.NRGBA64:
		return 0, fmt.Errorf("%w: %T has 16-bit samples, want 8-bit", ErrInvalidArgument, img)
	}

	// Unknown implementations are classified by their color model.
	switch img.ColorModel() {
	case color.GrayModel, color.AlphaModel:
		return 1, nil
	case color.Gray16Model, color.Alpha16Model, color.RGBA64Model, color.NRGBA64Model:
		return 0, fmt.Errorf("%w: %T has 16-bit samples, want 8-bit", ErrInvalidArgument, img)
	case color.CMYKModel:
		return 4, nil
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		return 4, nil
	}
	return 3, nil
}

// ToRGB converts img to an *RGB with bounds starting at the origin.
//
// Only 3-channel 8-bit images are accepted (see ChannelCount); anything
// else fails with ErrInvalidArgument. The input is never modified and the
// returned image never shares memory with it.
func ToRGB(img image.Image) (*RGB, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image bounds %v", ErrInvalidArgument, b)
	}
	n, err := ChannelCount(img)
	if err != nil {
		return nil, err
	}
	if n != 3 {
		return nil, fmt.Errorf("%w: %T splits into %d channels, want 3", ErrInvalidArgument, img, n)
	}

	w, h := b.Dx(), b.Dy()
	out := NewRGB(image.Rect(0, 0, w, h))

	switch src := img.(type) {
	case *RGB:
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:y*out.Stride+3*w], src.Pix[i:i+3*w])
		}
		return out, nil
	case *image.RGBA:
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			packRGB(out.Pix[y*out.Stride:], src.Pix[i:i+4*w], w)
		}
		return out, nil
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			packRGB(out.Pix[y*out.Stride:], src.Pix[i:i+4*w], w)
		}
		return out, nil
	}

	// Everything else goes through an NRGBA copy; opaque sources convert
	// exactly.
	tmp := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(tmp, tmp.Bounds(), img, b.Min, draw.Src)
	for y := 0; y < h; y++ {
		packRGB(out.Pix[y*out.Stride:], tmp.Pix[y*tmp.Stride:y*tmp.Stride+4*w], w)
	}
	return out, nil
}

// packRGB drops the alpha byte from w RGBA-ordered pixels.
func packRGB(dst, src []uint8, w int) {
	for x := 0; x < w; x++ {
		dst[3*x+0] = src[4*x+0]
		dst[3*x+1] = src[4*x+1]
		dst[3*x+2] = src[4*x+2]
	}
}
