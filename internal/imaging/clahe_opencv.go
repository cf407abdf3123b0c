//go:build cgo && linux

package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// apply hands the plane to OpenCV. The plane is copied into a contiguous
// buffer first because gocv wants a packed rows*cols byte slice.
func (c *CLAHE) apply(src *image.Gray) (*image.Gray, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	buf := make([]byte, w*h)
	for y := 0; y < h; y++ {
		i := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(buf[y*w:(y+1)*w], src.Pix[i:i+w])
	}

	srcMat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8U, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create source Mat: %w", err)
	}
	defer srcMat.Close()

	dstMat := gocv.NewMat()
	defer dstMat.Close()

	clahe := gocv.NewCLAHEWithParams(c.effectiveClipLimit(), image.Point{X: c.grid.X, Y: c.grid.Y})
	defer clahe.Close()

	clahe.Apply(srcMat, &dstMat)

	data := dstMat.ToBytes()
	if len(data) != w*h {
		return nil, fmt.Errorf("unexpected CLAHE output size: got %d bytes, want %d", len(data), w*h)
	}

	out := image.NewGray(b)
	for y := 0; y < h; y++ {
		i := out.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[i:i+w], data[y*w:(y+1)*w])
	}
	return out, nil
}
