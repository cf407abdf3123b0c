//go:build !cgo || !linux

package imaging

import "image"

func (c *CLAHE) apply(src *image.Gray) (*image.Gray, error) {
	return equalizeTiles(src, c.effectiveClipLimit(), c.grid), nil
}
