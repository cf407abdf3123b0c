package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
)

// EncodedImage is an image serialized for transport.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// ValidateScale accepts 0 (meaning unscaled) and any finite positive
// factor. Anything else wraps ErrInvalidArgument.
func ValidateScale(scale float64) error {
	if scale < 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return fmt.Errorf("%w: scale %v must be a positive number", ErrInvalidArgument, scale)
	}
	return nil
}

// EncodeImage encodes img as base64 PNG. A scale other than 0 or 1 resizes
// the image first with a Lanczos filter; each dimension is at least one
// pixel.
func EncodeImage(img image.Image, scale float64) (*EncodedImage, error) {
	if err := ValidateScale(scale); err != nil {
		return nil, err
	}
	if scale != 1.0 && scale > 0 {
		w := max(1, int(float64(img.Bounds().Dx())*scale))
		h := max(1, int(float64(img.Bounds().Dy())*scale))
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SaveImage writes img to path. The format follows the extension: ".jpg"
// and ".jpeg" write JPEG at quality 95, ".bmp" writes BMP and everything
// else writes PNG.
func SaveImage(path string, img image.Image) error {
	var enc imgio.Encoder
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		enc = imgio.JPEGEncoder(95)
	case ".bmp":
		enc = imgio.BMPEncoder()
	default:
		enc = imgio.PNGEncoder()
	}
	if err := imgio.Save(path, img, enc); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
