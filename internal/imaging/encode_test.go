package imaging

import (
	"encoding/base64"
	"errors"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestEncodeImage(t *testing.T) {
	img := createInMemoryImage(10, 6, color.RGBA{10, 20, 30, 255})

	tests := []struct {
		scale        float64
		wantW, wantH int
	}{
		{1.0, 10, 6},
		{0, 10, 6},
		{0.5, 5, 3},
		{2.0, 20, 12},
		{0.01, 1, 1},
	}

	for _, tt := range tests {
		enc, err := EncodeImage(img, tt.scale)
		if err != nil {
			t.Fatalf("EncodeImage(scale=%v) failed: %v", tt.scale, err)
		}
		if enc.Width != tt.wantW || enc.Height != tt.wantH {
			t.Errorf("scale %v: got %dx%d, want %dx%d", tt.scale, enc.Width, enc.Height, tt.wantW, tt.wantH)
		}
		if enc.MimeType != "image/png" {
			t.Errorf("MimeType: got %s, want image/png", enc.MimeType)
		}

		data, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
		if err != nil {
			t.Fatalf("failed to decode base64: %v", err)
		}
		decoded, err := png.Decode(strings.NewReader(string(data)))
		if err != nil {
			t.Fatalf("failed to decode png: %v", err)
		}
		if b := decoded.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("decoded: got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestEncodeImage_InvalidScale(t *testing.T) {
	img := createInMemoryImage(4, 4, color.RGBA{10, 20, 30, 255})

	for _, scale := range []float64{-2, -0.5, math.NaN(), math.Inf(1)} {
		enc, err := EncodeImage(img, scale)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("scale %v: got %v, want ErrInvalidArgument", scale, err)
		}
		if enc != nil {
			t.Errorf("scale %v: expected nil result", scale)
		}
	}
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	img := createGradientImage(12, 9)
	cache := NewImageCache()

	for _, name := range []string{"out.png", "out.jpg", "out.JPEG", "out.bmp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := SaveImage(path, img); err != nil {
				t.Fatalf("SaveImage failed: %v", err)
			}
			dims, err := GetDimensions(cache, path)
			if err != nil {
				t.Fatalf("GetDimensions failed: %v", err)
			}
			if dims.Width != 12 || dims.Height != 9 {
				t.Errorf("dimensions: got %dx%d, want 12x9", dims.Width, dims.Height)
			}
		})
	}
}

func TestSaveImage_PNGIsLossless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lossless.png")
	img := createGradientImage(8, 8)
	if err := SaveImage(path, img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	loaded, err := NewImageCache().Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			r, g, b, _ := loaded.At(x, y).RGBA()
			want := img.RGBAAt(x, y)
			if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
				t.Fatalf("pixel (%d,%d): got (%d,%d,%d), want %v", x, y, r>>8, g>>8, b>>8, want)
			}
		}
	}
}

func TestSaveImage_BadPath(t *testing.T) {
	img := createInMemoryImage(2, 2, color.RGBA{0, 0, 0, 255})
	if err := SaveImage("/nonexistent/dir/out.png", img); err == nil {
		t.Error("SaveImage should fail for an unwritable path")
	}
}
