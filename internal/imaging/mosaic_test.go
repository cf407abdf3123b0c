package imaging

import (
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

var mosaicColors = []color.RGBA{
	{255, 0, 0, 255},
	{0, 255, 0, 255},
	{0, 0, 255, 255},
	{255, 255, 0, 255},
	{0, 255, 255, 255},
}

func solidImages(n, w, h int) []image.Image {
	images := make([]image.Image, n)
	for i := range images {
		images[i] = createInMemoryImage(w, h, mosaicColors[i%len(mosaicColors)])
	}
	return images
}

func nrgbaAt(img *image.NRGBA, x, y int) color.RGBA {
	c := img.NRGBAAt(x, y)
	return color.RGBA{c.R, c.G, c.B, c.A}
}

func TestMosaic_Layout(t *testing.T) {
	tests := []struct {
		n, columns int
		wantRows   int
	}{
		{5, 2, 3},
		{4, 2, 2},
		{2, 3, 1},
		{1, 1, 1},
		{7, 3, 3},
	}

	for _, tt := range tests {
		fig, layout, err := Mosaic(solidImages(tt.n, 10, 8), MosaicOptions{Columns: tt.columns})
		if err != nil {
			t.Fatalf("Mosaic(%d images, %d columns) failed: %v", tt.n, tt.columns, err)
		}
		if layout.Rows != tt.wantRows {
			t.Errorf("%d images, %d columns: rows got %d, want %d", tt.n, tt.columns, layout.Rows, tt.wantRows)
		}
		if layout.Cells != tt.wantRows*tt.columns {
			t.Errorf("cells: got %d, want %d", layout.Cells, tt.wantRows*tt.columns)
		}
		wantW, wantH := 10*tt.columns, 8*tt.wantRows
		if b := fig.Bounds(); b.Dx() != wantW || b.Dy() != wantH {
			t.Errorf("figure: got %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
		}
	}
}

func TestMosaic_Placement(t *testing.T) {
	fig, _, err := Mosaic(solidImages(5, 10, 10), MosaicOptions{Columns: 2})
	if err != nil {
		t.Fatalf("Mosaic failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		col, row := i%2, i/2
		// Check the cell corners so a gap or overlap would show up.
		for _, p := range []image.Point{{col * 10, row * 10}, {col*10 + 9, row*10 + 9}} {
			if got := nrgbaAt(fig, p.X, p.Y); got != mosaicColors[i] {
				t.Errorf("image %d at %v: got %v, want %v", i, p, got, mosaicColors[i])
			}
		}
	}

	// The sixth cell has no image and keeps the background.
	if got := nrgbaAt(fig, 15, 25); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("empty cell: got %v, want white", got)
	}
}

func TestMosaic_Background(t *testing.T) {
	fig, _, err := Mosaic(solidImages(1, 4, 4), MosaicOptions{Columns: 2, Background: "#000000"})
	if err != nil {
		t.Fatalf("Mosaic failed: %v", err)
	}
	if got := nrgbaAt(fig, 6, 2); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("empty cell: got %v, want black", got)
	}
}

func TestMosaic_ExplicitSize(t *testing.T) {
	fig, layout, err := Mosaic(solidImages(2, 10, 10), MosaicOptions{Columns: 2, Width: 25, Height: 7})
	if err != nil {
		t.Fatalf("Mosaic failed: %v", err)
	}
	if layout.Width != 25 || layout.Height != 7 {
		t.Errorf("layout size: got %dx%d, want 25x7", layout.Width, layout.Height)
	}
	if b := fig.Bounds(); b.Dx() != 25 || b.Dy() != 7 {
		t.Errorf("figure: got %dx%d, want 25x7", b.Dx(), b.Dy())
	}
	if got := nrgbaAt(fig, 11, 3); got != mosaicColors[0] {
		t.Errorf("pixel (11,3): got %v, want first image", got)
	}
	if got := nrgbaAt(fig, 24, 6); got != mosaicColors[1] {
		t.Errorf("pixel (24,6): got %v, want second image", got)
	}
}

func TestMosaicCell(t *testing.T) {
	tests := []struct {
		i, cols, rows, w, h int
		want                image.Rectangle
	}{
		{0, 2, 1, 25, 7, image.Rect(0, 0, 12, 7)},
		{1, 2, 1, 25, 7, image.Rect(12, 0, 25, 7)},
		{4, 2, 3, 20, 30, image.Rect(0, 20, 10, 30)},
		{5, 3, 2, 30, 20, image.Rect(20, 10, 30, 20)},
	}
	for _, tt := range tests {
		if got := mosaicCell(tt.i, tt.cols, tt.rows, tt.w, tt.h); got != tt.want {
			t.Errorf("mosaicCell(%d, %d, %d, %d, %d): got %v, want %v", tt.i, tt.cols, tt.rows, tt.w, tt.h, got, tt.want)
		}
	}
}

func TestMosaic_MixedSizes(t *testing.T) {
	images := []image.Image{
		createInMemoryImage(10, 4, mosaicColors[0]),
		createInMemoryImage(6, 12, mosaicColors[1]),
		createInMemoryImage(3, 3, mosaicColors[2]),
	}
	fig, layout, err := Mosaic(images, MosaicOptions{Columns: 3})
	if err != nil {
		t.Fatalf("Mosaic failed: %v", err)
	}
	if layout.Width != 30 || layout.Height != 12 {
		t.Errorf("size: got %dx%d, want 30x12 (columns x widest, rows x tallest)", layout.Width, layout.Height)
	}
	// Every image is stretched over its whole cell.
	if got := nrgbaAt(fig, 29, 11); got != mosaicColors[2] {
		t.Errorf("pixel (29,11): got %v, want third image", got)
	}
}

func TestMosaic_GrayColormap(t *testing.T) {
	// Two levels stretch to the ends of the table.
	twoLevel := createGrayImage(2, 2, func(x, y int) uint8 { return uint8(100 + 50*x) })

	fig, _, err := Mosaic([]image.Image{twoLevel}, MosaicOptions{Columns: 1, Colormap: "hot"})
	if err != nil {
		t.Fatalf("Mosaic failed: %v", err)
	}
	if got := nrgbaAt(fig, 1, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("hot(max): got %v, want white", got)
	}
	if got := nrgbaAt(fig, 0, 0); got != (color.RGBA{0x0b, 0, 0, 255}) {
		t.Errorf("hot(min): got %v, want #0b0000", got)
	}

	fig, _, err = Mosaic([]image.Image{twoLevel}, MosaicOptions{Columns: 1, Colormap: "gray"})
	if err != nil {
		t.Fatalf("Mosaic failed: %v", err)
	}
	if got := nrgbaAt(fig, 0, 1); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("gray(min): got %v, want black", got)
	}
	if got := nrgbaAt(fig, 1, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("gray(max): got %v, want white", got)
	}
}

func TestMosaic_BinaryHeatmapDefaultsToViridis(t *testing.T) {
	heat := image.NewGray(image.Rect(0, 0, 4, 4))
	heat.SetGray(2, 1, color.Gray{Y: 1})

	fig, _, err := Mosaic([]image.Image{heat}, MosaicOptions{Columns: 1})
	if err != nil {
		t.Fatalf("Mosaic failed: %v", err)
	}
	if got := nrgbaAt(fig, 2, 1); got != (color.RGBA{0xfd, 0xe7, 0x25, 255}) {
		t.Errorf("hot pixel: got %v, want #fde725", got)
	}
	if got := nrgbaAt(fig, 0, 0); got != (color.RGBA{0x44, 0x01, 0x54, 255}) {
		t.Errorf("cold pixel: got %v, want #440154", got)
	}
}

func TestMosaic_ConstantGrayUsesFirstColor(t *testing.T) {
	flat := createGrayImage(3, 3, func(x, y int) uint8 { return 200 })

	fig, _, err := Mosaic([]image.Image{flat}, MosaicOptions{Columns: 1, Colormap: "gray"})
	if err != nil {
		t.Fatalf("Mosaic failed: %v", err)
	}
	if got := nrgbaAt(fig, 1, 1); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("constant image: got %v, want black", got)
	}
}

func TestMosaic_Invalid(t *testing.T) {
	images := solidImages(2, 4, 4)

	tests := []struct {
		name   string
		images []image.Image
		opts   MosaicOptions
	}{
		{"no images", nil, MosaicOptions{Columns: 2}},
		{"zero columns", images, MosaicOptions{Columns: 0}},
		{"negative width", images, MosaicOptions{Columns: 2, Width: -1}},
		{"too narrow", images, MosaicOptions{Columns: 2, Width: 1, Height: 4}},
		{"empty image", []image.Image{image.NewRGBA(image.Rect(0, 0, 0, 0))}, MosaicOptions{Columns: 1}},
		{"unknown colormap", images, MosaicOptions{Columns: 2, Colormap: "jet"}},
		{"bad background", images, MosaicOptions{Columns: 2, Background: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Mosaic(tt.images, tt.opts)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error: got %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestMosaicToResult(t *testing.T) {
	res, fig, err := MosaicToResult(solidImages(3, 5, 5), MosaicOptions{Columns: 2})
	if err != nil {
		t.Fatalf("MosaicToResult failed: %v", err)
	}
	if res.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", res.MimeType)
	}
	if res.Rows != 2 || res.Columns != 2 {
		t.Errorf("grid: got %dx%d, want 2x2", res.Columns, res.Rows)
	}

	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	if decoded.Bounds() != fig.Bounds() {
		t.Errorf("decoded bounds: got %v, want %v", decoded.Bounds(), fig.Bounds())
	}
}
