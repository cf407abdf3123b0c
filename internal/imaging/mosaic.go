package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// MosaicOptions controls the layout of Mosaic.
type MosaicOptions struct {
	// Columns is the number of cells per row (>= 1).
	Columns int

	// Width and Height are the total figure size in pixels. Zero means
	// "derive": Columns times the widest image, rows times the tallest.
	Width  int
	Height int

	// Colormap renders single-channel images: "viridis" (default), "gray"
	// or "hot". Each such image is autoscaled so its darkest sample gets
	// the first color and its brightest the last. Color images are drawn
	// as they are.
	Colormap string

	// Background fills cells left over after the last image. Hex color,
	// default white.
	Background string
}

// MosaicLayout describes the grid a mosaic was drawn on.
type MosaicLayout struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
	Cells   int `json:"cells"`
	Width   int `json:"width"`
	Height  int `json:"height"`
}

// Mosaic lays images out left to right, top to bottom, in opts.Columns
// columns. The row count is ceil(len(images)/Columns). Cells touch each
// other with no spacing; image i lands in column i%Columns, row
// i/Columns, and is stretched to fill its cell using nearest-neighbor
// sampling.
//
// When Width or Height is not a multiple of the grid, cell edges are
// distributed so the figure is still exactly Width x Height.
func Mosaic(images []image.Image, opts MosaicOptions) (*image.NRGBA, *MosaicLayout, error) {
	if len(images) == 0 {
		return nil, nil, fmt.Errorf("%w: mosaic needs at least one image", ErrInvalidArgument)
	}
	if opts.Columns < 1 {
		return nil, nil, fmt.Errorf("%w: columns %d must be at least 1", ErrInvalidArgument, opts.Columns)
	}
	if opts.Width < 0 || opts.Height < 0 {
		return nil, nil, fmt.Errorf("%w: figure size %dx%d must not be negative", ErrInvalidArgument, opts.Width, opts.Height)
	}
	for i, img := range images {
		if img == nil || img.Bounds().Empty() {
			return nil, nil, fmt.Errorf("%w: image %d is empty", ErrInvalidArgument, i)
		}
	}

	cmap, err := LookupColormap(opts.Colormap)
	if err != nil {
		return nil, nil, err
	}
	bg, err := parseBackground(opts.Background)
	if err != nil {
		return nil, nil, err
	}

	cols := opts.Columns
	rows := (len(images) + cols - 1) / cols

	width, height := opts.Width, opts.Height
	if width == 0 || height == 0 {
		maxW, maxH := 0, 0
		for _, img := range images {
			maxW = max(maxW, img.Bounds().Dx())
			maxH = max(maxH, img.Bounds().Dy())
		}
		if width == 0 {
			width = maxW * cols
		}
		if height == 0 {
			height = maxH * rows
		}
	}
	if width < cols || height < rows {
		return nil, nil, fmt.Errorf("%w: figure %dx%d too small for a %dx%d grid",
			ErrInvalidArgument, width, height, cols, rows)
	}

	figure := imaging.New(width, height, bg)
	for i, img := range images {
		cell := mosaicCell(i, cols, rows, width, height)
		tile := imaging.Resize(renderable(img, cmap), cell.Dx(), cell.Dy(), imaging.NearestNeighbor)
		draw.Draw(figure, cell, tile, image.Point{}, draw.Src)
	}

	return figure, &MosaicLayout{
		Rows:    rows,
		Columns: cols,
		Cells:   rows * cols,
		Width:   width,
		Height:  height,
	}, nil
}

// mosaicCell returns the pixel rectangle of cell i.
func mosaicCell(i, cols, rows, width, height int) image.Rectangle {
	col, row := i%cols, i/cols
	return image.Rect(
		col*width/cols, row*height/rows,
		(col+1)*width/cols, (row+1)*height/rows,
	)
}

// renderable passes color images through and maps single-channel ones
// through the colormap after stretching their range.
func renderable(img image.Image, cmap *Colormap) image.Image {
	switch src := img.(type) {
	case *image.Gray:
		return cmap.ApplyStretched(src)
	case *image.Gray16:
		b := src.Bounds()
		gray := image.NewGray(b)
		draw.Draw(gray, b, src, b.Min, draw.Src)
		return cmap.ApplyStretched(gray)
	}
	if img.ColorModel() == color.GrayModel {
		b := img.Bounds()
		gray := image.NewGray(b)
		draw.Draw(gray, b, img, b.Min, draw.Src)
		return cmap.ApplyStretched(gray)
	}
	return img
}

// MosaicResult contains a rendered mosaic.
type MosaicResult struct {
	MosaicLayout
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// MosaicToResult renders a mosaic and encodes it as base64 PNG.
func MosaicToResult(images []image.Image, opts MosaicOptions) (*MosaicResult, *image.NRGBA, error) {
	figure, layout, err := Mosaic(images, opts)
	if err != nil {
		return nil, nil, err
	}
	enc, err := EncodeImage(figure, 1.0)
	if err != nil {
		return nil, nil, err
	}
	return &MosaicResult{
		MosaicLayout: *layout,
		ImageBase64:  enc.ImageBase64,
		MimeType:     enc.MimeType,
	}, figure, nil
}
