package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
)

// TileGridOverlayResult contains an image with CLAHE tile boundaries drawn
// on it.
type TileGridOverlayResult struct {
	EncodedImage
	TileGrid   TileGrid `json:"tile_grid"`
	TileWidth  int      `json:"tile_width"`
	TileHeight int      `json:"tile_height"`
}

// TileGridOverlay draws the tile boundaries CLAHE uses for grid on a copy
// of img and labels each tile with its "column,row" index.
//
// Tiles are ceil(width/grid.X) by ceil(height/grid.Y) pixels, the same
// geometry EnhanceContrast works on; when the image is not a multiple of
// the tile size the last row and column of tiles are cut short. An
// unparseable color falls back to semi-transparent red.
func TileGridOverlay(img image.Image, grid TileGrid, gridColorHex string, showLabels bool) (*TileGridOverlayResult, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty image bounds %v", ErrInvalidArgument, bounds)
	}
	width, height := bounds.Dx(), bounds.Dy()
	tileW := ceilDiv(width, grid.X)
	tileH := ceilDiv(height, grid.Y)

	gridColor, err := parseHexColor(gridColorHex)
	if err != nil {
		gridColor = color.RGBA{255, 0, 0, 128}
	}

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	for x := tileW; x < width; x += tileW {
		for y := 0; y < height; y++ {
			result.Set(x, y, gridColor)
		}
	}
	for y := tileH; y < height; y += tileH {
		for x := 0; x < width; x++ {
			result.Set(x, y, gridColor)
		}
	}

	if showLabels {
		labelColor := color.RGBA{255, 255, 255, 255}
		bgColor := color.RGBA{0, 0, 0, 180}
		for ty := 0; ty < grid.Y && ty*tileH < height; ty++ {
			for tx := 0; tx < grid.X && tx*tileW < width; tx++ {
				label := fmt.Sprintf("%d,%d", tx, ty)
				drawLabel(result, tx*tileW+2, ty*tileH+2, label, labelColor, bgColor)
			}
		}
	}

	enc, err := EncodeImage(result, 1.0)
	if err != nil {
		return nil, err
	}

	return &TileGridOverlayResult{
		EncodedImage: *enc,
		TileGrid:     grid,
		TileWidth:    tileW,
		TileHeight:   tileH,
	}, nil
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r, g, b = uint8(val>>16), uint8(val>>8), uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r, g, b, a = uint8(val>>24), uint8(val>>16), uint8(val>>8), uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	// image.RGBA stores premultiplied alpha.
	return color.RGBA{
		R: uint8(uint16(r) * uint16(a) / 255),
		G: uint8(uint16(g) * uint16(a) / 255),
		B: uint8(uint16(b) * uint16(a) / 255),
		A: a,
	}, nil
}

// glyphs is a 3x5 pixel font covering what tile labels need.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

// drawLabel draws text at (x, y) on a filled background box, clipped to the
// image. Characters without a glyph leave a gap.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	set := func(px, py int, c color.RGBA) {
		if (image.Point{px, py}).In(bounds) {
			img.Set(px, py, c)
		}
	}

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		if glyph, ok := glyphs[ch]; ok {
			for row, line := range glyph {
				for col, pixel := range line {
					if pixel == '1' {
						set(cx+col, y+row, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
