package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Colormap maps 8-bit intensities to display colors for single-channel
// images in a mosaic.
type Colormap struct {
	name string
	lut  [histBins]color.NRGBA
}

// Name returns the colormap's name.
func (m *Colormap) Name() string { return m.name }

// At returns the color for intensity v.
func (m *Colormap) At(v uint8) color.NRGBA { return m.lut[v] }

// Apply renders a grayscale image through the colormap. Samples index the
// table directly; see ApplyStretched for autoscaled rendering.
func (m *Colormap) Apply(src *image.Gray) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		srcRow := src.Pix[src.PixOffset(b.Min.X, y):]
		dstRow := dst.Pix[dst.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			c := m.lut[srcRow[x]]
			dstRow[4*x+0] = c.R
			dstRow[4*x+1] = c.G
			dstRow[4*x+2] = c.B
			dstRow[4*x+3] = c.A
		}
	}
	return dst
}

// ApplyStretched renders src with its own min..max range spread over the
// whole table: v maps to entry floor((v-min)*256/(max-min)), capped at 255.
// A constant image maps to entry 0.
func (m *Colormap) ApplyStretched(src *image.Gray) *image.NRGBA {
	return m.Apply(stretchRange(src))
}

func stretchRange(src *image.Gray) *image.Gray {
	b := src.Bounds()
	lo, hi := 255, 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for _, v := range src.Pix[src.PixOffset(b.Min.X, y):][:b.Dx()] {
			lo = min(lo, int(v))
			hi = max(hi, int(v))
		}
	}

	var lut [histBins]uint8
	if hi > lo {
		for v := lo; v <= hi; v++ {
			lut[v] = uint8(min((v-lo)*histBins/(hi-lo), histBins-1))
		}
	}

	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		srcRow := src.Pix[src.PixOffset(b.Min.X, y):][:b.Dx()]
		dstRow := dst.Pix[dst.PixOffset(b.Min.X, y):]
		for x, v := range srcRow {
			dstRow[x] = lut[v]
		}
	}
	return dst
}

// Colormap stops. Viridis is sampled from matplotlib's table and blended
// in CIE L*a*b*, which keeps it perceptually even; hot is a piecewise
// linear RGB ramp.
var (
	viridisStops = []string{"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}
	hotStops     = []string{"#0b0000", "#ff0000", "#ffff00", "#ffffff"}
)

// ColormapNames lists the accepted colormap names.
var ColormapNames = []string{"gray", "viridis", "hot"}

// DefaultColormap is used when no colormap is named.
const DefaultColormap = "viridis"

// LookupColormap returns the named colormap. The empty name selects
// DefaultColormap.
func LookupColormap(name string) (*Colormap, error) {
	if name == "" {
		name = DefaultColormap
	}
	switch strings.ToLower(name) {
	case "gray", "grey":
		m := &Colormap{name: "gray"}
		for i := range m.lut {
			m.lut[i] = color.NRGBA{uint8(i), uint8(i), uint8(i), 255}
		}
		return m, nil
	case "viridis":
		return blendedColormap("viridis", viridisStops, colorful.Color.BlendLab)
	case "hot":
		return blendedColormap("hot", hotStops, colorful.Color.BlendRgb)
	}
	return nil, fmt.Errorf("%w: unknown colormap %q (want one of %s)",
		ErrInvalidArgument, name, strings.Join(ColormapNames, ", "))
}

func blendedColormap(name string, hexStops []string, blend func(colorful.Color, colorful.Color, float64) colorful.Color) (*Colormap, error) {
	stops := make([]colorful.Color, len(hexStops))
	for i, h := range hexStops {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("failed to parse colormap stop %s: %w", h, err)
		}
		stops[i] = c
	}

	m := &Colormap{name: name}
	segments := float64(len(stops) - 1)
	for i := range m.lut {
		t := float64(i) / 255 * segments
		seg := int(t)
		if seg >= len(stops)-1 {
			seg = len(stops) - 2
		}
		c := blend(stops[seg], stops[seg+1], t-float64(seg)).Clamped()
		r, g, b := c.RGB255()
		m.lut[i] = color.NRGBA{r, g, b, 255}
	}
	return m, nil
}

// parseBackground parses "#RRGGBB", "RRGGBB" or the short "#RGB" form.
func parseBackground(hex string) (color.NRGBA, error) {
	if hex == "" {
		return color.NRGBA{255, 255, 255, 255}, nil
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: background color %q: %v", ErrInvalidArgument, hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, 255}, nil
}
