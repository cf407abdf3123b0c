package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

const histBins = 256

// equalizeTiles is the pure Go CLAHE used when OpenCV is not linked in.
// The algorithm is described on the CLAHE type. Weights and lookup scales
// are float32 with every product rounded before it is summed, the same
// arithmetic cv::CLAHE does, so results match OpenCV exactly.
func equalizeTiles(src *image.Gray, clipLimit float64, grid TileGrid) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	tileW := ceilDiv(w, grid.X)
	tileH := ceilDiv(h, grid.Y)
	tileArea := tileW * tileH

	limit := 0
	if clipLimit > 0 {
		// A limit of tileArea or more leaves every histogram untouched.
		if lf := clipLimit * float64(tileArea) / histBins; lf < float64(tileArea) {
			limit = max(int(lf), 1)
		}
	}

	luts := make([][histBins]uint8, grid.X*grid.Y)
	for ty := 0; ty < grid.Y; ty++ {
		for tx := 0; tx < grid.X; tx++ {
			hist := tileHistogram(src, tx*tileW, ty*tileH, tileW, tileH)
			if limit > 0 {
				clipHistogram(&hist, limit)
			}
			luts[ty*grid.X+tx] = cdfLUT(&hist, tileArea)
		}
	}

	// Horizontal neighbours and weights are the same on every row.
	invTW := 1 / float32(tileW)
	invTH := 1 / float32(tileH)
	tx1 := make([]int, w)
	tx2 := make([]int, w)
	xa := make([]float32, w)
	xa1 := make([]float32, w)
	for x := 0; x < w; x++ {
		txf := float32(float32(x)*invTW) - 0.5
		t := int(math.Floor(float64(txf)))
		xa[x] = txf - float32(t)
		xa1[x] = 1 - xa[x]
		tx1[x] = clamp(t, 0, grid.X-1)
		tx2[x] = clamp(t+1, 0, grid.X-1)
	}

	dst := image.NewGray(b)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			tyf := float32(float32(y)*invTH) - 0.5
			t := int(math.Floor(float64(tyf)))
			ya := tyf - float32(t)
			ya1 := 1 - ya
			top := luts[clamp(t, 0, grid.Y-1)*grid.X:]
			bottom := luts[clamp(t+1, 0, grid.Y-1)*grid.X:]

			srcRow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			dstRow := dst.Pix[dst.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < w; x++ {
				v := srcRow[x]
				l, r := tx1[x], tx2[x]
				// The float32 conversions keep the compiler from fusing
				// multiply-adds, which would change the rounding.
				upper := float32(float32(top[l][v])*xa1[x]) + float32(float32(top[r][v])*xa[x])
				lower := float32(float32(bottom[l][v])*xa1[x]) + float32(float32(bottom[r][v])*xa[x])
				dstRow[x] = saturateUint8(float32(upper*ya1) + float32(lower*ya))
			}
		}
	})
	return dst
}

// tileHistogram counts the samples of one tile. The tile may extend past
// the right or bottom edge; those positions read the reflect-101 padding.
func tileHistogram(src *image.Gray, x0, y0, tileW, tileH int) [histBins]int {
	var hist [histBins]int
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := y0; y < y0+tileH; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+reflect101(y, h)):]
		if x0+tileW <= w {
			for _, v := range row[x0 : x0+tileW] {
				hist[v]++
			}
			continue
		}
		for x := x0; x < x0+tileW; x++ {
			hist[row[reflect101(x, w)]]++
		}
	}
	return hist
}

// clipHistogram caps every bin at limit and hands the clipped counts back
// to the histogram: an equal share to every bin, then the remainder one at
// a time at evenly spaced bins starting from 0.
func clipHistogram(hist *[histBins]int, limit int) {
	clipped := 0
	for i := range hist {
		if hist[i] > limit {
			clipped += hist[i] - limit
			hist[i] = limit
		}
	}

	batch := clipped / histBins
	residual := clipped - batch*histBins
	for i := range hist {
		hist[i] += batch
	}
	if residual != 0 {
		step := histBins / residual
		if step < 1 {
			step = 1
		}
		for i := 0; i < histBins && residual > 0; i, residual = i+step, residual-1 {
			hist[i]++
		}
	}
}

// cdfLUT turns a histogram over total samples into an equalization lookup
// table: lut[v] = round(cdf(v) * 255 / total).
func cdfLUT(hist *[histBins]int, total int) [histBins]uint8 {
	var lut [histBins]uint8
	scale := float32(histBins-1) / float32(total)
	sum := 0
	for i := range hist {
		sum += hist[i]
		lut[i] = saturateUint8(float32(sum) * scale)
	}
	return lut
}

// reflect101 maps an out-of-range index back into [0, n) by mirroring
// around the edge samples without repeating them (dcb|abcd|cba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*(n-1) - i
		}
	}
	return i
}

// saturateUint8 rounds half to even and clamps to [0, 255].
func saturateUint8(v float32) uint8 {
	r := math.RoundToEven(float64(v))
	if r <= 0 {
		return 0
	}
	if r >= 255 {
		return 255
	}
	return uint8(r)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// clamp constrains val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
