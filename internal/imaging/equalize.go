package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/histogram"
)

// EqualizeHistogram performs global histogram equalization on a
// single-channel image: every sample v is replaced by
// round(cdf(v) * 255 / N), where N is the number of pixels.
//
// This is exactly what CLAHE produces with a 1x1 tile grid and a clip limit
// high enough that no bin is ever clipped.
func EqualizeHistogram(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	total := b.Dx() * b.Dy()
	if total == 0 {
		return dst
	}

	hist := grayHistogram(src)
	lut := cdfLUT(&hist, total)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		srcRow := src.Pix[src.PixOffset(b.Min.X, y):]
		dstRow := dst.Pix[dst.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			dstRow[x] = lut[srcRow[x]]
		}
	}
	return dst
}

// EqualizeChannels applies EqualizeHistogram to each channel of a 3-channel
// 8-bit image. Input validation matches EnhanceContrast.
func EqualizeChannels(img image.Image) (*RGB, error) {
	planes, err := SplitChannels(img)
	if err != nil {
		return nil, err
	}
	out, err := mapChannels(planes, func(p *image.Gray) (*image.Gray, error) {
		return EqualizeHistogram(p), nil
	})
	if err != nil {
		return nil, err
	}
	return MergeChannels(out[Red], out[Green], out[Blue])
}

// grayHistogram counts sample values. bild reports the red bin of a gray
// image, which is the gray value itself.
func grayHistogram(src *image.Gray) [histBins]int {
	var hist [histBins]int
	copy(hist[:], histogram.NewRGBAHistogram(src).R.Bins)
	return hist
}

// ChannelStats summarises one channel's distribution.
type ChannelStats struct {
	Channel string  `json:"channel"`
	Min     uint8   `json:"min"`
	Max     uint8   `json:"max"`
	Mean    float64 `json:"mean"`
	// Bins holds 256 counts, one per sample value.
	Bins []int `json:"bins"`
}

// HistogramResult holds per-channel statistics for a color image.
type HistogramResult struct {
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Channels []ChannelStats `json:"channels"`
}

// ChannelHistograms computes a 256-bin histogram for each of the red,
// green and blue channels of a 3-channel 8-bit image, along with the
// minimum, maximum and mean sample. Mean is rounded to two decimals.
func ChannelHistograms(img image.Image) (*HistogramResult, error) {
	rgb, err := ToRGB(img)
	if err != nil {
		return nil, err
	}

	h := histogram.NewRGBAHistogram(rgb)
	bins := [3][]int{h.R.Bins, h.G.Bins, h.B.Bins}
	total := rgb.Rect.Dx() * rgb.Rect.Dy()

	result := &HistogramResult{
		Width:    rgb.Rect.Dx(),
		Height:   rgb.Rect.Dy(),
		Channels: make([]ChannelStats, 0, 3),
	}
	for c, counts := range bins {
		stats := ChannelStats{
			Channel: Channel(c).String(),
			Bins:    append([]int(nil), counts...),
		}
		first := true
		sum := 0
		for v, n := range counts {
			if n == 0 {
				continue
			}
			if first {
				stats.Min = uint8(v)
				first = false
			}
			stats.Max = uint8(v)
			sum += v * n
		}
		stats.Mean = math.Round(float64(sum)/float64(total)*100) / 100
		result.Channels = append(result.Channels, stats)
	}
	return result, nil
}
