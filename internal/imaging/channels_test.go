package imaging

import (
	"bytes"
	"errors"
	"image"
	"testing"
)

func TestChannel_String(t *testing.T) {
	tests := []struct {
		c    Channel
		want string
	}{
		{Red, "red"},
		{Green, "green"},
		{Blue, "blue"},
		{Channel(7), "channel(7)"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Channel(%d).String(): got %q, want %q", int(tt.c), got, tt.want)
		}
	}
}

func TestSplitChannels(t *testing.T) {
	img := createGradientImage(6, 5)

	planes, err := SplitChannels(img)
	if err != nil {
		t.Fatalf("SplitChannels failed: %v", err)
	}
	for c, p := range planes {
		if p.Bounds() != image.Rect(0, 0, 6, 5) {
			t.Errorf("%s bounds: got %v, want (0,0)-(6,5)", Channel(c), p.Bounds())
		}
	}

	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			want := img.RGBAAt(x, y)
			got := [3]uint8{planes[Red].GrayAt(x, y).Y, planes[Green].GrayAt(x, y).Y, planes[Blue].GrayAt(x, y).Y}
			if got != [3]uint8{want.R, want.G, want.B} {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSplitMerge_RoundTrip(t *testing.T) {
	img := createGradientImage(9, 7)

	planes, err := SplitChannels(img)
	if err != nil {
		t.Fatalf("SplitChannels failed: %v", err)
	}
	merged, err := MergeChannels(planes[Red], planes[Green], planes[Blue])
	if err != nil {
		t.Fatalf("MergeChannels failed: %v", err)
	}
	want, err := ToRGB(img)
	if err != nil {
		t.Fatalf("ToRGB failed: %v", err)
	}
	if !bytes.Equal(merged.Pix, want.Pix) {
		t.Error("split then merge did not reproduce the image")
	}
}

func TestSplitChannels_Rejects(t *testing.T) {
	_, err := SplitChannels(image.NewGray(image.Rect(0, 0, 3, 3)))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("gray: got %v, want ErrInvalidArgument", err)
	}
}

func TestMergeChannels_Invalid(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 3, 3))
	b := image.NewGray(image.Rect(0, 0, 3, 4))

	if _, err := MergeChannels(a, nil, a); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil plane: got %v, want ErrInvalidArgument", err)
	}
	if _, err := MergeChannels(a, a, b); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("mismatched planes: got %v, want ErrInvalidArgument", err)
	}
}
