package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.NRGBA
			if x < width/2 && y < height/2 {
				c = color.NRGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.NRGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.NRGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.NRGBA{255, 255, 255, 255} // White bottom-right
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRGBColor_Achromatic(t *testing.T) {
	tests := []struct {
		name string
		c    RGBColor
		want bool
	}{
		{"black", RGBColor{0, 0, 0}, true},
		{"white", RGBColor{255, 255, 255}, true},
		{"gray", RGBColor{128, 128, 128}, true},
		{"red", RGBColor{255, 0, 0}, false},
		{"near gray", RGBColor{128, 128, 129}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Achromatic(); got != tt.want {
				t.Errorf("Achromatic: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColorHistogram_Quadrants(t *testing.T) {
	img := createPatternImage(10, 10)
	got := ColorHistogram(img)

	// White is achromatic and excluded; the three primaries tie at 25 pixels
	// and are ordered by packed RGB value.
	want := []ColorFrequency{
		{RGB: RGBColor{0, 0, 255}, Count: 25},
		{RGB: RGBColor{0, 255, 0}, Count: 25},
		{RGB: RGBColor{255, 0, 0}, Count: 25},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("histogram mismatch (-want +got):\n%s", diff)
	}
}

func TestColorHistogram_SortedByFrequency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 1))
	for x := 0; x < 10; x++ {
		c := color.NRGBA{255, 0, 0, 255}
		switch {
		case x < 2:
			c = color.NRGBA{0, 0, 255, 255}
		case x < 5:
			c = color.NRGBA{0, 255, 0, 255}
		}
		img.SetNRGBA(x, 0, c)
	}

	got := ColorHistogram(img)
	if len(got) != 3 {
		t.Fatalf("expected 3 colors, got %d", len(got))
	}
	wantCounts := []int{5, 3, 2}
	for i, cf := range got {
		if cf.Count != wantCounts[i] {
			t.Errorf("color %d: count %d, want %d", i, cf.Count, wantCounts[i])
		}
	}
	if got[0].RGB != (RGBColor{255, 0, 0}) {
		t.Errorf("most frequent color: got %v, want red", got[0].RGB)
	}
}

func TestColorHistogram_SkipsTransparentAndGray(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 0})   // transparent red
	img.SetNRGBA(1, 0, color.NRGBA{90, 90, 90, 255}) // gray
	img.SetNRGBA(2, 0, color.NRGBA{10, 20, 30, 1})   // barely visible
	img.SetNRGBA(3, 0, color.NRGBA{10, 20, 30, 255}) // same RGB, opaque

	got := ColorHistogram(img)
	want := []ColorFrequency{{RGB: RGBColor{10, 20, 30}, Count: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("histogram mismatch (-want +got):\n%s", diff)
	}
}

func TestColorHistogram_Empty(t *testing.T) {
	got := ColorHistogram(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestColorHistogram_SubImageStride(t *testing.T) {
	full := createPatternImage(10, 10)
	// Top-left quadrant only: all red, but the stride still spans the full row.
	sub := ToNRGBA(full.SubImage(image.Rect(0, 0, 5, 5)))

	got := ColorHistogram(sub)
	want := []ColorFrequency{{RGB: RGBColor{255, 0, 0}, Count: 25}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("histogram mismatch (-want +got):\n%s", diff)
	}
}
