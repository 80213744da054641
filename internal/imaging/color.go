package imaging

import (
	"image"
	"sort"
)

// RGBColor represents an RGB color with 8-bit components.
//
// RGBColor is comparable and is used directly as a map key by the color
// cache, so alpha is deliberately not part of it.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Achromatic reports whether all three channels are equal (gray, black or
// white). Such colors have zero saturation and an undefined hue.
func (c RGBColor) Achromatic() bool {
	return c.R == c.G && c.G == c.B
}

// packed orders colors deterministically when frequencies tie.
func (c RGBColor) packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// ColorFrequency represents a color and how many pixels carry it.
type ColorFrequency struct {
	RGB   RGBColor `json:"rgb"`
	Count int      `json:"count"`
}

// ColorHistogram counts the distinct colors of an image.
//
// Only pixels that a hue/saturation shift can change are counted: fully
// transparent pixels (alpha == 0) and achromatic pixels (R == G == B) are
// skipped. Unlike a dominant-color analysis there is no quantization; every
// exact RGB triple is its own bucket.
//
// The result is sorted by Count descending. Ties are broken by ascending
// packed RGB value so the order is stable across runs.
//
// An empty image, or one containing only skipped pixels, yields an empty
// (non-nil) slice.
func ColorHistogram(img *image.NRGBA) []ColorFrequency {
	counts := make(map[RGBColor]int)
	w, h := img.Rect.Dx(), img.Rect.Dy()

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			if row[i+3] == 0 {
				continue
			}
			c := RGBColor{R: row[i], G: row[i+1], B: row[i+2]}
			if c.Achromatic() {
				continue
			}
			counts[c]++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		colors = append(colors, ColorFrequency{RGB: c, Count: n})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Count != colors[j].Count {
			return colors[i].Count > colors[j].Count
		}
		return colors[i].RGB.packed() < colors[j].RGB.packed()
	})

	return colors
}
