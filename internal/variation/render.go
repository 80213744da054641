package variation

import (
	"image"

	"github.com/ironsheep/hue-variants/internal/imaging"
)

// RenderOptions tunes the pixel pass. The zero value renders without a cache.
type RenderOptions struct {
	// UseCache enables the per-render ColorCache.
	UseCache bool
	// SeedSize is the number of most frequent colors transformed up front
	// when UseCache is set. Zero disables eager seeding.
	SeedSize int
}

// Stats describes the work one render performed.
type Stats struct {
	CacheStats
	// Direct counts ShiftRGB calls made without a cache.
	Direct int
	// Passthrough counts pixels left untouched (transparent or achromatic).
	Passthrough int
	// Pixels is the total pixel count of the image.
	Pixels int
}

// Transforms is the total number of ShiftRGB evaluations.
func (s Stats) Transforms() int {
	return s.Computed() + s.Direct
}

// Render produces the p variant of src into a freshly allocated buffer.
// src is only read.
//
// The cached and uncached paths call the same ShiftRGB with the same Params,
// so their output is bit-identical; the cache only changes how often the
// color math runs.
func Render(src *imaging.Source, p Params, opts RenderOptions) (*image.NRGBA, Stats) {
	out := imaging.ClonePixels(src.Pixels)
	w, h := out.Rect.Dx(), out.Rect.Dy()
	stats := Stats{Pixels: w * h}

	var cache *ColorCache
	if opts.UseCache {
		cache = NewColorCache(p)
		cache.Seed(src.Palette, opts.SeedSize)
	}

	for y := 0; y < h; y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			if row[i+3] == 0 || (row[i] == row[i+1] && row[i+1] == row[i+2]) {
				stats.Passthrough++
				continue
			}
			rgb := imaging.RGBColor{R: row[i], G: row[i+1], B: row[i+2]}
			var shifted imaging.RGBColor
			if cache != nil {
				shifted = cache.Lookup(rgb)
			} else {
				shifted = ShiftRGB(rgb, p)
				stats.Direct++
			}
			row[i], row[i+1], row[i+2] = shifted.R, shifted.G, shifted.B
		}
	}

	if cache != nil {
		stats.CacheStats = cache.Stats()
	}
	return out, stats
}
