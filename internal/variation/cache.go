package variation

import "github.com/ironsheep/hue-variants/internal/imaging"

// DefaultSeedSize is how many of the most frequent colors are transformed
// before the pixel pass starts.
const DefaultSeedSize = 1000

// ColorCache memoizes ShiftRGB for one set of Params.
//
// A cache belongs to exactly one task and must not be shared: its entries are
// only valid for the Params it was created with. It is not safe for
// concurrent use.
type ColorCache struct {
	params  Params
	entries map[imaging.RGBColor]imaging.RGBColor
	stats   CacheStats
}

// CacheStats counts how a cache was used.
type CacheStats struct {
	// Seeded is the number of colors transformed eagerly by Seed.
	Seeded int
	// Hits is the number of lookups answered from the table.
	Hits int
	// Misses is the number of lookups that had to compute and insert.
	Misses int
}

// Computed is the total number of ShiftRGB evaluations.
func (s CacheStats) Computed() int {
	return s.Seeded + s.Misses
}

// NewColorCache creates an empty cache for p.
func NewColorCache(p Params) *ColorCache {
	return &ColorCache{
		params:  p,
		entries: make(map[imaging.RGBColor]imaging.RGBColor),
	}
}

// Seed eagerly transforms the first k colors of palette, which is expected to
// be sorted by descending frequency (see imaging.ColorHistogram). With fewer
// than k colors, all of them are seeded. Colors already present are left
// alone.
func (c *ColorCache) Seed(palette []imaging.ColorFrequency, k int) {
	if k > len(palette) {
		k = len(palette)
	}
	for _, cf := range palette[:max(k, 0)] {
		if _, ok := c.entries[cf.RGB]; ok {
			continue
		}
		c.entries[cf.RGB] = ShiftRGB(cf.RGB, c.params)
		c.stats.Seeded++
	}
}

// Lookup returns the transformed color for rgb, computing and storing it on
// a miss.
func (c *ColorCache) Lookup(rgb imaging.RGBColor) imaging.RGBColor {
	if out, ok := c.entries[rgb]; ok {
		c.stats.Hits++
		return out
	}
	out := ShiftRGB(rgb, c.params)
	c.entries[rgb] = out
	c.stats.Misses++
	return out
}

// Len returns the number of cached colors.
func (c *ColorCache) Len() int {
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *ColorCache) Stats() CacheStats {
	return c.stats
}
