package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/singleflight"
)

// Source is a decoded source image shared read-only by every variation task
// generated from it.
//
// Pixels and Palette must never be mutated once the Source is returned from
// SourceCache.Load; tasks that need a working buffer copy Pixels first.
type Source struct {
	// Path is the file the image was decoded from.
	Path string

	// Pixels holds the image as non-premultiplied 8-bit RGBA, with its bounds
	// starting at (0,0).
	Pixels *image.NRGBA

	// Palette lists the distinct chromatic, visible colors of Pixels ordered
	// by descending frequency. See ColorHistogram.
	Palette []ColorFrequency
}

// Width returns the image width in pixels.
func (s *Source) Width() int { return s.Pixels.Rect.Dx() }

// Height returns the image height in pixels.
func (s *Source) Height() int { return s.Pixels.Rect.Dy() }

// SourceCache provides thread-safe caching of decoded source images so a
// source is decoded once no matter how many tasks reference it.
//
// Concurrent Load calls for the same path share a single decode. Once loaded,
// an entry stays in memory until Evict or Clear is called.
//
// # Example Usage
//
//	cache := imaging.NewSourceCache()
//	src, err := cache.Load("input/logo.png")
//	if err != nil {
//	    return err
//	}
//	// Use src.Pixels...
//	cache.Evict("input/logo.png")
type SourceCache struct {
	mu      sync.RWMutex
	sources map[string]*Source
	failed  map[string]error
	group   singleflight.Group
	decodes int
}

// NewSourceCache creates and initializes a new empty source cache.
func NewSourceCache() *SourceCache {
	return &SourceCache{
		sources: make(map[string]*Source),
		failed:  make(map[string]error),
	}
}

// Load retrieves a source from the cache or decodes it from disk.
//
// Parameters:
//   - path: File path to the image. Supported formats are those registered
//     with the image package (PNG, JPEG, GIF) plus BMP and TIFF via the
//     imaging codec.
//
// Returns:
//   - *Source: The decoded pixels and their color histogram.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// The image is cached under the exact path string provided. A decode failure
// is cached as well, so a broken file is read once and every later Load for
// it returns the same error until the entry is evicted.
func (c *SourceCache) Load(path string) (*Source, error) {
	if src, ok, err := c.lookup(path); ok {
		return src, err
	}

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		if src, ok, err := c.lookup(path); ok {
			return src, err
		}

		src, err := DecodeSource(path)

		c.mu.Lock()
		c.decodes++
		if err != nil {
			c.failed[path] = err
		} else {
			c.sources[path] = src
		}
		c.mu.Unlock()
		return src, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*Source), nil
}

func (c *SourceCache) lookup(path string) (*Source, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if src, ok := c.sources[path]; ok {
		return src, true, nil
	}
	if err, ok := c.failed[path]; ok {
		return nil, true, err
	}
	return nil, false, nil
}

// Evict removes a specific source, or its cached failure, by its path.
func (c *SourceCache) Evict(path string) {
	c.mu.Lock()
	delete(c.sources, path)
	delete(c.failed, path)
	c.mu.Unlock()
}

// Clear removes all sources from the cache.
func (c *SourceCache) Clear() {
	c.mu.Lock()
	c.sources = make(map[string]*Source)
	c.failed = make(map[string]error)
	c.mu.Unlock()
}

// Len reports how many sources are currently cached.
func (c *SourceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sources)
}

// Decodes reports how many times a source was actually read from disk.
func (c *SourceCache) Decodes() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.decodes
}

// DecodeSource reads path into an NRGBA buffer and computes its histogram.
//
// EXIF orientation is ignored so pixel positions match the stored raster.
func DecodeSource(path string) (*Source, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	pixels := ToNRGBA(img)
	return &Source{
		Path:    path,
		Pixels:  pixels,
		Palette: ColorHistogram(pixels),
	}, nil
}

// ToNRGBA converts any image into a zero-origin NRGBA buffer.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// ClonePixels returns an independent copy of a pixel buffer.
func ClonePixels(src *image.NRGBA) *image.NRGBA {
	dst := &image.NRGBA{
		Pix:    make([]uint8, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	copy(dst.Pix, src.Pix)
	return dst
}
