package variation

import (
	"bytes"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/ironsheep/hue-variants/internal/imaging"
)

// newSource wraps pixels the way SourceCache.Load would.
func newSource(pixels *image.NRGBA) *imaging.Source {
	return &imaging.Source{
		Path:    "mem",
		Pixels:  pixels,
		Palette: imaging.ColorHistogram(pixels),
	}
}

// noisyImage mixes a small palette of repeated colors with random ones, plus
// transparent and gray pixels.
func noisyImage(seed int64, w, h int) *image.NRGBA {
	r := rand.New(rand.NewSource(seed))
	common := []color.NRGBA{
		{220, 30, 30, 255},
		{30, 200, 60, 255},
		{40, 60, 230, 200},
		{250, 200, 10, 255},
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var c color.NRGBA
			switch n := r.Intn(10); {
			case n < 5:
				c = common[r.Intn(len(common))]
			case n < 6:
				c = color.NRGBA{uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256)), 0}
			case n < 7:
				g := uint8(r.Intn(256))
				c = color.NRGBA{g, g, g, 255}
			default:
				c = color.NRGBA{uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(1 + r.Intn(255))}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRender_CacheIsTransparent(t *testing.T) {
	src := newSource(noisyImage(42, 64, 48))

	for _, seedSize := range []int{0, 3, DefaultSeedSize} {
		for _, p := range allParams(t, 5, 3) {
			cached, cs := Render(src, p, RenderOptions{UseCache: true, SeedSize: seedSize})
			direct, ds := Render(src, p, RenderOptions{})

			if !bytes.Equal(cached.Pix, direct.Pix) {
				t.Fatalf("%v seed=%d: cached and direct output differ", p, seedSize)
			}
			if ds.Direct == 0 || ds.Computed() != 0 {
				t.Errorf("%v: direct render stats look wrong: %+v", p, ds)
			}
			if cs.Transforms() >= ds.Transforms() {
				t.Errorf("%v seed=%d: cache did not reduce work (%d vs %d)",
					p, seedSize, cs.Transforms(), ds.Transforms())
			}
			if cs.Passthrough != ds.Passthrough {
				t.Errorf("%v: passthrough counts differ", p)
			}
		}
	}
}

func TestRender_EquivalentToPerPixelTransform(t *testing.T) {
	pixels := noisyImage(7, 20, 20)
	src := newSource(pixels)
	p := mustParams(t, 3, 1, 7, 2)

	out, _ := Render(src, p, RenderOptions{UseCache: true, SeedSize: 10})
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			want := Transform(pixels.NRGBAAt(x, y), p)
			if got := out.NRGBAAt(x, y); got != want {
				t.Fatalf("(%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRender_DoesNotModifySource(t *testing.T) {
	pixels := noisyImage(3, 16, 16)
	before := append([]uint8(nil), pixels.Pix...)
	src := newSource(pixels)

	Render(src, mustParams(t, 2, 0, 4, 2), RenderOptions{UseCache: true, SeedSize: DefaultSeedSize})

	if !bytes.Equal(before, pixels.Pix) {
		t.Error("Render modified the source buffer")
	}
}

func TestRender_TransparentAndGrayUntouched(t *testing.T) {
	pixels := noisyImage(11, 32, 32)
	src := newSource(pixels)
	out, stats := Render(src, mustParams(t, 1, 0, 2, 1), RenderOptions{UseCache: true, SeedSize: 5})

	passthrough := 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			in := pixels.NRGBAAt(x, y)
			if in.A == 0 || (in.R == in.G && in.G == in.B) {
				passthrough++
				if got := out.NRGBAAt(x, y); got != in {
					t.Fatalf("(%d,%d): passthrough pixel changed %v -> %v", x, y, in, got)
				}
			}
			if got := out.NRGBAAt(x, y); got.A != in.A {
				t.Fatalf("(%d,%d): alpha changed %d -> %d", x, y, in.A, got.A)
			}
		}
	}
	if stats.Passthrough != passthrough {
		t.Errorf("Passthrough: got %d, want %d", stats.Passthrough, passthrough)
	}
	if stats.Pixels != 32*32 {
		t.Errorf("Pixels: got %d", stats.Pixels)
	}
}

func TestRender_EmptyImage(t *testing.T) {
	src := newSource(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	out, stats := Render(src, mustParams(t, 0, 0, 1, 1), RenderOptions{UseCache: true, SeedSize: DefaultSeedSize})

	if out.Rect.Dx() != 0 || out.Rect.Dy() != 0 {
		t.Errorf("expected empty output, got %v", out.Rect)
	}
	if stats.Transforms() != 0 || stats.Hits != 0 {
		t.Errorf("empty image should do no work, got %+v", stats)
	}
}

func TestRender_FewColorsNeverMiss(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if x < 5 {
				img.SetNRGBA(x, y, color.NRGBA{255, 0, 0, 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{0, 0, 255, 255})
			}
		}
	}
	_, stats := Render(newSource(img), mustParams(t, 1, 0, 2, 1), RenderOptions{UseCache: true, SeedSize: DefaultSeedSize})

	if stats.Seeded != 2 || stats.Misses != 0 || stats.Hits != 100 {
		t.Errorf("stats: got %+v, want 2 seeded, 0 misses, 100 hits", stats)
	}
}
