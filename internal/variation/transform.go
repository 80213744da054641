package variation

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/hue-variants/internal/imaging"
)

// Transform applies p to a single pixel and returns the new pixel. Alpha is
// always carried through unchanged.
//
// Two kinds of pixel pass through untouched:
//   - fully transparent pixels (A == 0)
//   - achromatic pixels (R == G == B), whose hue is undefined
//
// Everything else goes through ShiftRGB. Transform is pure and safe to call
// from any goroutine.
func Transform(c color.NRGBA, p Params) color.NRGBA {
	if Passthrough(c) {
		return c
	}
	out := ShiftRGB(imaging.RGBColor{R: c.R, G: c.G, B: c.B}, p)
	return color.NRGBA{R: out.R, G: out.G, B: out.B, A: c.A}
}

// Passthrough reports whether Transform leaves c unchanged without doing any
// color math.
func Passthrough(c color.NRGBA) bool {
	return c.A == 0 || (c.R == c.G && c.G == c.B)
}

// ShiftRGB rotates the hue of rgb by p.HueShift and scales its saturation by
// p.SatScale (clamped to 1). Value is preserved. Channels are rounded to the
// nearest integer on the way back to 8 bits.
//
// ShiftRGB does not special-case achromatic input; callers that want the
// passthrough rule use Transform.
func ShiftRGB(rgb imaging.RGBColor, p Params) imaging.RGBColor {
	src := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
	h, s, v := src.Hsv()

	h = math.Mod(h+p.HueDegrees(), 360.0)
	if h < 0 {
		h += 360.0
	}
	// colorful.Hsv yields black for h == 360.
	if h >= 360.0 {
		h = 0
	}
	s = math.Min(s*p.SatScale, 1.0)

	r, g, b := colorful.Hsv(h, s, v).RGB255()
	return imaging.RGBColor{R: r, G: g, B: b}
}
