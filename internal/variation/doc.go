// Package variation implements the hue/saturation variant generator.
//
// A batch is a matrix: for H hue steps and S saturation steps every source
// image yields H×S variants. Decompose turns sources into independent Tasks,
// one per matrix cell. Render performs one task's pixel pass.
//
// # Color Math
//
// Each chromatic, visible pixel is converted to HSV, its hue rotated by
// HueShift (a fraction of the full circle), its saturation multiplied by
// SatScale and clamped to 1, and converted back with round-to-nearest.
// Fully transparent and achromatic pixels pass through unchanged, and alpha
// is never modified.
//
// # Color Cache
//
// Images usually contain far fewer distinct colors than pixels. When a
// render uses a ColorCache, the most frequent colors are transformed up
// front and every other color is computed once on first sight. The cache is
// owned by a single render and never shared; the output is bit-identical to
// an uncached render.
package variation
