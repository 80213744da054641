// Package imaging is the raster boundary of hue-variants.
//
// It decodes source files into in-memory pixel buffers, computes their color
// histograms, and persists finished variants back to disk. Everything above
// this package works on *image.NRGBA buffers with 8-bit, non-premultiplied
// channels and bounds starting at (0,0).
//
// # Pixel Buffers
//
// A Source is decoded once and then shared read-only. Code that needs to
// modify pixels must work on a copy obtained from ClonePixels. Alpha is kept
// separate from color (NRGBA), so a pixel's RGB values survive untouched even
// when it is partially transparent.
//
// # Thread Safety
//
// SourceCache and Writer are safe for concurrent use. ColorHistogram and the
// file helpers are stateless.
//
// # Writing Artifacts
//
// Writer.Save never leaves a partially written file at its destination: data
// is encoded into a hidden temp file in the same directory and renamed into
// place. Output directories are created with os.MkdirAll, which tolerates
// concurrent and repeated creation of the same path.
//
// # Error Handling
//
// Functions return wrapped errors for:
//   - File I/O errors during decoding or writing
//   - Unsupported output extensions (ErrUnsupportedFormat)
//   - Encoding errors during image output
package imaging
