package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/cenkalti/backoff/v4"
	"github.com/disintegration/imaging"
)

// ErrUnsupportedFormat is returned when a path's extension has no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// jpegQuality is used for JPEG artifacts.
const jpegQuality = 95

// EncoderFor picks an encoder from the file extension of path.
//
// PNG, JPEG and BMP use the bild encoders; GIF and TIFF fall back to the
// imaging codec.
func EncoderFor(path string) (imgio.Encoder, error) {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	switch format {
	case imaging.PNG:
		return imgio.PNGEncoder(), nil
	case imaging.JPEG:
		return imgio.JPEGEncoder(jpegQuality), nil
	case imaging.BMP:
		return imgio.BMPEncoder(), nil
	default:
		return func(w io.Writer, img image.Image) error {
			return imaging.Encode(w, img, format)
		}, nil
	}
}

// OutputExt returns the extension variants of src are written with: the
// source's own lowercased extension when it can be encoded, otherwise ".png".
func OutputExt(src string) string {
	ext := strings.ToLower(filepath.Ext(src))
	if _, err := imaging.FormatFromFilename("x" + ext); err != nil {
		return ".png"
	}
	return ext
}

// Writer persists artifacts atomically: the image is encoded into a temp file
// next to its destination and renamed into place, so a reader never observes
// a partially written file at the final path.
//
// Writer has no mutable state and is safe for concurrent use.
type Writer struct {
	retries  int
	interval time.Duration
}

// NewWriter creates a Writer that retries a failed write up to retries more
// times with exponential backoff.
func NewWriter(retries int) *Writer {
	if retries < 0 {
		retries = 0
	}
	return &Writer{retries: retries, interval: 50 * time.Millisecond}
}

// Save encodes img to path, creating the parent directory if needed.
//
// Repeated saves to the same path are safe; the last one wins. Directory
// creation is idempotent, so concurrent saves into the same directory do not
// interfere with each other.
//
// # Errors
//
//   - ErrUnsupportedFormat if the extension has no encoder (not retried)
//   - an encode error (not retried)
//   - the last write error once retries are exhausted
//   - ctx.Err() if ctx is cancelled while waiting to retry
func (w *Writer) Save(ctx context.Context, path string, img image.Image) error {
	enc, err := EncoderFor(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return w.SaveBytes(ctx, path, buf.Bytes())
}

// SaveBytes writes data to path through a temp file and rename, retrying
// failed writes with exponential backoff.
func (w *Writer) SaveBytes(ctx context.Context, path string, data []byte) error {
	return w.retry(ctx, func() error {
		return writeAtomic(path, data)
	})
}

func (w *Writer) retry(ctx context.Context, op func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = w.interval
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(w.retries)), ctx)
	return backoff.Retry(op, policy)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move image into place: %w", err)
	}
	committed = true
	return nil
}
