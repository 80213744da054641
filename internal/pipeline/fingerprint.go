package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/ironsheep/hue-variants/internal/variation"
)

// fingerprintVersion changes whenever the color math changes in a way that
// invalidates existing artifacts.
const fingerprintVersion = "1"

// DigestFile hashes the contents of path.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open source: %w", err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash source: %w", err)
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

// Fingerprint identifies the exact inputs an artifact was rendered from:
// the source content and the full step geometry.
func Fingerprint(t variation.Task) string {
	h := xxhash.New()
	fmt.Fprintf(h, "v%s\x00%s\x00%d/%d\x00%d/%d",
		fingerprintVersion, t.Source.Digest,
		t.Params.HueStep, t.Params.HueSteps,
		t.Params.SatStep, t.Params.SatSteps)
	return strconv.FormatUint(h.Sum64(), 16)
}

// SidecarPath is the hidden file holding an artifact's fingerprint.
func SidecarPath(artifact string) string {
	return filepath.Join(filepath.Dir(artifact), "."+filepath.Base(artifact)+".fp")
}

// fingerprintMatches reports whether the sidecar for artifact holds want.
// A missing sidecar is a mismatch, not an error.
func fingerprintMatches(artifact, want string) (bool, error) {
	data, err := os.ReadFile(SidecarPath(artifact))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read fingerprint: %w", err)
	}
	return string(bytes.TrimSpace(data)) == want, nil
}
