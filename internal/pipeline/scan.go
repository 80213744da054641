package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ironsheep/hue-variants/internal/variation"
)

// ScanSources lists the files in dir whose extension (case-insensitive) is
// one of exts, sorted by file name. Subdirectories are ignored.
func ScanSources(dir string, exts []string) ([]variation.SourceRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = true
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if allowed[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	refs := make([]variation.SourceRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, variation.NewSourceRef(filepath.Join(dir, name)))
	}
	return refs, nil
}
