package variation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ironsheep/hue-variants/internal/imaging"
)

// SourceRef identifies a source image without loading it.
type SourceRef struct {
	// Path is the source file location.
	Path string
	// Name is the file name without its extension; it names the output
	// subdirectory and prefixes every variant file.
	Name string
	// Ext is the extension variants are written with, including the dot.
	Ext string
	// Digest optionally identifies the source content. It is empty unless
	// the caller fingerprints sources.
	Digest string
}

// NewSourceRef derives a SourceRef from a file path.
func NewSourceRef(path string) SourceRef {
	base := filepath.Base(path)
	return SourceRef{
		Path: path,
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
		Ext:  imaging.OutputExt(path),
	}
}

// Task is one (source, hue step, saturation step) combination. Tasks share
// no mutable state and can run in any order.
type Task struct {
	Source     SourceRef
	Params     Params
	OutputPath string
}

func (t Task) String() string {
	return fmt.Sprintf("%s/%s", t.Source.Name, t.Params)
}

// OutputDir returns the per-source output directory under root.
func OutputDir(root string, src SourceRef) string {
	return filepath.Join(root, src.Name)
}

// OutputPath returns the canonical artifact path:
//
//	<root>/<name>/<name>_hue<H>_sat<S><ext>
func OutputPath(root string, src SourceRef, p Params) string {
	file := fmt.Sprintf("%s_hue%d_sat%d%s", src.Name, p.HueStep, p.SatStep, src.Ext)
	return filepath.Join(OutputDir(root, src), file)
}

// Decompose expands sources × hue steps × saturation steps into a flat task
// list. Order is source-major, then hue step, then saturation step, so the
// same input always yields the same list.
//
// A non-positive hueSteps or satSteps means there is nothing to do and
// yields an empty list.
func Decompose(sources []SourceRef, hueSteps, satSteps int, outputRoot string) []Task {
	if hueSteps <= 0 || satSteps <= 0 || len(sources) == 0 {
		return []Task{}
	}

	tasks := make([]Task, 0, len(sources)*hueSteps*satSteps)
	for _, src := range sources {
		for h := 0; h < hueSteps; h++ {
			for s := 0; s < satSteps; s++ {
				// Cannot fail: the ranges above match NewParams' checks.
				p, _ := NewParams(h, s, hueSteps, satSteps)
				tasks = append(tasks, Task{
					Source:     src,
					Params:     p,
					OutputPath: OutputPath(outputRoot, src, p),
				})
			}
		}
	}
	return tasks
}
