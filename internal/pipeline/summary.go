package pipeline

import "github.com/ironsheep/hue-variants/internal/variation"

// Status is the outcome of a task that did not fail.
type Status string

const (
	StatusGenerated Status = "generated"
	StatusSkipped   Status = "skipped"
)

// Outcome is what a successful task reports back.
type Outcome struct {
	Status Status
	Path   string
	Stats  variation.Stats
}

// Failure records one task, or one source, that did not complete.
type Failure struct {
	Source string
	// Task is empty for failures that affect a whole source.
	Task      string
	Err       error
	Cancelled bool
}

// ImageSummary tallies the tasks of one source image.
type ImageSummary struct {
	Name       string
	Source     string
	Generated  int
	Skipped    int
	Failed     int
	Cancelled  int
	Transforms int
	CacheHits  int
	// Relocated is true once the source was copied into its output
	// directory and removed from the input directory.
	Relocated bool
	// Err is set when the source itself could not be processed, either
	// before its tasks were created or while relocating it afterwards.
	Err error
}

// Complete reports whether every task of the image succeeded.
func (s ImageSummary) Complete() bool {
	return s.Err == nil && s.Failed == 0 && s.Cancelled == 0
}

// Summary is the result of one batch run.
type Summary struct {
	RunID      string
	Tasks      int
	Generated  int
	Skipped    int
	Failed     int
	Cancelled  int
	Transforms int
	CacheHits  int
	Images     []ImageSummary
	Failures   []Failure
}

// OK reports whether the batch finished without any failure.
func (s *Summary) OK() bool {
	return s.Failed == 0 && s.Cancelled == 0 && len(s.Failures) == 0
}
