// Package pipeline runs a hue-variants batch end to end: it scans the input
// directory, decomposes the sources into variation tasks, executes them on
// the worker pool, and relocates finished sources into the output tree.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ironsheep/hue-variants/internal/config"
	"github.com/ironsheep/hue-variants/internal/executor"
	"github.com/ironsheep/hue-variants/internal/imaging"
	"github.com/ironsheep/hue-variants/internal/variation"
)

// ErrOutputConflict marks a source whose variants would overwrite those of
// another source in the same batch.
var ErrOutputConflict = errors.New("output name already used by another source")

// Options carries collaborators that are not part of the configuration.
type Options struct {
	// Logger receives progress records. Defaults to slog.Default().
	Logger *slog.Logger
	// RunID tags every log record. A random one is generated when empty.
	RunID string
	// DisableCache renders every pixel without the color cache.
	DisableCache bool
}

// Pipeline executes batches for one configuration.
type Pipeline struct {
	cfg          config.Config
	log          *slog.Logger
	runID        string
	sources      *imaging.SourceCache
	writer       *imaging.Writer
	disableCache bool
}

// New creates a Pipeline. cfg is normalized but not validated; callers should
// run cfg.Validate first.
func New(cfg config.Config, opts Options) *Pipeline {
	cfg.Normalize()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Pipeline{
		cfg:          cfg,
		log:          logger.With("run_id", runID),
		runID:        runID,
		sources:      imaging.NewSourceCache(),
		writer:       imaging.NewWriter(cfg.WriteRetries),
		disableCache: opts.DisableCache,
	}
}

// Decodes reports how many source images this pipeline has read from disk.
func (p *Pipeline) Decodes() int {
	return p.sources.Decodes()
}

// Run processes every matching file in the configured input directory.
//
// The returned error covers only failures that prevent the batch from
// starting, such as an unreadable input directory. Per-task and per-source
// failures are reported in the Summary.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	refs, err := ScanSources(p.cfg.InputDir, p.cfg.Extensions)
	if err != nil {
		return nil, err
	}
	return p.RunSources(ctx, refs), nil
}

// RunSources processes the given sources.
func (p *Pipeline) RunSources(ctx context.Context, refs []variation.SourceRef) *Summary {
	defer p.sources.Clear()

	summary := &Summary{RunID: p.runID}
	images := make([]ImageSummary, len(refs))
	byPath := make(map[string]*ImageSummary, len(refs))
	ready := make([]variation.SourceRef, 0, len(refs))

	// Sources with the same name and output extension would write the same
	// artifacts; the first one in scan order keeps them.
	claimed := make(map[string]string, len(refs))

	for i, ref := range refs {
		images[i] = ImageSummary{Name: ref.Name, Source: ref.Path}
		byPath[ref.Path] = &images[i]

		key := ref.Name + ref.Ext
		if owner, ok := claimed[key]; ok {
			err := fmt.Errorf("%w: %s and %s both write %s",
				ErrOutputConflict, owner, ref.Path, variation.OutputDir(p.cfg.OutputDir, ref))
			images[i].Err = err
			summary.Failures = append(summary.Failures, Failure{Source: ref.Path, Err: err})
			p.log.Error("output name already taken", "source", ref.Path, "owner", owner)
			continue
		}
		claimed[key] = ref.Path

		if p.cfg.SkipPolicy == config.SkipFingerprint {
			digest, err := DigestFile(ref.Path)
			if err != nil {
				images[i].Err = err
				summary.Failures = append(summary.Failures, Failure{Source: ref.Path, Err: err})
				p.log.Error("source unreadable", "source", ref.Path, "error", err)
				continue
			}
			ref.Digest = digest
		}
		ready = append(ready, ref)
	}

	tasks := variation.Decompose(ready, p.cfg.HueSteps, p.cfg.SaturationSteps, p.cfg.OutputDir)
	summary.Tasks = len(tasks)
	summary.Images = images
	if len(tasks) == 0 {
		p.log.Info("no variants to generate",
			"sources", len(refs), "hue_steps", p.cfg.HueSteps, "saturation_steps", p.cfg.SaturationSteps)
		return summary
	}

	p.log.Info("starting batch",
		"sources", len(ready), "tasks", len(tasks), "workers", p.cfg.Workers)

	remaining := make(map[string]*atomic.Int32, len(ready))
	for _, t := range tasks {
		if remaining[t.Source.Path] == nil {
			remaining[t.Source.Path] = new(atomic.Int32)
		}
		remaining[t.Source.Path].Add(1)
	}

	results := executor.Run(ctx, p.cfg.Workers, tasks, func(ctx context.Context, t variation.Task) (Outcome, error) {
		defer func() {
			if remaining[t.Source.Path].Add(-1) == 0 {
				p.sources.Evict(t.Source.Path)
				p.log.Debug("released source", "source", t.Source.Path, "cached", p.sources.Len())
			}
		}()
		return p.process(ctx, t)
	})

	for _, r := range results {
		img := byPath[r.Item.Source.Path]
		switch {
		case r.Cancelled():
			img.Cancelled++
			summary.Failures = append(summary.Failures, Failure{
				Source: r.Item.Source.Path, Task: r.Item.String(), Err: r.Err, Cancelled: true,
			})
		case r.Err != nil:
			img.Failed++
			p.log.Error("variant failed", "task", r.Item.String(), "error", r.Err)
			summary.Failures = append(summary.Failures, Failure{
				Source: r.Item.Source.Path, Task: r.Item.String(), Err: r.Err,
			})
		default:
			if r.Value.Status == StatusSkipped {
				img.Skipped++
				summary.Skipped++
			} else {
				img.Generated++
				summary.Generated++
			}
			img.Transforms += r.Value.Stats.Transforms()
			img.CacheHits += r.Value.Stats.Hits
			summary.Transforms += r.Value.Stats.Transforms()
			summary.CacheHits += r.Value.Stats.Hits
		}
	}

	counts := executor.Summarize(results)
	summary.Failed = counts.Failed
	summary.Cancelled = counts.Cancelled

	for _, ref := range ready {
		img := byPath[ref.Path]
		if !img.Complete() {
			p.log.Warn("leaving source in place", "source", ref.Path,
				"failed", img.Failed, "cancelled", img.Cancelled)
			continue
		}
		dst := filepath.Join(variation.OutputDir(p.cfg.OutputDir, ref), filepath.Base(ref.Path))
		if err := imaging.MoveFile(ref.Path, dst); err != nil {
			img.Err = err
			summary.Failures = append(summary.Failures, Failure{Source: ref.Path, Err: err})
			p.log.Error("failed to relocate source", "source", ref.Path, "error", err)
			continue
		}
		img.Relocated = true
		p.log.Debug("relocated source", "source", ref.Path, "dest", dst)
	}

	p.log.Info("batch finished",
		"generated", summary.Generated, "skipped", summary.Skipped,
		"failed", summary.Failed, "cancelled", summary.Cancelled)
	return summary
}

// process runs one task. It never touches another task's buffers: the source
// is shared read-only and Render works on its own copy with its own cache.
func (p *Pipeline) process(ctx context.Context, t variation.Task) (Outcome, error) {
	done, err := p.upToDate(t)
	if err != nil {
		return Outcome{}, err
	}
	if done {
		p.log.Debug("skipping existing variant", "path", t.OutputPath)
		return Outcome{Status: StatusSkipped, Path: t.OutputPath}, nil
	}

	src, err := p.sources.Load(t.Source.Path)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load %s: %w", t.Source.Path, err)
	}

	img, stats := variation.Render(src, t.Params, variation.RenderOptions{
		UseCache: !p.disableCache,
		SeedSize: p.cfg.CacheSeedSize,
	})

	if err := p.writer.Save(ctx, t.OutputPath, img); err != nil {
		return Outcome{}, fmt.Errorf("failed to write %s: %w", t.OutputPath, err)
	}
	if p.cfg.SkipPolicy == config.SkipFingerprint {
		if err := p.writer.SaveBytes(ctx, SidecarPath(t.OutputPath), []byte(Fingerprint(t))); err != nil {
			return Outcome{}, fmt.Errorf("failed to write fingerprint: %w", err)
		}
	}

	p.log.Info("generated image", "path", t.OutputPath,
		"width", src.Width(), "height", src.Height(),
		"transforms", stats.Transforms(), "cache_hits", stats.Hits)
	return Outcome{Status: StatusGenerated, Path: t.OutputPath, Stats: stats}, nil
}

// upToDate applies the skip policy to t's artifact.
func (p *Pipeline) upToDate(t variation.Task) (bool, error) {
	_, err := os.Stat(t.OutputPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", t.OutputPath, err)
	}
	if p.cfg.SkipPolicy != config.SkipFingerprint {
		return true, nil
	}
	return fingerprintMatches(t.OutputPath, Fingerprint(t))
}
