package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/equipment/backend/internal/domain/equipment"
	"github.com/equipment/backend/internal/domain/shared"
)

// supportedExtensions are the image types the import sweep picks up
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// SupportedImage reports whether a filename has an importable image extension
func SupportedImage(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Source is one image to import
type Source interface {
	Name() string
	Open(ctx context.Context) ([]byte, error)
}

type fileSource struct {
	path string
}

func (f fileSource) Name() string { return filepath.Base(f.path) }

func (f fileSource) Open(ctx context.Context) ([]byte, error) {
	return os.ReadFile(f.path)
}

// ByteSource is an in-memory Source, used for images fetched from remote
// storage before import.
type ByteSource struct {
	FileName string
	Data     []byte
}

func (b ByteSource) Name() string { return b.FileName }

func (b ByteSource) Open(ctx context.Context) ([]byte, error) { return b.Data, nil }

// Processor turns one image into a persisted equipment record
type Processor interface {
	ProcessImage(ctx context.Context, filename string, image []byte) (*equipment.Equipment, error)
}

// Runner executes batch imports in the background and reports progress
// through a Tracker.
type Runner struct {
	proc    Processor
	tracker *Tracker
	dir     string
	delay   time.Duration
	logger  *zap.Logger
}

// NewRunner creates a Runner sweeping dir for local imports. delay is the
// pause between items so API rate limits are respected.
func NewRunner(proc Processor, tracker *Tracker, dir string, delay time.Duration, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{proc: proc, tracker: tracker, dir: dir, delay: delay, logger: logger}
}

// Tracker exposes the progress tracker backing this runner
func (r *Runner) Tracker() *Tracker { return r.tracker }

// ListLocalImages returns the importable image filenames in the sweep
// directory, sorted by name.
func (r *Runner) ListLocalImages() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !SupportedImage(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// RunLocal starts a background job over the images in the sweep directory
// and returns the job id.
func (r *Runner) RunLocal(ctx context.Context) (string, error) {
	names, err := r.ListLocalImages()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", shared.NewDomainError("INVALID_INPUT", "no importable images found")
	}
	sources := make([]Source, 0, len(names))
	for _, n := range names {
		sources = append(sources, fileSource{path: filepath.Join(r.dir, n)})
	}
	return r.RunSources(ctx, sources)
}

// RunSources starts a background job over the given sources and returns the
// job id immediately.
func (r *Runner) RunSources(ctx context.Context, sources []Source) (string, error) {
	if len(sources) == 0 {
		return "", shared.NewDomainError("INVALID_INPUT", "no sources to import")
	}
	jobID, err := r.tracker.Begin(len(sources))
	if err != nil {
		return "", err
	}
	go r.run(context.WithoutCancel(ctx), jobID, sources)
	return jobID, nil
}

func (r *Runner) run(ctx context.Context, jobID string, sources []Source) {
	r.logger.Info("batch import started",
		zap.String("job_id", jobID),
		zap.Int("total", len(sources)),
	)

	for i, src := range sources {
		r.tracker.Advance(jobID, i+1, src.Name())

		data, err := src.Open(ctx)
		if err != nil {
			r.tracker.RecordError(jobID, src.Name(), err.Error())
			r.logger.Warn("batch item unreadable",
				zap.String("job_id", jobID),
				zap.String("file", src.Name()),
				zap.Error(err),
			)
			continue
		}

		if _, err := r.proc.ProcessImage(ctx, src.Name(), data); err != nil {
			r.tracker.RecordError(jobID, src.Name(), err.Error())
			r.logger.Warn("batch item failed",
				zap.String("job_id", jobID),
				zap.String("file", src.Name()),
				zap.Error(err),
			)
		}

		if r.delay > 0 && i < len(sources)-1 {
			select {
			case <-ctx.Done():
				r.tracker.Fail(jobID, ctx.Err().Error())
				return
			case <-time.After(r.delay):
			}
		}
	}

	r.tracker.Complete(jobID)
	snap, _ := r.tracker.Snapshot(jobID)
	r.logger.Info("batch import finished",
		zap.String("job_id", jobID),
		zap.Int("total", snap.Total),
		zap.Int("failed", len(snap.Errors)),
	)
}
