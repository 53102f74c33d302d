// Package pipeline runs one poster job end to end: validate the layout,
// decode the source, plan the grid, cut tiles and write one page per tile.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"

	"github.com/PhantomInTheWire/tileprint/pkg/config"
	"github.com/PhantomInTheWire/tileprint/pkg/emit"
	"github.com/PhantomInTheWire/tileprint/pkg/plan"
	"github.com/PhantomInTheWire/tileprint/pkg/raster"
	"github.com/PhantomInTheWire/tileprint/pkg/split"
	"github.com/PhantomInTheWire/tileprint/pkg/storage"
)

// Uploader is what the runner needs from pkg/storage.
type Uploader interface {
	EnsureBucket(ctx context.Context) error
	UploadFile(ctx context.Context, path string) (string, error)
	UploadFiles(ctx context.Context, paths []string) ([]string, error)
}

// Runner executes jobs. The zero value is not usable; call NewRunner.
type Runner struct {
	Logger *log.Logger

	// Progress receives a page progress bar. Nil disables it.
	Progress io.Writer

	NewEmitter  func(path string, l emit.Layout) (emit.Emitter, error)
	NewUploader func(ctx context.Context, cfg config.Upload, logger *log.Logger) (Uploader, error)
}

// NewRunner returns a runner writing PDFs and uploading through S3.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Logger: logger,
		NewEmitter: func(path string, l emit.Layout) (emit.Emitter, error) {
			d, err := emit.NewPDF(path, l)
			if err != nil {
				return nil, err
			}
			return d, nil
		},
		NewUploader: func(ctx context.Context, cfg config.Upload, logger *log.Logger) (Uploader, error) {
			u, err := storage.New(ctx, cfg, logger)
			if err != nil {
				return nil, err
			}
			return u, nil
		},
	}
}

// Result describes a finished (or previewed) job.
type Result struct {
	Source   image.Point // decoded source size in px
	Plan     plan.Plan   // plan the tiles were cut from
	Output   string
	Tiles    []string // exported tile file names, if any
	Uploaded []string // object keys, if any
	Elapsed  time.Duration
}

// Preview decodes the source and returns the plan without writing anything.
func (r *Runner) Preview(ctx context.Context, input string, p config.Print) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, used, err := r.load(input, p)
	if err != nil {
		return nil, err
	}
	if p.Edge == config.EdgePad {
		used = used.Padded()
	}
	return &Result{Source: image.Pt(src.Width(), src.Height()), Plan: used}, nil
}

// load validates p, decodes input and plans the grid. Configuration errors
// are reported before the input is touched.
func (r *Runner) load(input string, p config.Print) (raster.Raster, plan.Plan, error) {
	if err := p.Validate(); err != nil {
		return raster.Raster{}, plan.Plan{}, err
	}
	tileW, tileH, err := p.TileSize()
	if err != nil {
		return raster.Raster{}, plan.Plan{}, err
	}

	src, err := raster.Open(input)
	if err != nil {
		return raster.Raster{}, plan.Plan{}, err
	}
	r.Logger.Info("loaded source", "path", input, "size", fmt.Sprintf("%dx%d", src.Width(), src.Height()), "format", src.Format())

	pl, err := plan.New(src.Width(), src.Height(), tileW, tileH, p.SheetsWide, p.SheetsTall)
	if err != nil {
		return raster.Raster{}, plan.Plan{}, err
	}
	r.Logger.Debug("planned layout", "plan", pl.String(), "exact", pl.Exact())
	return src, pl, nil
}

// Execute runs job to completion. On failure the output document is
// discarded and any earlier file at the destination is left as it was.
func (r *Runner) Execute(ctx context.Context, job config.Job) (*Result, error) {
	start := time.Now()
	src, pl, err := r.load(job.Input, job.Print)
	if err != nil {
		return nil, err
	}

	canvas, used := split.Prepare(src, pl, job.Print.Edge)
	r.Logger.Info("resized source", "canvas", fmt.Sprintf("%dx%d", canvas.Width(), canvas.Height()))
	r.Logger.Info("tiling", "sheets", fmt.Sprintf("%dx%d", used.SheetsWide, used.SheetsHigh), "pages", used.Pages())
	if w, h := pl.Remainder(); !pl.Exact() {
		r.Logger.Debug("last row/column is partial", "edge", job.Print.Edge, "last_col_px", w, "last_row_px", h)
	}

	var stage *split.Staging
	if job.TilesDir != "" {
		if stage, err = split.NewStaging(job.TilesDir); err != nil {
			return nil, err
		}
	}
	em, err := r.NewEmitter(job.Output, emit.NewLayout(job.Print, used))
	if err != nil {
		r.discard(stage)
		return nil, err
	}

	res := &Result{Source: image.Pt(src.Width(), src.Height()), Plan: used, Output: job.Output}
	bar := r.progressBar(used.Pages())
	err = split.Each(canvas, used, func(t split.Tile) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := em.Page(t); err != nil {
			return err
		}
		if stage != nil {
			if err := stage.Add(t); err != nil {
				return err
			}
		}
		if bar != nil {
			_ = bar.Add(1)
		}
		return nil
	})
	if err != nil {
		if abortErr := em.Abort(); abortErr != nil {
			r.Logger.Warn("discarding partial document failed", "err", abortErr)
		}
		r.discard(stage)
		return nil, err
	}
	if err := em.Close(); err != nil {
		r.discard(stage)
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	r.Logger.Info("saved document", "path", job.Output, "pages", used.Pages())

	if stage != nil {
		names, err := stage.Commit()
		res.Tiles = names
		if err != nil {
			return res, err
		}
		r.Logger.Info("exported tiles", "dir", job.TilesDir, "count", len(names))
	}

	if job.Upload != nil {
		keys, err := r.upload(ctx, job, res.Tiles)
		res.Uploaded = keys
		if err != nil {
			return res, err
		}
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

func (r *Runner) discard(stage *split.Staging) {
	if stage == nil {
		return
	}
	if err := stage.Discard(); err != nil {
		r.Logger.Warn("discarding staged tiles failed", "err", err)
	}
}

// upload sends the document and the tiles this run exported. Other files
// already in the tiles directory are left alone.
func (r *Runner) upload(ctx context.Context, job config.Job, tiles []string) ([]string, error) {
	up, err := r.NewUploader(ctx, *job.Upload, r.Logger)
	if err != nil {
		return nil, err
	}
	if err := up.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	key, err := up.UploadFile(ctx, job.Output)
	if err != nil {
		return nil, err
	}
	keys := []string{key}
	if len(tiles) > 0 {
		paths := make([]string, len(tiles))
		for i, name := range tiles {
			paths[i] = filepath.Join(job.TilesDir, name)
		}
		tileKeys, err := up.UploadFiles(ctx, paths)
		keys = append(keys, tileKeys...)
		if err != nil {
			return keys, err
		}
	}
	return keys, nil
}

func (r *Runner) progressBar(pages int) *progressbar.ProgressBar {
	if r.Progress == nil {
		return nil
	}
	w := r.Progress
	return progressbar.NewOptions(pages,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Writing pages"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}
