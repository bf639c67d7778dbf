// Package export writes the rendered page to a directory as a static
// index.html, once or on a cron schedule.
package export

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/wordgames/internal/config"
	"git.home.luguber.info/inful/wordgames/internal/content"
	derrors "git.home.luguber.info/inful/wordgames/internal/foundation/errors"
	"git.home.luguber.info/inful/wordgames/internal/linkverify"
	"git.home.luguber.info/inful/wordgames/internal/logfields"
	"git.home.luguber.info/inful/wordgames/internal/metrics"
	"git.home.luguber.info/inful/wordgames/internal/observability"
	"git.home.luguber.info/inful/wordgames/internal/page"
	"git.home.luguber.info/inful/wordgames/internal/retry"
)

// IndexFile is the file written into the export directory.
const IndexFile = "index.html"

const jobName = "static-export"

// SnapshotSource yields the manifest snapshot to export.
type SnapshotSource interface {
	Current() *content.Snapshot
}

// Options configures an Exporter.
type Options struct {
	// Message is the footer message baked into the exported page.
	Message  string
	Recorder metrics.Recorder
	Logger   *slog.Logger
	Now      func() time.Time
}

// Result describes one completed export.
type Result struct {
	Path        string
	Fingerprint string
	Bytes       int
	At          time.Time
}

// Exporter renders, audits and atomically writes the page.
type Exporter struct {
	cfg       config.ExportConfig
	source    SnapshotSource
	assembler *page.Assembler
	opts      Options

	mu        sync.Mutex // serializes exports
	scheduler gocron.Scheduler
	job       gocron.Job
}

// New creates an exporter. The scheduler is only created by Start.
func New(cfg config.ExportConfig, source SnapshotSource, assembler *page.Assembler, opts Options) *Exporter {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Recorder = metrics.Or(opts.Recorder)
	return &Exporter{cfg: cfg, source: source, assembler: assembler, opts: opts}
}

// Export renders the current snapshot and replaces <dir>/index.html. The
// page is audited first; a page with broken fragments or mismatched FAQ
// projections is never written.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx = observability.WithJob(ctx, jobName)
	res, err := e.export(ctx)
	if err != nil {
		e.opts.Recorder.IncExportResult(metrics.ResultFailed)
		observability.ErrorContext(ctx, e.opts.Logger, "Static export failed",
			slog.String("category", string(derrors.GetCategory(err))),
			logfields.Error(err))
		return nil, err
	}
	e.opts.Recorder.IncExportResult(metrics.ResultSuccess)
	observability.InfoContext(observability.WithFingerprint(ctx, res.Fingerprint), e.opts.Logger, "Static export written",
		logfields.File(res.Path),
		logfields.ResponseSize(res.Bytes))
	return res, nil
}

func (e *Exporter) export(ctx context.Context) (*Result, error) {
	snap := e.source.Current()
	if snap == nil {
		return nil, derrors.RuntimeError("content not loaded").Build()
	}
	now := e.opts.Now()
	body, err := e.assembler.Render(snap.Manifest, page.NewRenderContext(now, e.opts.Message))
	if err != nil {
		return nil, err
	}
	audit, err := linkverify.Audit(body, snap.Manifest.Meta.CanonicalURL)
	if err != nil {
		return nil, err
	}
	if err := audit.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(e.cfg.Directory, IndexFile)
	policy := retry.FromConfig(e.cfg.Retry)
	err = policy.Do(ctx, func() error { return writeFileAtomic(path, body) },
		func(attempt int, delay time.Duration, err error) {
			observability.WarnContext(ctx, e.opts.Logger, "Retrying static export write",
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
				logfields.Error(err))
		})
	if err != nil {
		return nil, err
	}
	return &Result{Path: path, Fingerprint: snap.Fingerprint, Bytes: len(body), At: now}, nil
}

// writeFileAtomic writes through a temp file in the same directory so
// readers never observe a partial page.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return derrors.FileSystemError("failed to create export directory").WithCause(err).
			WithContext("dir", dir).
			Build()
	}
	tmp, err := os.CreateTemp(dir, ".index-*.html")
	if err != nil {
		return derrors.FileSystemError("failed to create temp file").WithCause(err).
			WithContext("dir", dir).
			Build()
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return derrors.FileSystemError("failed to write export").WithCause(err).Build()
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return derrors.FileSystemError("failed to set export permissions").WithCause(err).Build()
	}
	if err := tmp.Close(); err != nil {
		return derrors.FileSystemError("failed to close export").WithCause(err).Build()
	}
	if err := os.Rename(tmpName, path); err != nil {
		return derrors.FileSystemError("failed to publish export").WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}

// Start schedules exports on the configured cron expression. With
// run_on_start the first export runs before Start returns; its failure is
// logged, not returned.
func (e *Exporter) Start(ctx context.Context) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "failed to create gocron scheduler").Build()
	}
	job, err := s.NewJob(
		gocron.CronJob(e.cfg.Schedule, false),
		gocron.NewTask(func() { _, _ = e.Export(ctx) }),
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return derrors.WrapError(err, derrors.CategoryConfig, "invalid export schedule").
			WithContext("schedule", e.cfg.Schedule).
			Build()
	}
	e.scheduler, e.job = s, job

	if e.cfg.RunOnStart {
		_, _ = e.Export(ctx)
	}
	e.opts.Logger.Info("Starting export scheduler",
		logfields.Schedule(e.cfg.Schedule),
		logfields.File(filepath.Join(e.cfg.Directory, IndexFile)))
	s.Start()
	return nil
}

// Trigger runs the scheduled job now, outside its schedule. It is a no-op
// before Start.
func (e *Exporter) Trigger() {
	if e.job == nil {
		return
	}
	if err := e.job.RunNow(); err != nil {
		e.opts.Logger.Warn("Failed to trigger export", logfields.Error(err))
	}
}

// NextRun reports when the scheduled export runs next.
func (e *Exporter) NextRun() (time.Time, error) {
	if e.job == nil {
		return time.Time{}, derrors.InternalError("export scheduler not started").Build()
	}
	return e.job.NextRun()
}

// Stop gracefully shuts down the scheduler.
func (e *Exporter) Stop() error {
	if e.scheduler == nil {
		return nil
	}
	e.opts.Logger.Info("Stopping export scheduler")
	return e.scheduler.Shutdown()
}
