// Package watch reloads the content manifest when its file changes on disk.
//
// Reloads are debounced and validated before they are published: a manifest
// that fails validation is logged and rejected while the previous snapshot
// keeps serving.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/wordgames/internal/content"
	derrors "git.home.luguber.info/inful/wordgames/internal/foundation/errors"
	"git.home.luguber.info/inful/wordgames/internal/logfields"
	"git.home.luguber.info/inful/wordgames/internal/metrics"
)

// DefaultDebounce collapses editor save bursts into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a ManifestWatcher.
type Options struct {
	Debounce time.Duration
	Recorder metrics.Recorder
	Logger   *slog.Logger
	// OnChange runs after a new snapshot has been published.
	OnChange func(*content.Snapshot)
	Now      func() time.Time
}

// ManifestWatcher monitors the manifest file and swaps validated revisions
// into the store.
type ManifestWatcher struct {
	path     string
	store    *content.Store
	opts     Options
	watcher  *fsnotify.Watcher
	reloadMu sync.Mutex

	stopOnce   sync.Once
	stopChan   chan struct{}
	reloadChan chan struct{}
	wg         sync.WaitGroup
}

// New creates a watcher for the manifest at path.
func New(path string, store *content.Store, opts Options) (*ManifestWatcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Recorder = metrics.Or(opts.Recorder)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to resolve manifest path").
			WithContext("path", path).
			Build()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryRuntime, "failed to create file watcher").Build()
	}
	return &ManifestWatcher{
		path:       absPath,
		store:      store,
		opts:       opts,
		watcher:    watcher,
		stopChan:   make(chan struct{}),
		reloadChan: make(chan struct{}, 1),
	}, nil
}

// Path returns the absolute manifest path being watched.
func (mw *ManifestWatcher) Path() string { return mw.path }

// Start begins monitoring. The directory is watched rather than the file so
// editors that save via rename keep triggering events.
func (mw *ManifestWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(mw.path)
	if err := mw.watcher.Add(dir); err != nil {
		return derrors.FileSystemError("failed to watch manifest directory").WithCause(err).
			WithContext("dir", dir).
			Build()
	}
	mw.opts.Logger.Info("Starting manifest watcher", logfields.Manifest(mw.path))

	mw.wg.Add(2)
	go mw.watchLoop(ctx)
	go mw.reloadLoop(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutines. Safe to call twice.
func (mw *ManifestWatcher) Stop() {
	mw.stopOnce.Do(func() {
		close(mw.stopChan)
		if err := mw.watcher.Close(); err != nil {
			mw.opts.Logger.Warn("Error closing file watcher", logfields.Error(err))
		}
		mw.wg.Wait()
		mw.opts.Logger.Info("Stopped manifest watcher")
	})
}

func (mw *ManifestWatcher) watchLoop(ctx context.Context) {
	defer mw.wg.Done()
	name := filepath.Base(mw.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-mw.stopChan:
			return
		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				mw.opts.Logger.Debug("Manifest change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
				mw.triggerReload()
			case event.Has(fsnotify.Remove):
				mw.opts.Logger.Warn("Manifest file removed; keeping current content", logfields.File(event.Name))
			}
		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			mw.opts.Logger.Error("Manifest watcher error", logfields.Error(err))
		}
	}
}

func (mw *ManifestWatcher) reloadLoop(ctx context.Context) {
	defer mw.wg.Done()
	timer := time.NewTimer(mw.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-mw.stopChan:
			return
		case <-mw.reloadChan:
			timer.Reset(mw.opts.Debounce)
		case <-timer.C:
			_, _ = mw.Reload()
		}
	}
}

func (mw *ManifestWatcher) triggerReload() {
	select {
	case mw.reloadChan <- struct{}{}:
	default:
		// Reload already pending
	}
}

// Reload loads and validates the manifest and publishes it when its
// fingerprint differs from the served one. A rejected manifest never
// replaces the current snapshot.
func (mw *ManifestWatcher) Reload() (metrics.ResultLabel, error) {
	mw.reloadMu.Lock()
	defer mw.reloadMu.Unlock()

	snap, err := content.LoadSnapshot(mw.path, mw.opts.Now())
	if err != nil {
		mw.opts.Recorder.IncManifestReload(metrics.ResultRejected)
		attrs := []any{logfields.Manifest(mw.path), logfields.Error(err)}
		if ce, ok := derrors.AsClassified(err); ok {
			if issues, ok := ce.Context().Get("issues"); ok {
				attrs = append(attrs, slog.Any("issues", issues))
			}
		}
		if derrors.HasCategory(err, derrors.CategoryContent) {
			mw.opts.Logger.Error("Manifest reload rejected; keeping current content", attrs...)
		} else {
			// Editors that save by rename leave the file briefly missing.
			mw.opts.Logger.Warn("Manifest unreadable; keeping current content", attrs...)
		}
		return metrics.ResultRejected, err
	}

	if cur := mw.store.Current(); cur != nil && cur.Fingerprint == snap.Fingerprint {
		mw.opts.Recorder.IncManifestReload(metrics.ResultUnchanged)
		mw.opts.Logger.Debug("Manifest unchanged", logfields.Fingerprint(snap.Fingerprint))
		return metrics.ResultUnchanged, nil
	}

	mw.store.Swap(snap)
	mw.opts.Recorder.IncManifestReload(metrics.ResultSuccess)
	mw.opts.Recorder.SetContentLoaded(snap.LoadedAt)
	mw.opts.Recorder.SetValidationWarnings(len(snap.Report.Warnings))
	for _, w := range snap.Report.Warnings {
		mw.opts.Logger.Warn("Manifest warning", slog.String("issue", w.String()))
	}
	mw.opts.Logger.Info("Manifest reloaded",
		logfields.Manifest(mw.path),
		logfields.Fingerprint(snap.Fingerprint),
		slog.Int("warnings", len(snap.Report.Warnings)))

	if mw.opts.OnChange != nil {
		mw.opts.OnChange(snap)
	}
	return metrics.ResultSuccess, nil
}

// String implements fmt.Stringer for log output.
func (mw *ManifestWatcher) String() string {
	return fmt.Sprintf("ManifestWatcher(%s)", mw.path)
}
