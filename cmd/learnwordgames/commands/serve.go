package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/wordgames/internal/config"
	"git.home.luguber.info/inful/wordgames/internal/content"
	"git.home.luguber.info/inful/wordgames/internal/export"
	derrors "git.home.luguber.info/inful/wordgames/internal/foundation/errors"
	"git.home.luguber.info/inful/wordgames/internal/logfields"
	"git.home.luguber.info/inful/wordgames/internal/metrics"
	"git.home.luguber.info/inful/wordgames/internal/page"
	"git.home.luguber.info/inful/wordgames/internal/server/httpserver"
	"git.home.luguber.info/inful/wordgames/internal/watch"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Manifest string `short:"m" help:"Content manifest path (overrides content.manifest)" type:"path"`
	Watch    bool   `help:"Reload the manifest when the file changes (overrides content.watch)"`
	Message  string `help:"Footer message (overrides site.message)"`
}

func (s *ServeCmd) Run(g *Global, _ *CLI) error {
	cfg, err := g.LoadedConfig()
	if err != nil {
		return err
	}
	cfg.Content.Manifest = manifestPath(s.Manifest, cfg)
	if s.Watch {
		cfg.Content.Watch = true
	}
	if s.Message != "" {
		cfg.Site.Message = s.Message
	}
	if cfg.Content.Watch && cfg.Content.Manifest == "" {
		return derrors.ConfigError("--watch requires a manifest file (--manifest or content.manifest)").Build()
	}

	ctx, cancel := signal.NotifyContext(g.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, cfg, g)
}

// RunServe loads the manifest and serves until ctx is cancelled. An invalid
// manifest aborts before any port is bound.
func RunServe(ctx context.Context, cfg *config.Config, g *Global) error {
	logger := g.Logger

	snap, err := content.LoadSnapshot(cfg.Content.Manifest, time.Now())
	if err != nil {
		return err
	}
	for _, w := range snap.Report.Warnings {
		logger.Warn("Manifest warning", "issue", w.String())
	}
	logger.Info("Content manifest loaded",
		logfields.Manifest(snap.Source),
		logfields.Fingerprint(snap.Fingerprint),
		"status", string(snap.Manifest.Status))
	store := content.NewStore(snap)

	var (
		recorder metrics.Recorder
		registry *prom.Registry
	)
	if cfg.Monitoring.Metrics.Enabled {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}
	recorder = metrics.Or(recorder)
	recorder.SetContentLoaded(snap.LoadedAt)
	recorder.SetValidationWarnings(len(snap.Report.Warnings))

	assembler, err := page.NewAssembler(page.WithTemplateDir(cfg.Site.TemplatesDir), page.WithLogger(logger))
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg, httpserver.Options{
		Content:   store,
		Assembler: assembler,
		Recorder:  recorder,
		Registry:  registry,
		Logger:    logger,
	})
	if err := srv.Listen(ctx); err != nil {
		return err
	}
	abort := func(err error) error {
		_ = srv.Close()
		return err
	}

	var exporter *export.Exporter
	if cfg.Export.Enabled {
		exporter = export.New(cfg.Export, store, assembler, export.Options{
			Message:  cfg.Site.Message,
			Recorder: recorder,
			Logger:   logger,
		})
		if err := exporter.Start(ctx); err != nil {
			return abort(err)
		}
		defer func() { _ = exporter.Stop() }()
	}

	group, gctx := errgroup.WithContext(ctx)
	if cfg.Content.Watch {
		opts := watch.Options{Debounce: cfg.Content.Debounce, Recorder: recorder, Logger: logger}
		if exporter != nil {
			opts.OnChange = func(*content.Snapshot) { exporter.Trigger() }
		}
		mw, err := watch.New(cfg.Content.Manifest, store, opts)
		if err != nil {
			return abort(err)
		}
		if err := mw.Start(gctx); err != nil {
			return abort(err)
		}
		group.Go(func() error {
			<-gctx.Done()
			mw.Stop()
			return nil
		})
	}
	group.Go(func() error { return srv.Serve(gctx) })
	return group.Wait()
}
