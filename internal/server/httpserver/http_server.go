// Package httpserver wires the site and admin listeners.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/wordgames/internal/config"
	derrors "git.home.luguber.info/inful/wordgames/internal/foundation/errors"
	"git.home.luguber.info/inful/wordgames/internal/logfields"
	"git.home.luguber.info/inful/wordgames/internal/metrics"
	"git.home.luguber.info/inful/wordgames/internal/server/handlers"
	smw "git.home.luguber.info/inful/wordgames/internal/server/middleware"
)

const (
	listenerSite  = "site"
	listenerAdmin = "admin"
)

// Server manages the public page listener and the admin listener.
type Server struct {
	siteServer  *http.Server
	adminServer *http.Server
	siteLn      net.Listener
	adminLn     net.Listener

	cfg          *config.Config
	opts         Options
	logger       *slog.Logger
	errorAdapter *derrors.HTTPErrorAdapter

	// Handler modules
	pageHandler        *handlers.PageHandler
	monitoringHandlers *handlers.MonitoringHandlers
	contentHandlers    *handlers.ContentHandlers
}

// New constructs a new HTTP server wiring instance.
func New(cfg *config.Config, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Recorder = metrics.Or(opts.Recorder)

	s := &Server{
		cfg:          cfg,
		opts:         opts,
		logger:       opts.Logger,
		errorAdapter: derrors.NewHTTPErrorAdapter(opts.Logger),
	}

	s.pageHandler = handlers.NewPageHandler(opts.Content, opts.Assembler, handlers.PageOptions{
		Message:     cfg.Site.Message,
		CacheMaxAge: cfg.Site.CacheMaxAge,
		Recorder:    opts.Recorder,
		Logger:      opts.Logger,
		Now:         opts.Now,
	})
	s.monitoringHandlers = handlers.NewMonitoringHandlers(opts.Content, time.Now(), opts.Logger)
	s.contentHandlers = handlers.NewContentHandlers(opts.Content, opts.Logger)

	s.siteServer = s.newHTTPServer(listenerSite, s.siteMux())
	s.adminServer = s.newHTTPServer(listenerAdmin, s.adminMux())
	return s
}

func (s *Server) newHTTPServer(listener string, h http.Handler) *http.Server {
	chain := smw.Chain(s.logger, s.errorAdapter, s.opts.Recorder, listener)
	return &http.Server{
		Handler:           chain(h),
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       s.cfg.Server.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
}

func (s *Server) siteMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s.pageHandler)
	return mux
}

// Listen pre-binds both ports so a conflict fails fast with one aggregate
// error instead of a half-started server.
func (s *Server) Listen(ctx context.Context) error {
	type preBind struct {
		name string
		port int
		ln   net.Listener
	}
	binds := []preBind{
		{name: listenerSite, port: s.cfg.Server.SitePort},
		{name: listenerAdmin, port: s.cfg.Server.AdminPort},
	}
	var bindErrs []error
	lc := net.ListenConfig{}
	for i := range binds {
		addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(binds[i].port))
		ln, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s port %d: %w", binds[i].name, binds[i].port, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return derrors.WrapError(errors.Join(bindErrs...), derrors.CategoryRuntime, "http startup failed").
			Fatal().
			Build()
	}
	s.siteLn, s.adminLn = binds[0].ln, binds[1].ln
	return nil
}

// SiteAddr returns the bound site address, or "" before Listen.
func (s *Server) SiteAddr() string { return addrOf(s.siteLn) }

// AdminAddr returns the bound admin address, or "" before Listen.
func (s *Server) AdminAddr() string { return addrOf(s.adminLn) }

func addrOf(ln net.Listener) string {
	if ln == nil {
		return ""
	}
	return ln.Addr().String()
}

// Serve runs both servers on the pre-bound listeners until ctx is cancelled
// or one of them fails, then shuts both down within the shutdown timeout.
func (s *Server) Serve(ctx context.Context) error {
	if s.siteLn == nil || s.adminLn == nil {
		return derrors.InternalError("Serve called before Listen").Build()
	}
	s.logger.Info("HTTP servers started",
		logfields.Addr(s.SiteAddr()),
		slog.String("admin_addr", s.AdminAddr()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serve(listenerSite, s.siteServer, s.siteLn) })
	g.Go(func() error { return serve(listenerAdmin, s.adminServer, s.adminLn) })
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	})
	return g.Wait()
}

// Run is Listen followed by Serve.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(ctx); err != nil {
		return err
	}
	return s.Serve(ctx)
}

func serve(kind string, srv *http.Server, ln net.Listener) error {
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", kind, err)
	}
	return nil
}

// Close releases the pre-bound listeners of a server that will not be
// served. It is a no-op before Listen.
func (s *Server) Close() error {
	var errs []error
	for _, ln := range []net.Listener{s.siteLn, s.adminLn} {
		if ln == nil {
			continue
		}
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
	}
	s.siteLn, s.adminLn = nil, nil
	return errors.Join(errs...)
}

// Stop gracefully shuts down both HTTP servers.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error
	if err := s.adminServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
	}
	if err := s.siteServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("site server shutdown: %w", err))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	s.logger.Info("HTTP servers stopped")
	return nil
}
