package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/wordgames/internal/content"
	"git.home.luguber.info/inful/wordgames/internal/foundation/errors"
	"git.home.luguber.info/inful/wordgames/internal/logfields"
	"git.home.luguber.info/inful/wordgames/internal/metrics"
	"git.home.luguber.info/inful/wordgames/internal/observability"
	"git.home.luguber.info/inful/wordgames/internal/page"
)

// FingerprintHeader carries the content fingerprint of the served manifest.
const FingerprintHeader = "X-Content-Fingerprint"

// SnapshotSource yields the manifest snapshot to serve.
type SnapshotSource interface {
	Current() *content.Snapshot
}

// PageOptions configures the landing page handler.
type PageOptions struct {
	Message     string
	CacheMaxAge int
	Recorder    metrics.Recorder
	Logger      *slog.Logger
	Now         func() time.Time
}

// PageHandler serves the landing page document at "/".
type PageHandler struct {
	source       SnapshotSource
	assembler    *page.Assembler
	opts         PageOptions
	errorAdapter *errors.HTTPErrorAdapter
}

// NewPageHandler creates the landing page handler.
func NewPageHandler(source SnapshotSource, assembler *page.Assembler, opts PageOptions) *PageHandler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Recorder = metrics.Or(opts.Recorder)
	return &PageHandler{
		source:       source,
		assembler:    assembler,
		opts:         opts,
		errorAdapter: errors.NewHTTPErrorAdapter(opts.Logger),
	}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.errorAdapter.WriteErrorResponse(w, r, errors.NotFoundError("page not found").
			WithContext("path", r.URL.Path).
			Build())
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.errorAdapter.WriteErrorResponse(w, r, errors.MethodNotAllowedError(r.Method, http.MethodGet, http.MethodHead).Build())
		return
	}

	snap := h.source.Current()
	if snap == nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.RuntimeError("content not loaded").Build())
		return
	}
	ctx := observability.WithFingerprint(r.Context(), snap.Fingerprint)

	start := time.Now()
	body, err := h.assembler.Render(snap.Manifest, page.NewRenderContext(h.opts.Now(), h.opts.Message))
	h.opts.Recorder.ObserveRenderDuration(time.Since(start))
	if err != nil {
		h.opts.Recorder.IncRenderResult(metrics.ResultFailed)
		observability.ErrorContext(ctx, h.opts.Logger, "Page render failed", logfields.Error(err))
		h.errorAdapter.WriteErrorResponse(w, r.WithContext(ctx), err)
		return
	}
	h.opts.Recorder.IncRenderResult(metrics.ResultSuccess)

	w.Header().Set(FingerprintHeader, snap.Fingerprint)
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", h.opts.CacheMaxAge))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	writeDocument(w, r, body)
}
