package handlers

import (
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/wordgames/internal/content"
	"git.home.luguber.info/inful/wordgames/internal/foundation/errors"
	"git.home.luguber.info/inful/wordgames/internal/page"
	"git.home.luguber.info/inful/wordgames/internal/server/responses"
)

// ContentHandlers expose the served manifest for inspection.
type ContentHandlers struct {
	source       SnapshotSource
	errorAdapter *errors.HTTPErrorAdapter
}

// NewContentHandlers creates the content inspection handlers.
func NewContentHandlers(source SnapshotSource, logger *slog.Logger) *ContentHandlers {
	return &ContentHandlers{source: source, errorAdapter: errors.NewHTTPErrorAdapter(logger)}
}

// snapshot returns the served snapshot, or writes an error and returns nil.
func (h *ContentHandlers) snapshot(w http.ResponseWriter, r *http.Request) *content.Snapshot {
	if r.Method != http.MethodGet {
		h.errorAdapter.WriteErrorResponse(w, r, errors.MethodNotAllowedError(r.Method, http.MethodGet).Build())
		return nil
	}
	snap := h.source.Current()
	if snap == nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.RuntimeError("content not loaded").Build())
	}
	return snap
}

// HandleContent summarizes the served manifest.
func (h *ContentHandlers) HandleContent(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	v := snap.Manifest.Visible()

	resp := &responses.ContentResponse{
		Source:      snap.Source,
		Fingerprint: snap.Fingerprint,
		LoadedAt:    snap.LoadedAt.UTC(),
		PageStatus:  v.Status,
		Title:       v.Meta.Title,
		Canonical:   v.Meta.CanonicalURL,
		Sections:    make([]responses.SectionRef, 0, len(v.Sections)),
		FAQs:        len(v.FAQs),
	}
	for _, s := range v.Sections {
		resp.Sections = append(resp.Sections, responses.SectionRef{ID: s.ID, Heading: s.Heading})
	}
	for _, g := range v.NavGroups {
		resp.NavLinks += len(g.Links)
	}
	if snap.Report != nil {
		resp.Warnings = snap.Report.Warnings
	}
	if err := writeJSON(w, r, http.StatusOK, resp); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "failed to write content response").Build())
	}
}

// HandleStructuredData returns the linked-data graphs embedded in the page.
func (h *ContentHandlers) HandleStructuredData(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	graphs := page.BuildStructuredData(snap.Manifest)
	if err := writeJSON(w, r, http.StatusOK, graphs); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "failed to write structured data").Build())
	}
}
