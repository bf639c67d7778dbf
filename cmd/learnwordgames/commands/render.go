package commands

import (
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/wordgames/internal/content"
	derrors "git.home.luguber.info/inful/wordgames/internal/foundation/errors"
	"git.home.luguber.info/inful/wordgames/internal/linkverify"
	"git.home.luguber.info/inful/wordgames/internal/logfields"
	"git.home.luguber.info/inful/wordgames/internal/page"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Manifest string `short:"m" help:"Content manifest path (overrides content.manifest)" type:"path"`
	Output   string `short:"o" help:"Write the document to this file instead of stdout" type:"path"`
	Message  string `help:"Footer message (overrides site.message)"`
	At       string `help:"Render time as RFC 3339 (default: now)"`
	Verify   bool   `help:"Audit the rendered page and fail on broken anchors or FAQ drift"`
}

func (r *RenderCmd) Run(g *Global, _ *CLI) error {
	cfg, err := g.LoadedConfig()
	if err != nil {
		return err
	}
	now := time.Now()
	if r.At != "" {
		now, err = time.Parse(time.RFC3339, r.At)
		if err != nil {
			return derrors.ValidationError("--at must be an RFC 3339 timestamp").
				WithContext("value", r.At).
				WithCause(err).
				Build()
		}
	}
	message := cfg.Site.Message
	if r.Message != "" {
		message = r.Message
	}

	snap, err := content.LoadSnapshot(manifestPath(r.Manifest, cfg), now)
	if err != nil {
		return err
	}
	assembler, err := page.NewAssembler(page.WithTemplateDir(cfg.Site.TemplatesDir), page.WithLogger(g.Logger))
	if err != nil {
		return err
	}
	body, err := assembler.Render(snap.Manifest, page.NewRenderContext(now, message))
	if err != nil {
		return err
	}

	if r.Verify {
		audit, err := linkverify.Audit(body, snap.Manifest.Meta.CanonicalURL)
		if err != nil {
			return err
		}
		if err := audit.Err(); err != nil {
			return err
		}
		g.Logger.Info("Rendered page passed audit",
			"links", audit.Links, "anchors", audit.Anchors, "faq_items", audit.FAQItems)
	}

	if r.Output == "" {
		_, err := g.Out.Write(body)
		return err
	}
	if dir := filepath.Dir(r.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return derrors.FileSystemError("failed to create output directory").WithCause(err).Build()
		}
	}
	if err := os.WriteFile(r.Output, body, 0o644); err != nil { //nolint:gosec // published HTML
		return derrors.FileSystemError("failed to write rendered page").WithCause(err).
			WithContext("path", r.Output).
			Build()
	}
	g.Logger.Info("Rendered page written",
		logfields.File(r.Output),
		logfields.Fingerprint(snap.Fingerprint),
		logfields.ResponseSize(len(body)))
	return nil
}
