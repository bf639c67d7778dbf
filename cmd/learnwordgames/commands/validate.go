package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"git.home.luguber.info/inful/wordgames/internal/content"
	derrors "git.home.luguber.info/inful/wordgames/internal/foundation/errors"
	"git.home.luguber.info/inful/wordgames/internal/linkverify"
	"git.home.luguber.info/inful/wordgames/internal/page"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Manifest string `arg:"" optional:"" help:"Content manifest to check (default: content.manifest, then the built-in page)" type:"path"`
	JSON     bool   `help:"Print the report as JSON"`
	Strict   bool   `help:"Treat warnings as errors"`
}

// ValidationOutput is the machine-readable validate report.
type ValidationOutput struct {
	Source      string             `json:"source"`
	Status      content.Status     `json:"status"`
	Fingerprint string             `json:"fingerprint,omitempty"`
	Errors      []content.Issue    `json:"errors"`
	Warnings    []content.Issue    `json:"warnings"`
	Audit       *linkverify.Result `json:"audit,omitempty"`
}

func (v *ValidateCmd) Run(g *Global, _ *CLI) error {
	cfg, err := g.LoadedConfig()
	if err != nil {
		return err
	}
	path := manifestPath(v.Manifest, cfg)
	m, err := content.Load(path)
	if err != nil {
		return err
	}
	report := content.Validate(m)
	out := &ValidationOutput{
		Source:   sourceName(path),
		Status:   m.Status,
		Errors:   report.Errors,
		Warnings: report.Warnings,
	}

	// The page is only assembled from a manifest that can be served.
	if report.OK() {
		if out.Fingerprint, err = content.Fingerprint(m); err != nil {
			return err
		}
		assembler, err := page.NewAssembler(page.WithTemplateDir(cfg.Site.TemplatesDir), page.WithLogger(g.Logger))
		if err != nil {
			return err
		}
		body, err := assembler.Render(m, page.NewRenderContext(time.Now(), cfg.Site.Message))
		if err != nil {
			return err
		}
		if out.Audit, err = linkverify.Audit(body, m.Meta.CanonicalURL); err != nil {
			return err
		}
	}

	if v.JSON {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		printReport(g.Out, out)
	}

	if err := report.Err(); err != nil {
		return err
	}
	if out.Audit != nil {
		if err := out.Audit.Err(); err != nil {
			return err
		}
	}
	if v.Strict && len(report.Warnings) > 0 {
		return derrors.ContentError(fmt.Sprintf("content manifest has %d warning(s)", len(report.Warnings))).
			Warning().
			WithContext("strict", true).
			Build()
	}
	return nil
}

func printReport(w io.Writer, out *ValidationOutput) {
	_, _ = fmt.Fprintf(w, "manifest: %s (%s)\n", out.Source, out.Status)
	for _, issue := range out.Errors {
		_, _ = fmt.Fprintf(w, "  error    %s\n", issue)
	}
	for _, issue := range out.Warnings {
		_, _ = fmt.Fprintf(w, "  warning  %s\n", issue)
	}
	if a := out.Audit; a != nil {
		_, _ = fmt.Fprintf(w, "page: %d links (%d external), %d anchors, %d FAQ entries\n", a.Links, a.ExternalLinks, a.Anchors, a.FAQEntities)
		for _, b := range a.BrokenLinks {
			_, _ = fmt.Fprintf(w, "  error    broken anchor #%s (%q, line %d)\n", b.Anchor, b.Text, b.Line)
		}
		for _, id := range a.DuplicateIDs {
			_, _ = fmt.Fprintf(w, "  error    duplicate id %q\n", id)
		}
		for _, msg := range a.FAQMismatches {
			_, _ = fmt.Fprintf(w, "  error    %s\n", msg)
		}
	}
	if len(out.Errors) == 0 && (out.Audit == nil || out.Audit.OK()) {
		_, _ = fmt.Fprintf(w, "OK %s\n", out.Fingerprint)
		return
	}
	_, _ = fmt.Fprintln(w, "FAILED")
}
