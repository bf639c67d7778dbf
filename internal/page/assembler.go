// Package page assembles the landing page from a content manifest: the head
// metadata, the structured-data graphs and the rendered document.
package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/wordgames/internal/content"
	derrors "git.home.luguber.info/inful/wordgames/internal/foundation/errors"
	"git.home.luguber.info/inful/wordgames/internal/logfields"
	"git.home.luguber.info/inful/wordgames/internal/markdown"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Document is the output of one render.
type Document struct {
	Meta           Meta
	StructuredData []Graph
	Body           template.HTML
}

// Assembler renders manifests with a fixed template set. It is safe for
// concurrent use.
type Assembler struct {
	tmpl *template.Template
}

// Option configures an Assembler.
type Option func(*options)

type options struct {
	templateDir string
	logger      *slog.Logger
}

// WithTemplateDir overrides embedded templates with same-named *.tmpl files
// from dir. Blocks defined there replace the embedded definitions.
func WithTemplateDir(dir string) Option {
	return func(o *options) { o.templateDir = dir }
}

// WithLogger sets the logger used while loading templates.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewAssembler parses the page templates.
func NewAssembler(opts ...Option) (*Assembler, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"md": markdown.RenderInline,
	}).ParseFS(embeddedTemplates, "templates/*.tmpl")
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "failed to parse embedded page templates").Build()
	}

	if o.templateDir != "" {
		overrides, globErr := filepath.Glob(filepath.Join(o.templateDir, "*.tmpl"))
		if globErr != nil {
			return nil, derrors.WrapError(globErr, derrors.CategoryConfig, "invalid template directory").
				WithContext("dir", o.templateDir).
				Build()
		}
		for _, path := range overrides {
			raw, readErr := os.ReadFile(filepath.Clean(path))
			if readErr != nil {
				return nil, derrors.WrapError(readErr, derrors.CategoryFileSystem, "failed to read template override").
					WithContext("file", path).
					Build()
			}
			if _, err := tmpl.New(filepath.Base(path)).Parse(string(raw)); err != nil {
				return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to parse template override").
					WithContext("file", path).
					Build()
			}
			o.logger.Info("Loaded template override", logfields.File(path))
		}
	}

	for _, name := range []string{"document", "body"} {
		if tmpl.Lookup(name) == nil {
			return nil, derrors.InternalError(fmt.Sprintf("page template %q is not defined", name)).Build()
		}
	}
	return &Assembler{tmpl: tmpl}, nil
}

type bodyView struct {
	Manifest *content.Manifest
	Draft    bool
	Year     int
	Updated  string
	Message  string
	Injected bool
}

type documentView struct {
	Meta           Meta
	StructuredData []template.JS
	Body           template.HTML
}

// RenderBody renders the <main> element for the rendered projection of m.
func (a *Assembler) RenderBody(m *content.Manifest, rc RenderContext) (template.HTML, error) {
	v := m.Visible()
	msg, injected := rc.FooterMessage(v.FooterFallback())
	view := bodyView{
		Manifest: v,
		Draft:    v.IsDraft(),
		Year:     rc.Year(),
		Updated:  rc.Updated(),
		Message:  msg,
		Injected: injected,
	}
	var buf bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&buf, "body", view); err != nil {
		return "", derrors.WrapError(err, derrors.CategoryRender, "failed to render page body").Build()
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

// Assemble produces the three page outputs.
func (a *Assembler) Assemble(m *content.Manifest, rc RenderContext) (*Document, error) {
	body, err := a.RenderBody(m, rc)
	if err != nil {
		return nil, err
	}
	return &Document{
		Meta:           BuildMeta(m),
		StructuredData: BuildStructuredData(m),
		Body:           body,
	}, nil
}

// Render returns the complete HTML document.
func (a *Assembler) Render(m *content.Manifest, rc RenderContext) ([]byte, error) {
	doc, err := a.Assemble(m, rc)
	if err != nil {
		return nil, err
	}
	scripts, err := encodeGraphs(doc.StructuredData)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryRender, "failed to encode structured data").Build()
	}
	var buf bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&buf, "document", documentView{
		Meta:           doc.Meta,
		StructuredData: scripts,
		Body:           doc.Body,
	}); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryRender, "failed to render page document").Build()
	}
	return buf.Bytes(), nil
}
