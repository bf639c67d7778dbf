package page

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/wordgames/internal/content"
)

var (
	fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ldJSON   = regexp.MustCompile(`(?s)<script type="application/ld\+json">(.*?)</script>`)
)

func defaultManifest(t *testing.T) *content.Manifest {
	t.Helper()
	m, err := content.Default()
	require.NoError(t, err)
	return m
}

func newAssembler(t *testing.T, opts ...Option) *Assembler {
	t.Helper()
	a, err := NewAssembler(opts...)
	require.NoError(t, err)
	return a
}

func render(t *testing.T, a *Assembler, m *content.Manifest, rc RenderContext) string {
	t.Helper()
	out, err := a.Render(m, rc)
	require.NoError(t, err)
	return string(out)
}

// nodesOfType decodes every embedded graph and returns the nodes of one type.
func nodesOfType(t *testing.T, html, typ string) []map[string]any {
	t.Helper()
	var nodes []map[string]any
	for _, match := range ldJSON.FindAllStringSubmatch(html, -1) {
		var g struct {
			Context string           `json:"@context"`
			Graph   []map[string]any `json:"@graph"`
		}
		require.NoError(t, json.Unmarshal([]byte(match[1]), &g), "structured data must be valid JSON")
		require.Equal(t, "https://schema.org", g.Context)
		for _, n := range g.Graph {
			if n["@type"] == typ {
				nodes = append(nodes, n)
			}
		}
	}
	return nodes
}

func TestFAQProjectionsStayInSync(t *testing.T) {
	m := defaultManifest(t)
	html := render(t, newAssembler(t), m, RenderContext{Now: fixedNow})

	require.Equal(t, len(m.FAQs), strings.Count(html, `<details class="faq-item">`))

	last := -1
	for _, f := range m.FAQs {
		summary := "<summary>" + f.Question + "</summary>"
		require.Equal(t, 1, strings.Count(html, summary), f.Question)
		idx := strings.Index(html, summary)
		require.Greater(t, idx, last, "accordion must keep manifest order")
		last = idx
	}

	pages := nodesOfType(t, html, "FAQPage")
	require.Len(t, pages, 1)
	entities := pages[0]["mainEntity"].([]any)
	require.Len(t, entities, len(m.FAQs))
	for i, e := range entities {
		q := e.(map[string]any)
		assert.Equal(t, "Question", q["@type"])
		assert.Equal(t, m.FAQs[i].Question, q["name"])
		answer := q["acceptedAnswer"].(map[string]any)
		assert.Equal(t, "Answer", answer["@type"])
		assert.Equal(t, m.FAQs[i].Answer, answer["text"])
	}
}

func TestBuildStructuredDataSingleFAQ(t *testing.T) {
	m := &content.Manifest{
		Status:   content.StatusLaunched,
		Meta:     content.PageMeta{Title: "Learn Word Games", Description: "d", CanonicalURL: "https://learnwordgames.com/"},
		Sections: []content.Section{{ID: "learn", Heading: "Learn"}},
		FAQs:     []content.FAQEntry{{Question: "Is it free?", Answer: "Yes."}},
	}

	graphs := BuildStructuredData(m)
	require.NotEmpty(t, graphs)

	raw, err := json.Marshal(graphs[0])
	require.NoError(t, err)
	var g struct {
		Graph []struct {
			Type       string `json:"@type"`
			MainEntity []struct {
				Name string `json:"name"`
			} `json:"mainEntity"`
		} `json:"@graph"`
	}
	require.NoError(t, json.Unmarshal(raw, &g))

	var found bool
	for _, n := range g.Graph {
		if n.Type == "FAQPage" {
			found = true
			require.Len(t, n.MainEntity, 1)
			assert.Equal(t, "Is it free?", n.MainEntity[0].Name)
		}
	}
	assert.True(t, found, "graph must contain an FAQPage node")
}

func TestEmptyFAQ(t *testing.T) {
	m := defaultManifest(t)
	m.FAQs = nil

	page := BuildFAQPage(m.FAQs)
	raw, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"@type":"FAQPage","mainEntity":[]}`, string(raw))

	html := render(t, newAssembler(t), m, RenderContext{Now: fixedNow})
	assert.Contains(t, html, `<section id="faq" class="faq">`)
	assert.Contains(t, html, `<div class="faq-list">`)
	assert.NotContains(t, html, `<details`)
	assert.Contains(t, html, `"mainEntity":[]`)
}

func TestRenderIsDeterministic(t *testing.T) {
	a := newAssembler(t)
	m := defaultManifest(t)
	rc := NewRenderContext(fixedNow, "hello")

	first, err := a.Render(m, rc)
	require.NoError(t, err)
	second, err := a.Render(m, rc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFooter(t *testing.T) {
	a := newAssembler(t)
	m := defaultManifest(t)

	t.Run("copyright year follows request time", func(t *testing.T) {
		now := time.Date(2031, 12, 31, 23, 0, 0, 0, time.UTC)
		html := render(t, a, m, RenderContext{Now: now})
		assert.Contains(t, html, "© 2031 Learn Word Games")
		assert.Contains(t, html, `<time datetime="2031-12-31T23:00:00.000Z">2031-12-31T23:00:00.000Z</time>`)
	})

	t.Run("copyright year and timestamp agree across zones", func(t *testing.T) {
		now := time.Date(2025, 12, 31, 23, 30, 0, 0, time.FixedZone("EST", -5*60*60))
		html := render(t, a, m, RenderContext{Now: now})
		assert.Contains(t, html, "© 2026 Learn Word Games")
		assert.Contains(t, html, "2026-01-01T04:30:00.000Z")
	})

	t.Run("fallback without message", func(t *testing.T) {
		html := render(t, a, m, RenderContext{Now: fixedNow})
		assert.Contains(t, html, "<span>Made with clarity and simplicity</span>")
		assert.NotContains(t, html, "aria-live")

		empty := ""
		html = render(t, a, m, RenderContext{Now: fixedNow, Message: &empty})
		assert.Contains(t, html, "<span>Made with clarity and simplicity</span>")
	})

	t.Run("injected message is escaped", func(t *testing.T) {
		html := render(t, a, m, NewRenderContext(fixedNow, "<b>hi</b> from the server"))
		assert.Contains(t, html, `<span aria-live="polite">&lt;b&gt;hi&lt;/b&gt; from the server</span>`)
		assert.NotContains(t, html, "Made with clarity and simplicity")
	})

	t.Run("manifest fallback overrides default", func(t *testing.T) {
		custom := *m
		custom.Footer.Fallback = "Built for puzzle fans"
		html := render(t, a, &custom, RenderContext{Now: fixedNow})
		assert.Contains(t, html, "<span>Built for puzzle fans</span>")
	})
}

func TestDraftState(t *testing.T) {
	a := newAssembler(t)
	m := defaultManifest(t)

	launched := render(t, a, m, RenderContext{Now: fixedNow})
	assert.NotContains(t, launched, "draft-banner")
	assert.NotContains(t, launched, "draft-disclaimer")

	m.Status = content.StatusDraft
	m.Sections = append(m.Sections, content.Section{ID: "coming-later", Heading: "Coming later", Status: content.StatusLaunched})
	draft := render(t, a, m, RenderContext{Now: fixedNow})
	assert.Contains(t, draft, `<div class="draft-banner" role="status">Coming soon: full guides, printable drills, and daily puzzles are on the way.</div>`)
	assert.Contains(t, draft, `<p class="draft-disclaimer">`)
	assert.NotContains(t, draft, `id="coming-later"`)
}

func TestBodyStructure(t *testing.T) {
	m := defaultManifest(t)
	body, err := newAssembler(t).RenderBody(m, RenderContext{Now: fixedNow})
	require.NoError(t, err)
	html := string(body)

	for _, s := range m.Sections {
		assert.Equal(t, 1, strings.Count(html, `id="`+s.ID+`"`), s.ID)
	}
	assert.Contains(t, html, `<a href="#esl-phonics">ESL &amp; phonics</a>`)
	assert.Contains(t, html, `<a class="cta" href="#learn">Explore what you will learn</a>`)
	assert.Contains(t, html, `<a href="#word-lists">tiered word lists</a> (A1→C1)`)
	assert.Contains(t, html, `<nav id="browse-by-topic" class="nav-group nav-chips"`)
	assert.Contains(t, html, `<dt>Daily Guess Games</dt>`)
	assert.Contains(t, html, `<p class="outcome"><strong>Outcome:</strong> faster solves`)
	assert.Contains(t, html, `<code>TH</code>`)

	// Fixed render order.
	order := []string{`class="hero"`, `class="highlights"`, `id="learn"`, `id="popular-guides"`, `id="wordle-starter"`, `class="about"`, `id="faq"`, `class="site-footer"`}
	last := -1
	for _, marker := range order {
		idx := strings.Index(html, marker)
		require.Greater(t, idx, last, marker)
		last = idx
	}
}

func TestBuildMeta(t *testing.T) {
	m := defaultManifest(t)
	meta := BuildMeta(m)

	assert.Equal(t, "Learn Word Games | Guides, Tips, Puzzles, and Daily Practice", meta.Title)
	assert.Equal(t, Robots, meta.Robots)
	assert.Equal(t, "website", meta.OpenGraph.Type)
	assert.Equal(t, "https://learnwordgames.com/og-image.jpg", meta.OpenGraph.Image)
	assert.Equal(t, "summary_large_image", meta.Twitter.Card)
	assert.Empty(t, meta.Keywords)

	m.Meta.ImageURL = ""
	m.Meta.Keywords = []string{"wordle", "crosswords"}
	meta = BuildMeta(m)
	assert.Equal(t, "summary", meta.Twitter.Card)
	assert.Equal(t, "wordle, crosswords", meta.Keywords)

	html := render(t, newAssembler(t), m, RenderContext{Now: fixedNow})
	assert.Contains(t, html, `<meta name="keywords" content="wordle, crosswords">`)
	assert.Contains(t, html, `<meta name="robots" content="index, follow, max-image-preview:large">`)
	assert.Contains(t, html, `<link rel="canonical" href="https://learnwordgames.com/">`)
	assert.Contains(t, html, `<meta name="theme-color" content="#ffffff">`)
	assert.NotContains(t, html, "og:image")
}

func TestStructuredDataNodes(t *testing.T) {
	html := render(t, newAssembler(t), defaultManifest(t), RenderContext{Now: fixedNow})
	require.Len(t, ldJSON.FindAllString(html, -1), 3)

	sites := nodesOfType(t, html, "WebSite")
	require.Len(t, sites, 1)
	assert.Contains(t, sites[0]["description"], "spelling bee")

	orgs := nodesOfType(t, html, "Organization")
	require.Len(t, orgs, 1)
	assert.Equal(t, "https://learnwordgames.com/logo.png", orgs[0]["logo"])

	lists := nodesOfType(t, html, "ItemList")
	require.Len(t, lists, 1)
	assert.Equal(t, "Popular Guides & Quick Starts", lists[0]["name"])
	items := lists[0]["itemListElement"].([]any)
	require.Len(t, items, 12)
	first := items[0].(map[string]any)
	assert.Equal(t, float64(1), first["position"])
	assert.Equal(t, "https://learnwordgames.com/#beginners-guide", first["url"])

	crumbs := nodesOfType(t, html, "BreadcrumbList")
	require.Len(t, crumbs, 1)

	howtos := nodesOfType(t, html, "HowTo")
	require.Len(t, howtos, 1)
	assert.Equal(t, "PT2M", howtos[0]["totalTime"])
	assert.Len(t, howtos[0]["step"], 3)
	cost := howtos[0]["estimatedCost"].(map[string]any)
	assert.Equal(t, "USD", cost["currency"])
	assert.Equal(t, "0", cost["value"])

	audiences := nodesOfType(t, html, "Audience")
	require.Len(t, audiences, 2)
	assert.Equal(t, "https://learnwordgames.com/#students", audiences[0]["@id"])

	courses := nodesOfType(t, html, "Course")
	require.Len(t, courses, 1)
	assert.Equal(t, "https://learnwordgames.com/#learners-educators", courses[0]["url"])
	assert.Equal(t, []any{"A2", "B1", "B2"}, courses[0]["educationalLevel"])
	refs := courses[0]["audience"].([]any)
	assert.Equal(t, "https://learnwordgames.com/#educators", refs[1].(map[string]any)["@id"])
}

func TestStructuredDataWithoutOptionalBlocks(t *testing.T) {
	m := defaultManifest(t)
	m.Course = nil
	m.HowTo = nil
	m.NavGroups = nil

	graphs := BuildStructuredData(m)
	require.Len(t, graphs, 2)
	require.Len(t, graphs[1].Graph, 1)
	_, ok := graphs[1].Graph[0].(BreadcrumbList)
	assert.True(t, ok)
}

func TestStructuredDataEscapesScriptBreakout(t *testing.T) {
	m := defaultManifest(t)
	m.FAQs = []content.FAQEntry{{Question: "</script><script>alert(1)</script>", Answer: "no"}}

	html := render(t, newAssembler(t), m, RenderContext{Now: fixedNow})
	assert.NotContains(t, html, "<script>alert(1)")
	pages := nodesOfType(t, html, "FAQPage")
	require.Len(t, pages, 1)
	q := pages[0]["mainEntity"].([]any)[0].(map[string]any)
	assert.Equal(t, "</script><script>alert(1)</script>", q["name"])
}

func TestTemplateOverride(t *testing.T) {
	dir := t.TempDir()
	override := `{{define "footer"}}<footer class="custom">{{.Message}} {{.Year}}</footer>{{end}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "footer.tmpl"), []byte(override), 0o600))

	a := newAssembler(t, WithTemplateDir(dir))
	html := render(t, a, defaultManifest(t), RenderContext{Now: fixedNow})
	assert.Contains(t, html, `<footer class="custom">Made with clarity and simplicity 2026</footer>`)
	assert.NotContains(t, html, `class="site-footer"`)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.tmpl"), []byte(`{{define "x"}}{{.Oops`), 0o600))
	_, err := NewAssembler(WithTemplateDir(dir))
	require.Error(t, err)
}

func TestAssemble(t *testing.T) {
	doc, err := newAssembler(t).Assemble(defaultManifest(t), RenderContext{Now: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, "https://learnwordgames.com/", doc.Meta.CanonicalURL)
	assert.Len(t, doc.StructuredData, 3)
	assert.True(t, strings.HasPrefix(string(doc.Body), `<main class="page">`))
}
