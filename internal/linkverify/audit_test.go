package linkverify

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/wordgames/internal/content"
	"git.home.luguber.info/inful/wordgames/internal/foundation/errors"
	"git.home.luguber.info/inful/wordgames/internal/page"
)

const base = "https://learnwordgames.com/"

func TestAudit_RenderedDefaultPage(t *testing.T) {
	m, err := content.Default()
	if err != nil {
		t.Fatalf("default manifest: %v", err)
	}
	a, err := page.NewAssembler()
	if err != nil {
		t.Fatalf("assembler: %v", err)
	}
	out, err := a.Render(m, page.RenderContext{Now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	res, err := Audit(out, base)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !res.OK() {
		t.Fatalf("expected clean audit, got %v", res.Err())
	}
	if res.FAQItems != len(m.FAQs) || res.FAQEntities != len(m.FAQs) {
		t.Fatalf("faq counts = %d/%d, want %d", res.FAQItems, res.FAQEntities, len(m.FAQs))
	}
	if res.Links == 0 || res.Anchors == 0 {
		t.Fatalf("expected links and anchors, got %+v", res)
	}
}

func TestAudit_DetectsProblems(t *testing.T) {
	doc := `<!DOCTYPE html><html><head>
<script type="application/ld+json">{"@context":"https://schema.org","@graph":[{"@type":"FAQPage","mainEntity":[{"name":"Is it free?"},{"name":"Extra"}]}]}</script>
<script type="application/ld+json">{not json</script>
</head><body>
<section id="learn"></section><section id="learn"></section>
<a href="#learn">Learn</a>
<a href="#esl-phonics">ESL &amp; phonics</a>
<a href="https://learnwordgames.com/#printables-offline">Get Printables</a>
<a href="https://example.com/#elsewhere">External</a>
<details class="faq-item"><summary>Is it free?</summary><div>Yes.</div></details>
</body></html>`

	res, err := Audit([]byte(doc), base)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if res.OK() {
		t.Fatal("expected audit failures")
	}
	if len(res.BrokenLinks) != 2 {
		t.Fatalf("broken links = %+v, want 2", res.BrokenLinks)
	}
	if res.BrokenLinks[0].Anchor != "esl-phonics" || res.BrokenLinks[0].Text != "ESL & phonics" {
		t.Fatalf("unexpected first broken link %+v", res.BrokenLinks[0])
	}
	if res.BrokenLinks[1].Anchor != "printables-offline" {
		t.Fatalf("unexpected second broken link %+v", res.BrokenLinks[1])
	}
	if len(res.DuplicateIDs) != 1 || res.DuplicateIDs[0] != "learn" {
		t.Fatalf("duplicate ids = %v", res.DuplicateIDs)
	}
	if res.InvalidScripts != 1 {
		t.Fatalf("invalid scripts = %d, want 1", res.InvalidScripts)
	}
	if len(res.FAQMismatches) != 1 || !strings.Contains(res.FAQMismatches[0], "1 questions but FAQPage has 2") {
		t.Fatalf("faq mismatches = %v", res.FAQMismatches)
	}

	err = res.Err()
	if !errors.HasCategory(err, errors.CategoryRender) {
		t.Fatalf("expected render error, got %v", err)
	}
}

func TestAudit_FAQQuestionWhitespace(t *testing.T) {
	m, err := content.Default()
	if err != nil {
		t.Fatalf("default manifest: %v", err)
	}
	m.FAQs[0].Question = " Is it  free?"
	if r := content.Validate(m); !r.OK() {
		t.Fatalf("validate: %v", r.Err())
	}
	a, err := page.NewAssembler()
	if err != nil {
		t.Fatalf("assembler: %v", err)
	}
	out, err := a.Render(m, page.RenderContext{Now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	res, err := Audit(out, base)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(res.FAQMismatches) != 0 {
		t.Fatalf("faq mismatches = %v", res.FAQMismatches)
	}
}

func TestAudit_NavGroupHeadingClashIsCaughtAtLoad(t *testing.T) {
	m, err := content.Default()
	if err != nil {
		t.Fatalf("default manifest: %v", err)
	}
	if len(m.NavGroups) == 0 || len(m.Sections) < 2 {
		t.Fatal("default manifest needs nav groups and two sections")
	}
	m.Sections[1].ID = m.NavGroups[0].HeadingID()
	for _, issue := range content.Validate(m).Errors {
		if issue.Field == "nav_groups[0].heading_id" {
			return
		}
	}
	t.Fatalf("validate accepted section id %q", m.Sections[1].ID)
}

func TestAudit_MissingFAQPage(t *testing.T) {
	res, err := Audit([]byte(`<html><body><section id="faq"></section></body></html>`), base)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(res.FAQMismatches) != 1 || !strings.Contains(res.FAQMismatches[0], "found 0") {
		t.Fatalf("faq mismatches = %v", res.FAQMismatches)
	}
}

func TestAudit_InvalidBaseURL(t *testing.T) {
	if _, err := Audit([]byte("<html></html>"), "://bad"); err == nil {
		t.Fatal("expected error for invalid base URL")
	}
}

func TestLinkFragment(t *testing.T) {
	u, _ := url.Parse(base)
	cases := []struct {
		href string
		want string
		ok   bool
	}{
		{"#faq", "faq", true},
		{"https://learnwordgames.com/#word-lists", "word-lists", true},
		{"https://learnwordgames.com#word-lists", "word-lists", true},
		{"https://learnwordgames.com/about#team", "", false},
		{"https://example.com/#faq", "", false},
		{"https://learnwordgames.com/", "", false},
	}
	for _, tc := range cases {
		got, ok := (&Link{URL: tc.href}).Fragment(u)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Fragment(%q) = %q,%v want %q,%v", tc.href, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExtractElementLinks(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><head><link rel="canonical" href="https://learnwordgames.com/"></head>
<body><a href="#learn">Learn <b>more</b></a><a href="https://example.com/x">Out</a><img src="/logo.png" alt="logo"></body></html>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	u, _ := url.Parse(base)
	var links []*Link
	walk(doc, func(n *html.Node, line int) {
		extractElementLinks(n, &links, u, line)
	})
	if len(links) != 4 {
		t.Fatalf("got %d links, want 4", len(links))
	}
	if links[1].Text != "Learnmore" && links[1].Text != "Learn more" {
		t.Fatalf("unexpected link text %q", links[1].Text)
	}
	internal := FilterLinks(links, true, false)
	external := FilterLinks(links, false, true)
	if len(internal) != 3 || len(external) != 1 || external[0].URL != "https://example.com/x" {
		t.Fatalf("internal=%d external=%d", len(internal), len(external))
	}
}
