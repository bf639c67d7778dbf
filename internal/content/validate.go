package content

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	derrors "git.home.luguber.info/inful/wordgames/internal/foundation/errors"
	"git.home.luguber.info/inful/wordgames/internal/markdown"
)

// SEO length limits. Exceeding them is reported as a warning only.
const (
	MaxTitleLength       = 70
	MaxDescriptionLength = 160
)

// IssueLevel distinguishes blocking problems from advisory ones.
type IssueLevel string

const (
	LevelError   IssueLevel = "error"
	LevelWarning IssueLevel = "warning"
)

// Issue is a single validation finding.
type Issue struct {
	Level   IssueLevel `json:"level"`
	Field   string     `json:"field"`
	Message string     `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// Report collects validation findings for one manifest.
type Report struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// OK reports whether the manifest can be served.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

// Err converts the blocking findings into a content error, or nil.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.String())
	}
	return derrors.ContentError(fmt.Sprintf("content manifest invalid: %d error(s)", len(r.Errors))).
		WithContext("issues", msgs).
		Build()
}

func (r *Report) errorf(field, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Level: LevelError, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(field, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Level: LevelWarning, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the rendered projection of m for referential integrity.
// Nav group links must point at a section; every other in-page link may point
// at any anchor the page defines.
func Validate(m *Manifest) *Report {
	r := &Report{Errors: []Issue{}, Warnings: []Issue{}}
	if m == nil {
		r.errorf("manifest", "is nil")
		return r
	}

	switch m.Status {
	case StatusDraft, StatusLaunched:
	default:
		r.errorf("status", "unknown status %q (want draft or launched)", m.Status)
	}

	v := m.Visible()
	validateMeta(r, v.Meta)

	sections, anchors := collectAnchors(r, v)

	validateLinks(r, "hero.ctas", v.Hero.CTAs, anchors)
	validateMarkdown(r, "hero.lead", v.Hero.Lead, anchors)
	if v.Hero.Warmup != nil {
		for i, item := range v.Hero.Warmup.Items {
			validateMarkdown(r, fmt.Sprintf("hero.warmup.items[%d]", i), item, anchors)
		}
	}
	for i, c := range v.Highlights {
		validateCard(r, fmt.Sprintf("highlights[%d]", i), c, anchors)
	}

	for _, s := range v.Sections {
		field := fmt.Sprintf("sections[%s]", s.ID)
		if strings.TrimSpace(s.Heading) == "" {
			r.errorf(field+".heading", "is required")
		}
		for j, p := range s.Paragraphs {
			validateMarkdown(r, fmt.Sprintf("%s.paragraphs[%d]", field, j), p, anchors)
		}
		for j, item := range s.Items {
			validateMarkdown(r, fmt.Sprintf("%s.items[%d]", field, j), item, anchors)
		}
		for j, c := range s.Cards {
			validateCard(r, fmt.Sprintf("%s.cards[%d]", field, j), c, anchors)
		}
		for j, t := range s.Terms {
			if strings.TrimSpace(t.Term) == "" {
				r.errorf(fmt.Sprintf("%s.terms[%d]", field, j), "term is required")
			}
			validateMarkdown(r, fmt.Sprintf("%s.terms[%d]", field, j), t.Definition, anchors)
		}
		validateMarkdown(r, field+".tip", s.Tip, anchors)
		validateLinks(r, field+".ctas", s.CTAs, anchors)
	}

	itemLists := 0
	for _, g := range v.NavGroups {
		field := fmt.Sprintf("nav_groups[%s]", g.ID)
		if g.ItemList {
			itemLists++
		}
		if len(g.Links) == 0 {
			r.warnf(field, "has no links")
		}
		// Navigation groups only ever point at content sections.
		validateLinks(r, field+".links", g.Links, sections)
	}
	if itemLists > 1 {
		r.errorf("nav_groups", "%d groups set item_list; at most one is allowed", itemLists)
	}

	if v.HowTo != nil {
		if strings.TrimSpace(v.HowTo.Name) == "" {
			r.errorf("how_to.name", "is required")
		}
		if len(v.HowTo.Steps) == 0 {
			r.errorf("how_to.steps", "at least one step is required")
		}
		for i, st := range v.HowTo.Steps {
			if strings.TrimSpace(st.Name) == "" || strings.TrimSpace(st.Text) == "" {
				r.errorf(fmt.Sprintf("how_to.steps[%d]", i), "name and text are required")
			}
		}
		validateMarkdown(r, "how_to.tip", v.HowTo.Tip, anchors)
	}
	if v.About != nil {
		validateCard(r, "about", *v.About, anchors)
	}
	if v.Course != nil {
		if strings.TrimSpace(v.Course.Name) == "" {
			r.errorf("course.name", "is required")
		}
		if v.Course.Anchor != "" && !anchors[v.Course.Anchor] {
			r.errorf("course.anchor", "target %q does not match any anchor on the page", v.Course.Anchor)
		}
		seen := map[string]bool{}
		for i, a := range v.Course.Audiences {
			if a.ID == "" {
				r.errorf(fmt.Sprintf("course.audiences[%d].id", i), "is required")
				continue
			}
			if seen[a.ID] {
				r.errorf(fmt.Sprintf("course.audiences[%d].id", i), "duplicate audience id %q", a.ID)
			}
			seen[a.ID] = true
		}
	}

	validateFAQs(r, v.FAQs, anchors)
	return r
}

func validateMeta(r *Report, meta PageMeta) {
	if strings.TrimSpace(meta.Title) == "" {
		r.errorf("meta.title", "is required")
	} else if n := utf8.RuneCountInString(meta.Title); n > MaxTitleLength {
		r.warnf("meta.title", "is %d characters; keep it under %d", n, MaxTitleLength)
	}
	if strings.TrimSpace(meta.Description) == "" {
		r.errorf("meta.description", "is required")
	} else if n := utf8.RuneCountInString(meta.Description); n > MaxDescriptionLength {
		r.warnf("meta.description", "is %d characters; keep it under %d", n, MaxDescriptionLength)
	}
	validateAbsoluteURL(r, "meta.canonical_url", meta.CanonicalURL, true)
	validateAbsoluteURL(r, "meta.image_url", meta.ImageURL, false)
	validateAbsoluteURL(r, "meta.logo_url", meta.LogoURL, false)
}

func validateAbsoluteURL(r *Report, field, raw string, required bool) {
	if raw == "" {
		if required {
			r.errorf(field, "is required")
		}
		return
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		r.errorf(field, "%q is not an absolute http(s) URL", raw)
	}
}

// collectAnchors returns the section ids and the full set of page anchors,
// reporting empty and duplicate ids along the way.
func collectAnchors(r *Report, m *Manifest) (sections, anchors map[string]bool) {
	sections = make(map[string]bool, len(m.Sections))
	anchors = map[string]bool{FAQAnchor: true}
	owner := map[string]string{FAQAnchor: "faq"}

	add := func(field, id string) {
		if id == "" {
			r.errorf(field, "anchor id is empty")
			return
		}
		if Slugify(id) != id {
			r.errorf(field, "anchor id %q is not a valid slug (want %q)", id, Slugify(id))
		}
		if prev, ok := owner[id]; ok {
			r.errorf(field, "anchor id %q already used by %s", id, prev)
			return
		}
		owner[id] = field
		anchors[id] = true
	}

	for i, s := range m.Sections {
		field := fmt.Sprintf("sections[%d].id", i)
		add(field, s.ID)
		if s.ID != "" {
			sections[s.ID] = true
		}
	}
	for i, g := range m.NavGroups {
		add(fmt.Sprintf("nav_groups[%d].id", i), g.ID)
		if g.ID != "" {
			add(fmt.Sprintf("nav_groups[%d].heading_id", i), g.HeadingID())
		}
	}
	if m.HowTo != nil {
		add("how_to.id", m.HowTo.ID)
	}
	return sections, anchors
}

func validateLinks(r *Report, field string, links []NavLink, targets map[string]bool) {
	for i, l := range links {
		f := fmt.Sprintf("%s[%d]", field, i)
		if strings.TrimSpace(l.Label) == "" {
			r.errorf(f, "label is required")
		}
		if !targets[l.Target] {
			r.errorf(f, "target %q does not match any %s", l.Target, targetNoun(targets))
		}
	}
}

func targetNoun(targets map[string]bool) string {
	if targets[FAQAnchor] {
		return "anchor on the page"
	}
	return "section id"
}

func validateCard(r *Report, field string, c Card, anchors map[string]bool) {
	if strings.TrimSpace(c.Title) == "" {
		r.errorf(field+".title", "is required")
	}
	validateMarkdown(r, field+".text", c.Text, anchors)
	for i, item := range c.Items {
		validateMarkdown(r, fmt.Sprintf("%s.items[%d]", field, i), item, anchors)
	}
	validateMarkdown(r, field+".outcome", c.Outcome, anchors)
}

// validateMarkdown checks same-page links embedded in inline Markdown.
func validateMarkdown(r *Report, field, src string, anchors map[string]bool) {
	if !strings.Contains(src, "](") && !strings.Contains(src, "]:") {
		return
	}
	links, err := markdown.ExtractLinks([]byte(src), markdown.Options{})
	if err != nil {
		r.errorf(field, "markdown: %v", err)
		return
	}
	for _, l := range links {
		frag, ok := l.Fragment()
		if !ok {
			continue
		}
		if !anchors[frag] {
			r.errorf(field, "link #%s does not match any anchor on the page", frag)
		}
	}
}

func validateFAQs(r *Report, faqs []FAQEntry, anchors map[string]bool) {
	seen := make(map[string]int, len(faqs))
	for i, f := range faqs {
		field := fmt.Sprintf("faqs[%d]", i)
		q := CollapseSpace(f.Question)
		if q == "" {
			r.errorf(field+".question", "is required")
		}
		if strings.TrimSpace(f.Answer) == "" {
			r.errorf(field+".answer", "is required")
		}
		if prev, ok := seen[strings.ToLower(q)]; ok && q != "" {
			r.errorf(field+".question", "duplicates faqs[%d]", prev)
		}
		seen[strings.ToLower(q)] = i
		validateMarkdown(r, field+".answer", f.Answer, anchors)
	}
}
