package linkverify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/wordgames/internal/foundation/errors"
)

// BrokenLink is a same-page link whose fragment matches no element id.
type BrokenLink struct {
	Anchor string `json:"anchor"`
	Text   string `json:"text"`
	Line   int    `json:"line"`
}

// Result summarizes a page audit.
type Result struct {
	Links          int          `json:"links"`
	ExternalLinks  int          `json:"external_links"`
	Anchors        int          `json:"anchors"`
	BrokenLinks    []BrokenLink `json:"broken_links,omitempty"`
	DuplicateIDs   []string     `json:"duplicate_ids,omitempty"`
	FAQItems       int          `json:"faq_items"`
	FAQEntities    int          `json:"faq_entities"`
	FAQMismatches  []string     `json:"faq_mismatches,omitempty"`
	InvalidScripts int          `json:"invalid_scripts,omitempty"`
}

// OK reports whether the page passed every check.
func (r *Result) OK() bool {
	return len(r.BrokenLinks) == 0 && len(r.DuplicateIDs) == 0 &&
		len(r.FAQMismatches) == 0 && r.InvalidScripts == 0
}

// Err returns a render error describing every failed check, or nil.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	var problems []string
	for _, b := range r.BrokenLinks {
		problems = append(problems, fmt.Sprintf("broken anchor #%s (%q)", b.Anchor, b.Text))
	}
	for _, id := range r.DuplicateIDs {
		problems = append(problems, fmt.Sprintf("duplicate id %q", id))
	}
	problems = append(problems, r.FAQMismatches...)
	if r.InvalidScripts > 0 {
		problems = append(problems, fmt.Sprintf("%d structured data block(s) are not valid JSON", r.InvalidScripts))
	}
	return errors.RenderError("rendered page failed audit").
		WithContext("problems", problems).
		Build()
}

type ldGraph struct {
	Graph []struct {
		Type       string `json:"@type"`
		MainEntity []struct {
			Name string `json:"name"`
		} `json:"mainEntity"`
	} `json:"@graph"`
}

// Audit parses a rendered page and checks its internal consistency.
func Audit(page []byte, baseURL string) (*Result, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to parse HTML").Build()
	}
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, err
	}

	var (
		links     []*Link
		ids       = map[string]int{}
		questions []string
		entities  []string
		faqPages  int
		res       = &Result{}
	)
	walk(doc, func(n *html.Node, line int) {
		if id := getAttr(n, "id"); id != "" {
			ids[id]++
		}
		extractElementLinks(n, &links, base, line)

		switch {
		case n.Data == "details" && hasClass(n, "faq-item"):
			questions = append(questions, summaryText(n))
		case n.Data == "script" && getAttr(n, "type") == "application/ld+json":
			var g ldGraph
			if err := json.Unmarshal([]byte(extractText(n)), &g); err != nil {
				res.InvalidScripts++
				return
			}
			for _, node := range g.Graph {
				if node.Type != "FAQPage" {
					continue
				}
				faqPages++
				for _, e := range node.MainEntity {
					entities = append(entities, e.Name)
				}
			}
		}
	})

	res.Anchors = len(ids)
	var hyperlinks []*Link
	for _, l := range links {
		if l.Tag != "a" {
			continue
		}
		hyperlinks = append(hyperlinks, l)
		res.Links++
		frag, ok := l.Fragment(base)
		if !ok || frag == "" {
			continue
		}
		if ids[frag] == 0 {
			res.BrokenLinks = append(res.BrokenLinks, BrokenLink{Anchor: frag, Text: l.Text, Line: l.Line})
		}
	}
	res.ExternalLinks = len(FilterLinks(hyperlinks, false, true))
	for id, count := range ids {
		if count > 1 {
			res.DuplicateIDs = append(res.DuplicateIDs, id)
		}
	}
	sort.Strings(res.DuplicateIDs)

	res.FAQItems = len(questions)
	res.FAQEntities = len(entities)
	res.FAQMismatches = compareFAQ(questions, entities, faqPages)
	return res, nil
}

func compareFAQ(questions, entities []string, faqPages int) []string {
	var out []string
	if faqPages != 1 {
		out = append(out, fmt.Sprintf("expected one FAQPage node, found %d", faqPages))
	}
	if len(questions) != len(entities) {
		out = append(out, fmt.Sprintf("accordion has %d questions but FAQPage has %d", len(questions), len(entities)))
		return out
	}
	for i := range questions {
		if questions[i] != collapseSpace(entities[i]) {
			out = append(out, fmt.Sprintf("question %d differs: accordion %q, FAQPage %q", i+1, questions[i], entities[i]))
		}
	}
	return out
}

func summaryText(details *html.Node) string {
	for c := details.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "summary" {
			return collapseSpace(extractText(c))
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
