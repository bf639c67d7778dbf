// Package linkverify audits a rendered page: every same-page link must land on
// an element id, ids must be unique and the FAQ accordion must match the
// FAQPage structured data.
package linkverify

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/wordgames/internal/foundation/errors"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL        string // The URL or path
	Text       string // Link text/title
	Tag        string // HTML tag (a, link, ...)
	Attribute  string // Attribute containing the link
	IsInternal bool   // True if link is internal to the page's site
	Line       int    // Element ordinal in document order
}

// Fragment returns the in-page anchor the link points at, if it targets the
// page at base.
func (l *Link) Fragment(base *url.URL) (string, bool) {
	if strings.HasPrefix(l.URL, "#") {
		return strings.TrimPrefix(l.URL, "#"), true
	}
	u, err := url.Parse(l.URL)
	if err != nil || u.Fragment == "" || base == nil {
		return "", false
	}
	if u.Host == base.Host && strings.TrimSuffix(u.Path, "/") == strings.TrimSuffix(base.Path, "/") {
		return u.Fragment, true
	}
	return "", false
}

func parseBase(baseURL string) (*url.URL, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid base URL").
			WithContext("base_url", baseURL).
			Build()
	}
	return base, nil
}

// walk visits element nodes in document order.
func walk(doc *html.Node, visit func(n *html.Node, line int)) {
	var line int
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.ElementNode {
			line++
			visit(n, line)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(doc)
}

// extractElementLinks extracts links from a single HTML element.
func extractElementLinks(n *html.Node, links *[]*Link, base *url.URL, lineNum int) {
	switch n.Data {
	case "a":
		if href := getAttr(n, "href"); href != "" {
			*links = append(*links, &Link{
				URL:        href,
				Text:       extractText(n),
				Tag:        "a",
				Attribute:  "href",
				IsInternal: isInternalLink(href, base),
				Line:       lineNum,
			})
		}
	case "link":
		if href := getAttr(n, "href"); href != "" {
			*links = append(*links, &Link{
				URL:        href,
				Text:       getAttr(n, "rel"),
				Tag:        "link",
				Attribute:  "href",
				IsInternal: isInternalLink(href, base),
				Line:       lineNum,
			})
		}
	case "img":
		if src := getAttr(n, "src"); src != "" {
			*links = append(*links, &Link{
				URL:        src,
				Text:       getAttr(n, "alt"),
				Tag:        "img",
				Attribute:  "src",
				IsInternal: isInternalLink(src, base),
				Line:       lineNum,
			})
		}
	}
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// extractText extracts text content from an HTML node and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}
	return strings.TrimSpace(text.String())
}

// isInternalLink determines if a URL is internal to the site.
func isInternalLink(linkURL string, baseURL *url.URL) bool {
	if strings.HasPrefix(linkURL, "mailto:") ||
		strings.HasPrefix(linkURL, "tel:") ||
		strings.HasPrefix(linkURL, "#") {
		return true
	}
	u, err := url.Parse(linkURL)
	if err != nil {
		return false
	}
	if u.Scheme == "" || u.Host == "" {
		return true
	}
	return baseURL != nil && u.Host == baseURL.Host
}

// FilterLinks filters links based on criteria.
func FilterLinks(links []*Link, includeInternal, includeExternal bool) []*Link {
	var filtered []*Link
	for _, link := range links {
		if link.IsInternal && includeInternal {
			filtered = append(filtered, link)
		} else if !link.IsInternal && includeExternal {
			filtered = append(filtered, link)
		}
	}
	return filtered
}
