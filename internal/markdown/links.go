package markdown

import "strings"

// Options controls how Markdown is parsed for analysis. It exists so parsing
// behavior can evolve without rewriting call sites.
type Options struct{}

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
}

// Fragment returns the anchor of a same-page link ("#id" -> "id").
func (l Link) Fragment() (string, bool) {
	if !strings.HasPrefix(l.Destination, "#") {
		return "", false
	}
	return strings.TrimPrefix(l.Destination, "#"), true
}
