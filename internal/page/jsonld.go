package page

import (
	"encoding/json"
	"html/template"
	"strings"

	"git.home.luguber.info/inful/wordgames/internal/content"
)

const schemaContext = "https://schema.org"

// Graph is one application/ld+json block.
type Graph struct {
	Context string `json:"@context"`
	Graph   []any  `json:"@graph"`
}

// WebSite is the site identity node.
type WebSite struct {
	Type        string `json:"@type"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Organization identifies the publisher.
type Organization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
	Logo string `json:"logo,omitempty"`
}

// FAQPage mirrors the visible FAQ accordion.
type FAQPage struct {
	Type       string     `json:"@type"`
	MainEntity []Question `json:"mainEntity"`
}

type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// Audience is an EducationalAudience referenced by the course.
type Audience struct {
	Type            string `json:"@type"`
	ID              string `json:"@id"`
	AudienceType    string `json:"audienceType"`
	EducationalRole string `json:"educationalRole"`
}

type Ref struct {
	ID string `json:"@id"`
}

type Course struct {
	Type                 string          `json:"@type"`
	Name                 string          `json:"name"`
	Description          string          `json:"description,omitempty"`
	URL                  string          `json:"url"`
	Provider             Organization    `json:"provider"`
	Audience             []Ref           `json:"audience,omitempty"`
	EducationalLevel     []string        `json:"educationalLevel,omitempty"`
	HasCourseInstance    *CourseInstance `json:"hasCourseInstance,omitempty"`
	LearningResourceType []string        `json:"learningResourceType,omitempty"`
}

type CourseInstance struct {
	Type       string       `json:"@type"`
	CourseMode string       `json:"courseMode"`
	Instructor Organization `json:"instructor"`
}

type BreadcrumbList struct {
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// ListItem serves both breadcrumbs (Item) and item lists (URL).
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
	URL      string `json:"url,omitempty"`
}

type ItemList struct {
	Type            string     `json:"@type"`
	Name            string     `json:"name"`
	URL             string     `json:"url"`
	ItemListElement []ListItem `json:"itemListElement"`
}

type HowTo struct {
	Type          string          `json:"@type"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	TotalTime     string          `json:"totalTime,omitempty"`
	EstimatedCost *MonetaryAmount `json:"estimatedCost,omitempty"`
	Step          []HowToStep     `json:"step"`
}

type MonetaryAmount struct {
	Type     string `json:"@type"`
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type HowToStep struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Text     string `json:"text"`
}

// BuildStructuredData assembles the linked-data graphs for the rendered
// projection of m: site identity and FAQ first, then the course and its
// audiences, then breadcrumb, item list and how-to.
func BuildStructuredData(m *content.Manifest) []Graph {
	v := m.Visible()
	canonical := v.Meta.CanonicalURL
	siteName := v.SiteName()

	description := v.Meta.SiteDescription
	if description == "" {
		description = v.Meta.Description
	}

	graphs := []Graph{{
		Context: schemaContext,
		Graph: []any{
			WebSite{Type: "WebSite", Name: siteName, URL: canonical, Description: description},
			Organization{Type: "Organization", Name: siteName, URL: canonical, Logo: v.Meta.LogoURL},
			BuildFAQPage(v.FAQs),
		},
	}}

	if v.Course != nil {
		graphs = append(graphs, courseGraph(v, canonical, siteName))
	}

	tail := []any{BreadcrumbList{
		Type: "BreadcrumbList",
		ItemListElement: []ListItem{
			{Type: "ListItem", Position: 1, Name: "Home", Item: canonical},
		},
	}}
	if g, ok := v.ItemListGroup(); ok {
		list := ItemList{
			Type:            "ItemList",
			Name:            g.ItemListName,
			URL:             canonical,
			ItemListElement: make([]ListItem, 0, len(g.Links)),
		}
		for i, l := range g.Links {
			list.ItemListElement = append(list.ItemListElement, ListItem{
				Type:     "ListItem",
				Position: i + 1,
				Name:     l.Label,
				URL:      anchorURL(canonical, l.Target),
			})
		}
		tail = append(tail, list)
	}
	if v.HowTo != nil {
		tail = append(tail, howToNode(v.HowTo))
	}
	graphs = append(graphs, Graph{Context: schemaContext, Graph: tail})
	return graphs
}

// BuildFAQPage maps every entry, in order, to a Question. An empty list
// yields an empty mainEntity array.
func BuildFAQPage(faqs []content.FAQEntry) FAQPage {
	page := FAQPage{Type: "FAQPage", MainEntity: make([]Question, 0, len(faqs))}
	for _, f := range faqs {
		page.MainEntity = append(page.MainEntity, Question{
			Type:           "Question",
			Name:           f.Question,
			AcceptedAnswer: Answer{Type: "Answer", Text: f.Answer},
		})
	}
	return page
}

func courseGraph(v *content.Manifest, canonical, siteName string) Graph {
	c := v.Course
	nodes := make([]any, 0, len(c.Audiences)+1)
	refs := make([]Ref, 0, len(c.Audiences))
	for _, a := range c.Audiences {
		id := anchorURL(canonical, a.ID)
		nodes = append(nodes, Audience{Type: "Audience", ID: id, AudienceType: a.Type, EducationalRole: a.Role})
		refs = append(refs, Ref{ID: id})
	}

	course := Course{
		Type:                 "Course",
		Name:                 c.Name,
		Description:          c.Description,
		URL:                  canonical,
		Provider:             Organization{Type: "Organization", Name: siteName, URL: canonical},
		Audience:             refs,
		EducationalLevel:     c.Levels,
		LearningResourceType: c.ResourceTypes,
	}
	if c.Anchor != "" {
		course.URL = anchorURL(canonical, c.Anchor)
	}
	if c.Mode != "" {
		course.HasCourseInstance = &CourseInstance{
			Type:       "CourseInstance",
			CourseMode: c.Mode,
			Instructor: Organization{Type: "Organization", Name: siteName},
		}
	}
	nodes = append(nodes, course)
	return Graph{Context: schemaContext, Graph: nodes}
}

func howToNode(h *content.HowTo) HowTo {
	node := HowTo{
		Type:        "HowTo",
		Name:        h.Name,
		Description: h.Description,
		TotalTime:   h.TotalTime,
		Step:        make([]HowToStep, 0, len(h.Steps)),
	}
	if h.EstimatedCost != "" {
		currency := h.Currency
		if currency == "" {
			currency = "USD"
		}
		node.EstimatedCost = &MonetaryAmount{Type: "MonetaryAmount", Currency: currency, Value: h.EstimatedCost}
	}
	for i, s := range h.Steps {
		node.Step = append(node.Step, HowToStep{Type: "HowToStep", Position: i + 1, Name: s.Name, Text: s.Text})
	}
	return node
}

// anchorURL joins a canonical page URL with an in-page anchor.
func anchorURL(canonical, anchor string) string {
	if i := strings.IndexByte(canonical, '#'); i >= 0 {
		canonical = canonical[:i]
	}
	return canonical + "#" + anchor
}

// encodeGraphs serializes each graph for embedding in a script element.
// encoding/json escapes <, > and & so the payload cannot close the element.
func encodeGraphs(graphs []Graph) ([]template.JS, error) {
	out := make([]template.JS, 0, len(graphs))
	for _, g := range graphs {
		b, err := json.Marshal(g)
		if err != nil {
			return nil, err
		}
		out = append(out, template.JS(b)) //nolint:gosec // escaped by encoding/json
	}
	return out, nil
}
