// Package content defines the landing page content manifest: page metadata,
// ordered sections, FAQ entries and navigation links. A manifest is loaded
// once, validated for referential integrity and treated as immutable.
package content

// Status is the content state of the page.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusLaunched Status = "launched"
)

// FAQAnchor is the in-page anchor of the FAQ accordion.
const FAQAnchor = "faq"

// DefaultFooterFallback is shown when no message is injected at render time.
const DefaultFooterFallback = "Made with clarity and simplicity"

// Manifest is the complete declarative description of the page.
type Manifest struct {
	Status     Status     `yaml:"status"`
	Meta       PageMeta   `yaml:"meta"`
	Draft      DraftNotes `yaml:"draft,omitempty"`
	Hero       Hero       `yaml:"hero"`
	Highlights []Card     `yaml:"highlights,omitempty"`
	Sections   []Section  `yaml:"sections"`
	NavGroups  []NavGroup `yaml:"nav_groups,omitempty"`
	HowTo      *HowTo     `yaml:"how_to,omitempty"`
	About      *Card      `yaml:"about,omitempty"`
	Course     *Course    `yaml:"course,omitempty"`
	FAQHeading string     `yaml:"faq_heading,omitempty"`
	FAQs       []FAQEntry `yaml:"faqs"`
	Footer     Footer     `yaml:"footer,omitempty"`
}

// PageMeta feeds the document head and the site identity nodes.
type PageMeta struct {
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	CanonicalURL    string   `yaml:"canonical_url"`
	SiteName        string   `yaml:"site_name"`
	SiteDescription string   `yaml:"site_description,omitempty"`
	ImageURL        string   `yaml:"image_url,omitempty"`
	LogoURL         string   `yaml:"logo_url,omitempty"`
	ThemeColor      string   `yaml:"theme_color,omitempty"`
	Keywords        []string `yaml:"keywords,omitempty"`
	Lang            string   `yaml:"lang,omitempty"`
}

// DraftNotes are only rendered while the page is in draft.
type DraftNotes struct {
	Banner     string `yaml:"banner,omitempty"`
	Disclaimer string `yaml:"disclaimer,omitempty"`
}

// Hero is the top of the page.
type Hero struct {
	Heading string     `yaml:"heading"`
	Lead    string     `yaml:"lead"`
	CTAs    []NavLink  `yaml:"ctas,omitempty"`
	Warmup  *CardBlock `yaml:"warmup,omitempty"`
}

// CardBlock is a titled list of short prompts.
type CardBlock struct {
	Heading string   `yaml:"heading"`
	Intro   string   `yaml:"intro,omitempty"`
	Items   []string `yaml:"items"`
}

// Section is one content block addressable by its ID. Presentation follows
// from which body fields are populated.
type Section struct {
	ID         string    `yaml:"id"`
	Heading    string    `yaml:"heading"`
	Paragraphs []string  `yaml:"paragraphs,omitempty"`
	Items      []string  `yaml:"items,omitempty"`
	Cards      []Card    `yaml:"cards,omitempty"`
	Terms      []Term    `yaml:"terms,omitempty"`
	Tip        string    `yaml:"tip,omitempty"`
	CTAs       []NavLink `yaml:"ctas,omitempty"`
	// Status, when set to launched, hides the section while the page is a draft.
	Status Status `yaml:"status,omitempty"`
}

// Card is a small titled block inside a section.
type Card struct {
	Title   string   `yaml:"title"`
	Text    string   `yaml:"text,omitempty"`
	Items   []string `yaml:"items,omitempty"`
	Outcome string   `yaml:"outcome,omitempty"`
}

// Term is a definition list entry.
type Term struct {
	Term       string `yaml:"term"`
	Definition string `yaml:"definition"`
}

// FAQEntry feeds both the visible accordion and the FAQPage node.
type FAQEntry struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// NavLink is a same-page reference to an anchor.
type NavLink struct {
	Label  string `yaml:"label"`
	Target string `yaml:"target"`
	Status Status `yaml:"status,omitempty"`
}

// Href returns the in-page URL fragment for the link.
func (l NavLink) Href() string { return "#" + l.Target }

// NavGroup is a titled list of NavLinks. At most one group should set
// ItemList; it becomes the ItemList structured-data node.
type NavGroup struct {
	ID           string    `yaml:"id"`
	Heading      string    `yaml:"heading"`
	Intro        string    `yaml:"intro,omitempty"`
	Style        string    `yaml:"style,omitempty"` // list | chips
	ItemList     bool      `yaml:"item_list,omitempty"`
	ItemListName string    `yaml:"item_list_name,omitempty"`
	Links        []NavLink `yaml:"links"`
}

// HeadingID is the id of the group's heading element.
func (g NavGroup) HeadingID() string { return g.ID + "-heading" }

// HowTo is a short step list mirrored into a HowTo node.
type HowTo struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	TotalTime   string `yaml:"total_time,omitempty"` // ISO 8601 duration
	// EstimatedCost is a decimal amount in Currency, e.g. "0".
	EstimatedCost string      `yaml:"estimated_cost,omitempty"`
	Currency      string      `yaml:"currency,omitempty"`
	Steps         []HowToStep `yaml:"steps"`
	Tip           string      `yaml:"tip,omitempty"`
}

// HowToStep is one step of a HowTo.
type HowToStep struct {
	Name string `yaml:"name"`
	Text string `yaml:"text"`
}

// Course describes the structured learning track and its audiences.
type Course struct {
	Name          string     `yaml:"name"`
	Description   string     `yaml:"description"`
	Anchor        string     `yaml:"anchor"`
	Levels        []string   `yaml:"levels,omitempty"`
	Mode          string     `yaml:"mode,omitempty"`
	ResourceTypes []string   `yaml:"resource_types,omitempty"`
	Audiences     []Audience `yaml:"audiences,omitempty"`
}

// Audience is an educational audience of the course.
type Audience struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`
	Role string `yaml:"role"`
}

// Footer configures the page footer.
type Footer struct {
	Fallback string `yaml:"fallback,omitempty"`
}

// FooterFallback returns the configured fallback or the default text.
func (m *Manifest) FooterFallback() string {
	if m.Footer.Fallback != "" {
		return m.Footer.Fallback
	}
	return DefaultFooterFallback
}

// IsDraft reports whether the page is in its pre-launch state.
func (m *Manifest) IsDraft() bool { return m.Status == StatusDraft }

// SiteName returns the configured site name, falling back to the title.
func (m *Manifest) SiteName() string {
	if m.Meta.SiteName != "" {
		return m.Meta.SiteName
	}
	return m.Meta.Title
}

// ItemListGroup returns the nav group projected into the ItemList node.
func (m *Manifest) ItemListGroup() (NavGroup, bool) {
	for _, g := range m.NavGroups {
		if g.ItemList {
			return g, true
		}
	}
	return NavGroup{}, false
}
