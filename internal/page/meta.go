package page

import (
	"strings"

	"git.home.luguber.info/inful/wordgames/internal/content"
)

// Robots is the crawler directive for the landing page.
const Robots = "index, follow, max-image-preview:large"

// Meta is the document head projection of the page metadata.
type Meta struct {
	Title        string
	Description  string
	Keywords     string
	Robots       string
	CanonicalURL string
	ThemeColor   string
	Lang         string
	OpenGraph    OpenGraph
	Twitter      TwitterCard
}

type OpenGraph struct {
	Title       string
	Description string
	Type        string
	URL         string
	Image       string
	SiteName    string
}

type TwitterCard struct {
	Card        string
	Title       string
	Description string
	Image       string
}

// BuildMeta derives the head fields from the manifest metadata.
func BuildMeta(m *content.Manifest) Meta {
	pm := m.Meta
	card := "summary"
	if pm.ImageURL != "" {
		card = "summary_large_image"
	}
	return Meta{
		Title:        pm.Title,
		Description:  pm.Description,
		Keywords:     strings.Join(pm.Keywords, ", "),
		Robots:       Robots,
		CanonicalURL: pm.CanonicalURL,
		ThemeColor:   pm.ThemeColor,
		Lang:         pm.Lang,
		OpenGraph: OpenGraph{
			Title:       pm.Title,
			Description: pm.Description,
			Type:        "website",
			URL:         pm.CanonicalURL,
			Image:       pm.ImageURL,
			SiteName:    m.SiteName(),
		},
		Twitter: TwitterCard{
			Card:        card,
			Title:       pm.Title,
			Description: pm.Description,
			Image:       pm.ImageURL,
		},
	}
}
