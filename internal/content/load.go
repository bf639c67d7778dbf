package content

import (
	"bytes"
	"embed"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/wordgames/internal/foundation/errors"
)

// EmbeddedSource names the built-in manifest in logs and API responses.
const EmbeddedSource = "embedded:learnwordgames.yaml"

//go:embed manifest/learnwordgames.yaml
var manifestFS embed.FS

// Default returns the built-in manifest. It is parsed on every call so callers
// never share mutable slices.
func Default() (*Manifest, error) {
	data, err := manifestFS.ReadFile("manifest/learnwordgames.yaml")
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "embedded manifest missing").Build()
	}
	return Parse(data)
}

// DefaultYAML returns the raw bytes of the built-in manifest.
func DefaultYAML() []byte {
	data, _ := manifestFS.ReadFile("manifest/learnwordgames.yaml")
	return data
}

// Load reads a manifest from path. An empty path selects the built-in manifest.
func Load(path string) (*Manifest, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		b := derrors.FileSystemError("failed to read content manifest").WithCause(err).
			WithContext("path", path)
		if errors.Is(err, fs.ErrNotExist) {
			b = derrors.WrapError(err, derrors.CategoryConfig, "content manifest not found").
				Fatal().
				WithContext("path", path)
		}
		return nil, b.Build()
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Parse decodes manifest YAML, rejecting unknown keys, and fills derived
// anchors for entries that omit an explicit id.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, derrors.ContentError("content manifest is empty").Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryContent, "failed to parse content manifest").
			Fatal().
			Build()
	}
	normalize(&m)
	return &m, nil
}

// Marshal serializes the manifest back to YAML.
func Marshal(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func normalize(m *Manifest) {
	m.Status = Status(strings.ToLower(strings.TrimSpace(string(m.Status))))
	if m.Status == "" {
		m.Status = StatusLaunched
	}
	if m.Meta.Lang == "" {
		m.Meta.Lang = "en"
	}
	if m.FAQHeading == "" {
		m.FAQHeading = "FAQ"
	}
	for i := range m.Sections {
		if m.Sections[i].ID == "" {
			m.Sections[i].ID = Slugify(m.Sections[i].Heading)
		}
	}
	for i := range m.NavGroups {
		if m.NavGroups[i].ID == "" {
			m.NavGroups[i].ID = Slugify(m.NavGroups[i].Heading)
		}
		if m.NavGroups[i].ItemListName == "" {
			m.NavGroups[i].ItemListName = m.NavGroups[i].Heading
		}
	}
	if m.HowTo != nil && m.HowTo.ID == "" {
		m.HowTo.ID = Slugify(m.HowTo.Name)
	}
	for i := range m.FAQs {
		m.FAQs[i].Question = CollapseSpace(m.FAQs[i].Question)
	}
}

// CollapseSpace trims s and replaces every run of whitespace with a single
// space, which is how browsers and HTML parsers read the rendered text.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
