package content

import (
	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// Fingerprint returns a stable content hash of the manifest. Two manifests
// that serialize identically share a fingerprint, so it doubles as an ETag.
func Fingerprint(m *Manifest) (string, error) {
	meta, err := yaml.Marshal(struct {
		Status Status   `yaml:"status"`
		Meta   PageMeta `yaml:"meta"`
	}{m.Status, m.Meta})
	if err != nil {
		return "", err
	}
	body, err := Marshal(m)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(string(meta), string(body)), nil
}
