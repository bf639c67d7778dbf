package content

import (
	"sync/atomic"
	"time"
)

// Snapshot is one validated, immutable revision of the manifest.
type Snapshot struct {
	Manifest    *Manifest
	Report      *Report
	Fingerprint string
	Source      string
	LoadedAt    time.Time
}

// Store holds the current snapshot. Readers never block; a reload swaps the
// pointer in one step.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore returns a store serving snap.
func NewStore(snap *Snapshot) *Store {
	s := &Store{}
	s.current.Store(snap)
	return s
}

// Current returns the snapshot being served.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Swap replaces the served snapshot and returns the previous one.
func (s *Store) Swap(snap *Snapshot) *Snapshot {
	return s.current.Swap(snap)
}

// LoadSnapshot loads, validates and fingerprints the manifest at path (empty
// path selects the built-in manifest). An invalid manifest is returned as an
// error carrying every blocking issue.
func LoadSnapshot(path string, now time.Time) (*Snapshot, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	report := Validate(m)
	if err := report.Err(); err != nil {
		return nil, err
	}
	fp, err := Fingerprint(m)
	if err != nil {
		return nil, err
	}
	source := path
	if source == "" {
		source = EmbeddedSource
	}
	return &Snapshot{
		Manifest:    m,
		Report:      report,
		Fingerprint: fp,
		Source:      source,
		LoadedAt:    now,
	}, nil
}
