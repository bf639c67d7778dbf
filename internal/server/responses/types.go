// Package responses defines API response types used by the admin handlers.
package responses

import (
	"time"

	"git.home.luguber.info/inful/wordgames/internal/content"
)

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// ReadinessResponse reports whether a validated manifest is being served.
type ReadinessResponse struct {
	Ready       bool   `json:"ready"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// ContentResponse summarizes the served manifest.
type ContentResponse struct {
	Source      string          `json:"source"`
	Fingerprint string          `json:"fingerprint"`
	LoadedAt    time.Time       `json:"loaded_at"`
	PageStatus  content.Status  `json:"page_status"`
	Title       string          `json:"title"`
	Canonical   string          `json:"canonical_url"`
	Sections    []SectionRef    `json:"sections"`
	FAQs        int             `json:"faqs"`
	NavLinks    int             `json:"nav_links"`
	Warnings    []content.Issue `json:"warnings"`
}

// SectionRef names one rendered section.
type SectionRef struct {
	ID      string `json:"id"`
	Heading string `json:"heading"`
}

// VersionResponse reports build information.
type VersionResponse struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}
