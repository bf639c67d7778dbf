package httpserver

import (
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/wordgames/internal/metrics"
	"git.home.luguber.info/inful/wordgames/internal/page"
	"git.home.luguber.info/inful/wordgames/internal/server/handlers"
)

// Options configures runtime wiring that does not come from the config file.
type Options struct {
	// Content supplies the manifest snapshot for every request. Required.
	Content handlers.SnapshotSource
	// Assembler renders the page. Required.
	Assembler *page.Assembler

	// Optional: metrics recorder and the registry scraped on the admin listener.
	Recorder metrics.Recorder
	Registry *prom.Registry

	Logger *slog.Logger
	// Now overrides the render clock. Defaults to time.Now.
	Now func() time.Time
}
