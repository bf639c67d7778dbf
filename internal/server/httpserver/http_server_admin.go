package httpserver

import (
	"net/http"

	"git.home.luguber.info/inful/wordgames/internal/metrics"
)

func (s *Server) adminMux() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc(s.cfg.Monitoring.Health.Path, s.monitoringHandlers.HandleHealthCheck)
	if s.cfg.Monitoring.Health.Path != "/healthz" {
		mux.HandleFunc("/healthz", s.monitoringHandlers.HandleHealthCheck) // Kubernetes-style alias
	}
	// Ready once a validated manifest is being served
	mux.HandleFunc("/ready", s.monitoringHandlers.HandleReadiness)
	mux.HandleFunc("/readyz", s.monitoringHandlers.HandleReadiness)
	mux.HandleFunc("/version", s.monitoringHandlers.HandleVersion)

	if s.cfg.Monitoring.Metrics.Enabled {
		mux.Handle(s.cfg.Monitoring.Metrics.Path, metrics.HTTPHandler(s.opts.Registry))
	}

	mux.HandleFunc("/api/content", s.contentHandlers.HandleContent)
	mux.HandleFunc("/api/structured-data", s.contentHandlers.HandleStructuredData)
	return mux
}
