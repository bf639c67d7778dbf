package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/wordgames/internal/foundation/errors"
	"git.home.luguber.info/inful/wordgames/internal/server/responses"
	"git.home.luguber.info/inful/wordgames/internal/version"
)

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	source       SnapshotSource
	startTime    time.Time
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(source SnapshotSource, startTime time.Time, logger *slog.Logger) *MonitoringHandlers {
	return &MonitoringHandlers{
		source:       source,
		startTime:    startTime,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

func (h *MonitoringHandlers) allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	h.errorAdapter.WriteErrorResponse(w, r, errors.MethodNotAllowedError(r.Method, http.MethodGet, http.MethodHead).Build())
	return false
}

// HandleHealthCheck reports liveness. It does not depend on content.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r) {
		return
	}
	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if err := writeJSON(w, r, http.StatusOK, health); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "failed to write health response").Build())
	}
}

// HandleReadiness reports ready once a validated manifest is being served.
func (h *MonitoringHandlers) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r) {
		return
	}
	snap := h.source.Current()
	if snap == nil {
		_ = writeJSON(w, r, http.StatusServiceUnavailable, &responses.ReadinessResponse{
			Ready:  false,
			Reason: "content manifest not loaded",
		})
		return
	}
	_ = writeJSON(w, r, http.StatusOK, &responses.ReadinessResponse{Ready: true, Fingerprint: snap.Fingerprint})
}

// HandleVersion reports build information.
func (h *MonitoringHandlers) HandleVersion(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r) {
		return
	}
	_ = writeJSON(w, r, http.StatusOK, &responses.VersionResponse{
		Version:   version.Version,
		BuildTime: version.BuildTime,
		GitCommit: version.GitCommit,
	})
}
