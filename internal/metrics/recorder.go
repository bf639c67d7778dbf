package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess   ResultLabel = "success"
	ResultFailed    ResultLabel = "failed"
	ResultRejected  ResultLabel = "rejected"
	ResultUnchanged ResultLabel = "unchanged"
)

// Recorder defines observability hooks for rendering and content lifecycle
// metrics. Implementations may forward to Prometheus or a test double.
type Recorder interface {
	ObserveRenderDuration(d time.Duration)
	IncRenderResult(result ResultLabel)
	IncManifestReload(result ResultLabel)
	SetValidationWarnings(n int)
	SetContentLoaded(t time.Time)
	IncExportResult(result ResultLabel)
	ObserveHTTPRequest(handler string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are disabled).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(time.Duration)           {}
func (NoopRecorder) IncRenderResult(ResultLabel)                   {}
func (NoopRecorder) IncManifestReload(ResultLabel)                 {}
func (NoopRecorder) SetValidationWarnings(int)                     {}
func (NoopRecorder) SetContentLoaded(time.Time)                    {}
func (NoopRecorder) IncExportResult(ResultLabel)                   {}
func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration) {}

// Or returns r, or NoopRecorder when r is nil.
func Or(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
