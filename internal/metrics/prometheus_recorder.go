package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "learnwordgames"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	renderDuration     prom.Histogram
	renderResults      *prom.CounterVec
	manifestReloads    *prom.CounterVec
	validationWarnings prom.Gauge
	contentLoaded      prom.Gauge
	exportResults      *prom.CounterVec
	httpDuration       *prom.HistogramVec
	httpRequests       *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg
// together with the Go runtime and process collectors.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of full page renders",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		renderResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_results_total",
			Help:      "Page render results by outcome",
		}, []string{"result"}),
		manifestReloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "manifest_reloads_total",
			Help:      "Content manifest reload attempts by outcome",
		}, []string{"result"}),
		validationWarnings: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "manifest_validation_warnings",
			Help:      "Advisory validation findings for the served manifest",
		}),
		contentLoaded: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "manifest_loaded_timestamp_seconds",
			Help:      "Unix time the served manifest was loaded",
		}),
		exportResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "export_results_total",
			Help:      "Static export results by outcome",
		}, []string{"result"}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by handler",
			Buckets:   prom.DefBuckets,
		}, []string{"handler"}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by handler and status code",
		}, []string{"handler", "code"}),
	}
	reg.MustRegister(
		pr.renderDuration, pr.renderResults, pr.manifestReloads, pr.validationWarnings,
		pr.contentLoaded, pr.exportResults, pr.httpDuration, pr.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.renderResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncManifestReload(result ResultLabel) {
	if p == nil {
		return
	}
	p.manifestReloads.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) SetValidationWarnings(n int) {
	if p == nil {
		return
	}
	p.validationWarnings.Set(float64(n))
}

func (p *PrometheusRecorder) SetContentLoaded(t time.Time) {
	if p == nil {
		return
	}
	p.contentLoaded.Set(float64(t.Unix()))
}

func (p *PrometheusRecorder) IncExportResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.exportResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveHTTPRequest(handler string, status int, d time.Duration) {
	if p == nil {
		return
	}
	p.httpDuration.WithLabelValues(handler).Observe(d.Seconds())
	p.httpRequests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
}
