// Package metrics provides the observability hooks for page rendering,
// manifest reloads and static exports.
//
// # Design Philosophy
//
// This package implements the Null Object pattern so callers never need nil
// checks. Components default to NoopRecorder and receive a real Recorder
// through dependency injection when metrics are enabled:
//
//	type Handler struct {
//	    recorder metrics.Recorder
//	}
//
//	recorder := metrics.NewPrometheusRecorder(registry)
//	handler := handlers.NewPageHandler(store, assembler, recorder, logger)
//
// The Prometheus implementation registers every collector on the registry it
// is given; HTTPHandler exposes that registry on the admin listener.
package metrics
