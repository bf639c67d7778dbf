package config

import "time"

const (
	defaultSitePort        = 8080
	defaultAdminPort       = 9090
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 30 * time.Second
	defaultCacheMaxAge     = 300
	defaultDebounce        = 500 * time.Millisecond
	defaultExportSchedule  = "0 * * * *"
	defaultExportDirectory = "./public"
	defaultRetryInitial    = time.Second
	defaultRetryMax        = 30 * time.Second
	defaultMetricsPath     = "/metrics"
	defaultHealthPath      = "/health"
)

// applyDefaults fills zero values. Explicit values always win.
func applyDefaults(cfg *Config) {
	if cfg.Server.SitePort == 0 {
		cfg.Server.SitePort = defaultSitePort
	}
	if cfg.Server.AdminPort == 0 {
		cfg.Server.AdminPort = defaultAdminPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.Site.CacheMaxAge == 0 {
		cfg.Site.CacheMaxAge = defaultCacheMaxAge
	}
	if cfg.Content.Debounce == 0 {
		cfg.Content.Debounce = defaultDebounce
	}
	if cfg.Export.Schedule == "" {
		cfg.Export.Schedule = defaultExportSchedule
	}
	if cfg.Export.Directory == "" {
		cfg.Export.Directory = defaultExportDirectory
	}
	if cfg.Export.Retry.Backoff == "" {
		cfg.Export.Retry.Backoff = RetryBackoffLinear
	}
	if cfg.Export.Retry.Initial == 0 {
		cfg.Export.Retry.Initial = defaultRetryInitial
	}
	if cfg.Export.Retry.Max == 0 {
		cfg.Export.Retry.Max = defaultRetryMax
	}
	if cfg.Monitoring.Metrics.Path == "" {
		cfg.Monitoring.Metrics.Path = defaultMetricsPath
	}
	if cfg.Monitoring.Health.Path == "" {
		cfg.Monitoring.Health.Path = defaultHealthPath
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}
