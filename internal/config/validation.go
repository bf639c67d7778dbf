package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-co-op/gocron/v2"

	derrors "git.home.luguber.info/inful/wordgames/internal/foundation/errors"
)

// Validate checks a defaulted configuration. All problems are reported together.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validatePort("server.site_port", cfg.Server.SitePort)...)
	errs = append(errs, validatePort("server.admin_port", cfg.Server.AdminPort)...)
	if cfg.Server.SitePort == cfg.Server.AdminPort {
		errs = append(errs, fmt.Errorf("server.site_port and server.admin_port must differ (both %d)", cfg.Server.SitePort))
	}
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 || cfg.Server.IdleTimeout < 0 {
		errs = append(errs, errors.New("server timeouts must not be negative"))
	}
	if cfg.Site.CacheMaxAge < 0 {
		errs = append(errs, fmt.Errorf("site.cache_max_age must not be negative: %d", cfg.Site.CacheMaxAge))
	}
	if dir := strings.TrimSpace(cfg.Site.TemplatesDir); dir != "" {
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			errs = append(errs, fmt.Errorf("site.templates_dir is not a directory: %q", dir))
		}
	}
	if cfg.Content.Watch && strings.TrimSpace(cfg.Content.Manifest) == "" {
		errs = append(errs, errors.New("content.watch requires content.manifest to be set"))
	}
	if cfg.Export.Enabled {
		if err := validateCron(cfg.Export.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("export.schedule: %w", err))
		}
	}
	switch cfg.Export.Retry.Backoff {
	case RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential:
	default:
		errs = append(errs, fmt.Errorf("export.retry.backoff must be fixed, linear or exponential: %q", cfg.Export.Retry.Backoff))
	}
	if cfg.Export.Retry.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("export.retry.max_retries must not be negative: %d", cfg.Export.Retry.MaxRetries))
	}
	for name, p := range map[string]string{
		"monitoring.metrics.path": cfg.Monitoring.Metrics.Path,
		"monitoring.health.path":  cfg.Monitoring.Health.Path,
	} {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, fmt.Errorf("%s must start with '/': %q", name, p))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return derrors.WrapError(errors.Join(errs...), derrors.CategoryConfig, "invalid configuration").
		Fatal().
		WithContext("problems", len(errs)).
		Build()
}

func validatePort(name string, port int) []error {
	if port < 1 || port > 65535 {
		return []error{fmt.Errorf("%s out of range: %d", name, port)}
	}
	return nil
}

// validateCron parses expr with a throwaway scheduler so the error matches what
// the exporter would report at startup.
func validateCron(expr string) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	defer func() { _ = s.Shutdown() }()
	_, err = s.NewJob(gocron.CronJob(expr, false), gocron.NewTask(func() {}))
	return err
}
