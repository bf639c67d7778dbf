package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/wordgames/internal/foundation/errors"
)

// AppName is used for XDG lookups and as the metrics namespace.
const AppName = "learnwordgames"

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "config.yaml"

//go:embed default_config.yaml
var defaultConfigYAML []byte

// Config is the runtime configuration of the landing page service.
// Page content lives in the content manifest, not here.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Server     ServerConfig     `yaml:"server"`
	Content    ContentConfig    `yaml:"content"`
	Export     ExportConfig     `yaml:"export"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SiteConfig holds per-request rendering inputs that come from the environment.
type SiteConfig struct {
	// Message is the injected footer message. Empty selects the fallback text.
	Message     string `yaml:"message"`
	CacheMaxAge int    `yaml:"cache_max_age"` // seconds
	// TemplatesDir holds *.tmpl files overriding the built-in page blocks.
	TemplatesDir string `yaml:"templates_dir"`
}

// ServerConfig represents HTTP listener configuration.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	SitePort        int           `yaml:"site_port"`
	AdminPort       int           `yaml:"admin_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ContentConfig locates the content manifest.
type ContentConfig struct {
	// Manifest is a path to a YAML manifest. Empty uses the embedded default.
	Manifest string        `yaml:"manifest"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// ExportConfig controls the scheduled static export of the rendered page.
type ExportConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Schedule   string `yaml:"schedule"` // cron expression
	Directory  string `yaml:"directory"`
	RunOnStart bool   `yaml:"run_on_start"`
	// Retry governs retries of transient filesystem failures while writing.
	Retry RetryConfig `yaml:"retry"`
}

// RetryBackoffMode selects how retry delays grow.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// RetryConfig is the raw retry policy; see internal/retry.
type RetryConfig struct {
	Backoff    RetryBackoffMode `yaml:"backoff"`
	Initial    time.Duration    `yaml:"initial"`
	Max        time.Duration    `yaml:"max"`
	MaxRetries int              `yaml:"max_retries"`
}

// MonitoringConfig represents monitoring endpoints on the admin listener.
type MonitoringConfig struct {
	Metrics MonitoringMetrics `yaml:"metrics"`
	Health  MonitoringHealth  `yaml:"health"`
}

// MonitoringMetrics represents metrics configuration.
type MonitoringMetrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MonitoringHealth represents health check configuration.
type MonitoringHealth struct {
	Path string `yaml:"path"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads, expands, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, derrors.ConfigError("configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional loads path if present, then the XDG config file, and falls
// back to built-in defaults when neither exists.
func LoadOptional(path string) (*Config, string, error) {
	resolved, ok := ResolvePath(path)
	if !ok {
		loadEnvFiles()
		cfg := Default()
		return cfg, "", nil
	}
	cfg, err := Load(resolved)
	return cfg, resolved, err
}

// ResolvePath returns the first existing config file among path and
// $XDG_CONFIG_HOME/learnwordgames/config.yaml.
func ResolvePath(path string) (string, bool) {
	if path != "" {
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path, true
		}
	}
	if found, err := xdg.SearchConfigFile(filepath.Join(AppName, DefaultPath)); err == nil {
		return found, true
	}
	return "", false
}

// Parse decodes YAML config data. Environment variables are expanded before
// decoding and unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to parse config").
			Fatal().
			Build()
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Init writes the annotated default configuration to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return derrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to create config directory").Build()
		}
	}
	if err := os.WriteFile(path, defaultConfigYAML, 0o600); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}
