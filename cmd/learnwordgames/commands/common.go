// Package commands implements the learnwordgames subcommands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/wordgames/internal/config"
	"git.home.luguber.info/inful/wordgames/internal/content"
	"git.home.luguber.info/inful/wordgames/internal/logfields"
)

// Global carries state shared by every subcommand. It is bound into kong and
// filled in by CLI.AfterApply.
type Global struct {
	Logger     *slog.Logger
	Config     *config.Config
	ConfigPath string
	// Out receives command output (rendered pages, reports).
	Out io.Writer
	// Context is the parent of every command context.
	Context context.Context

	configErr error
}

// NewGlobal returns a Global writing command output to out.
func NewGlobal(out io.Writer) *Global {
	return &Global{Logger: slog.Default(), Out: out, Context: context.Background()}
}

// LoadedConfig returns the configuration resolved during flag parsing.
func (g *Global) LoadedConfig() (*config.Config, error) {
	if g.configErr != nil {
		return nil, g.configErr
	}
	return g.Config, nil
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ./config.yaml, then the XDG config dir)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve    ServeCmd    `cmd:"" help:"Serve the landing page and the admin endpoints"`
	Render   RenderCmd   `cmd:"" help:"Render the landing page once and write the HTML document"`
	Validate ValidateCmd `cmd:"" help:"Validate a content manifest and audit the rendered page"`
	Init     InitCmd     `cmd:"" help:"Write a default configuration file (and optionally a content manifest)"`
}

// AfterApply runs after flag parsing: resolve the config once and set up
// logging from it. A broken config is reported by the command that needs it,
// so init can still overwrite it.
func (c *CLI) AfterApply(g *Global) error {
	path := c.Config
	if path == "" {
		path = config.DefaultPath
	}
	cfg, resolved, err := config.LoadOptional(path)

	logging := config.Default().Logging
	if err == nil {
		logging = cfg.Logging
	}
	logger := logging.NewLogger(os.Stderr, c.Verbose)
	slog.SetDefault(logger)

	g.Logger = logger
	g.Config, g.ConfigPath, g.configErr = cfg, resolved, err
	if g.Context == nil {
		g.Context = context.Background()
	}
	if resolved != "" {
		logger.Debug("Loaded configuration", logfields.File(resolved))
	}
	return nil
}

// manifestPath picks the manifest flag over the configured path.
func manifestPath(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	return cfg.Content.Manifest
}

func sourceName(path string) string {
	if path == "" {
		return content.EmbeddedSource
	}
	return path
}
