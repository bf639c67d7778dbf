package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/wordgames/internal/config"
	"git.home.luguber.info/inful/wordgames/internal/content"
	derrors "git.home.luguber.info/inful/wordgames/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force    bool   `help:"Overwrite existing files"`
	Manifest string `short:"m" help:"Also write the built-in content manifest to this path" type:"path"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if path == "" {
		path = config.DefaultPath
	}
	return RunInit(g, path, i.Manifest, i.Force)
}

// RunInit writes the default configuration and, when manifestPath is set,
// the built-in manifest for editing.
func RunInit(g *Global, configPath, manifestPath string, force bool) error {
	_, _ = fmt.Fprintf(g.Out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	if manifestPath != "" {
		_, _ = fmt.Fprintf(g.Out, "Writing content manifest to %s\n", manifestPath)
		if err := writeManifest(manifestPath, force); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintln(g.Out, "initialized successfully")
	return nil
}

func writeManifest(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return derrors.ConfigError("content manifest already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return derrors.FileSystemError("failed to create manifest directory").WithCause(err).Build()
		}
	}
	if err := os.WriteFile(path, content.DefaultYAML(), 0o600); err != nil {
		return derrors.FileSystemError("failed to write content manifest").WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
