package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order. godotenv never overrides variables that are
// already set, so the process environment keeps precedence.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env style files when they exist.
func loadEnvFiles() {
	for _, name := range envFiles {
		if err := godotenv.Load(name); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("Failed to load env file", "file", name, "error", err)
			}
			continue
		}
		slog.Debug("Loaded environment variables", "file", name)
	}
}
