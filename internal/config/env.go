package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; values already present in the environment win.
var envFiles = []string{".env", ".env.local"}

func loadEnvFiles() {
	for _, path := range envFiles {
		if err := godotenv.Load(path); err == nil {
			slog.Debug("Loaded environment variables", "file", path)
		}
	}
}
