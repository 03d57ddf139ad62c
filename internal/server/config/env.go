package config

import (
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable, e.g. NOTES_SECRET_KEY.
const EnvPrefix = "NOTES"

// loadDotenv exports variables from the file named by -env, or from ./.env
// when it exists. Variables already set in the environment win.
func loadDotenv() {
	path := flagx.EnvFileFlag()
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		panic(err)
	}
}

// parseEnv overrides fields whose NOTES_* variable is set. Unset variables
// leave the current value alone. Lists are comma separated.
func parseEnv(config *Config) {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		panic(err)
	}
}
