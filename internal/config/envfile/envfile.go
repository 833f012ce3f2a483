package envfile

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/egobogo/trellofn/internal/config"
)

// EnvConfigProvider builds a Config from a .env file and the process
// environment. Process variables take precedence over the file, as with
// godotenv.Load.
type EnvConfigProvider struct{}

// NewEnvConfigProvider returns a provider reading TRELLO_* variables.
func NewEnvConfigProvider() *EnvConfigProvider {
	return &EnvConfigProvider{}
}

// LoadConfig reads the .env file at path, if path is non-empty, and overlays
// the process environment.
func (p *EnvConfigProvider) LoadConfig(path string) (*config.Config, error) {
	fileValues := map[string]string{}
	if path != "" {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		fileValues = values
	}

	cfg := &config.Config{}
	cfg.ApplyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	})
	return cfg, nil
}
