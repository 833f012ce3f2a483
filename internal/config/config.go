package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Config represents the entire configuration, from YAML or the environment.
type Config struct {
	Token       string `yaml:"token" json:"token"`
	TokenSecret string `yaml:"tokenSecret" json:"tokenSecret"` // sent to Trello as the token
	BoardID     string `yaml:"boardId" json:"boardId"`
	BaseURL     string `yaml:"baseUrl,omitempty" json:"baseUrl,omitempty"`
	LogLevel    string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
}

// Environment variable names.
const (
	EnvToken       = "TRELLO_TOKEN"
	EnvTokenSecret = "TRELLO_TOKEN_SECRET"
	EnvBoardID     = "TRELLO_BOARD_ID"
	EnvBaseURL     = "TRELLO_BASE_URL"
	EnvLogLevel    = "LOG_LEVEL"
)

// ConfigProvider is an interface for loading a configuration.
type ConfigProvider interface {
	LoadConfig(path string) (*Config, error)
}

// Global references
var (
	provider          ConfigProvider
	loadedConfig      *Config
	ErrNotLoaded      = fmt.Errorf("configuration not loaded")
	ErrMissingSetting = errors.New("missing required setting")
)

// SetProvider sets the configuration provider.
func SetProvider(p ConfigProvider) {
	provider = p
}

// Load uses the current provider to load configuration from the given path.
func Load(path string) error {
	if provider == nil {
		return fmt.Errorf("no config provider set")
	}
	cfg, err := provider.LoadConfig(path)
	if err != nil {
		return err
	}
	loadedConfig = cfg
	return nil
}

// GetLoadedConfig returns the last loaded configuration, or ErrNotLoaded.
func GetLoadedConfig() (*Config, error) {
	if loadedConfig == nil {
		return nil, ErrNotLoaded
	}
	return loadedConfig, nil
}

// ApplyEnv overrides fields with every non-empty variable lookup returns.
// Pass os.LookupEnv for the process environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for key, field := range map[string]*string{
		EnvToken:       &c.Token,
		EnvTokenSecret: &c.TokenSecret,
		EnvBoardID:     &c.BoardID,
		EnvBaseURL:     &c.BaseURL,
		EnvLogLevel:    &c.LogLevel,
	} {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*field = strings.TrimSpace(v)
		}
	}
}

// Validate checks that the credentials and board id are present.
func (c *Config) Validate() error {
	var missing []string
	if c.Token == "" {
		missing = append(missing, "token")
	}
	if c.TokenSecret == "" {
		missing = append(missing, "tokenSecret")
	}
	if c.BoardID == "" {
		missing = append(missing, "boardId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSetting, strings.Join(missing, ", "))
	}
	return nil
}
