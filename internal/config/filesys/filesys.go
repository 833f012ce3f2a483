package filesys

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/egobogo/trellofn/internal/config"
)

// FilesysConfigProvider is a concrete implementation of ConfigProvider that reads YAML config files.
type FilesysConfigProvider struct {
	cfg *config.Config
}

// NewFilesysConfigProvider creates a new FilesysConfigProvider and loads the configuration from the given path.
func NewFilesysConfigProvider(path string) (*FilesysConfigProvider, error) {
	prov := &FilesysConfigProvider{}
	cfg, err := prov.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	prov.cfg = cfg
	return prov, nil
}

// Config returns the configuration read at construction.
func (f *FilesysConfigProvider) Config() *config.Config {
	return f.cfg
}

// LoadConfig reads and unmarshals the YAML configuration file into a Config struct.
func (f *FilesysConfigProvider) LoadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML config: %w", err)
	}
	return &cfg, nil
}
