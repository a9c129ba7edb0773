// Package project persists the non-secret provisioning results next to the
// app so later commands (seed, doctor) can pick up defaults without re-asking.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const ConfigFilename = "edgekit.yaml"

type DatabaseConfig struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Binding string `yaml:"binding"`
}

// Config is control-plane metadata, not an application artifact: everything in
// it is recoverable by re-running setup, and nothing in it is secret. Secrets
// live only in .env.
type Config struct {
	SchemaVersion int    `yaml:"schemaVersion"`
	AccountID     string `yaml:"accountId"`
	AccountName   string `yaml:"accountName,omitempty"`

	Database DatabaseConfig `yaml:"database"`

	ProvisionedAtUTC string `yaml:"provisionedAtUtc"`
}

func ConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFilename)
}

func Load(dir string) (Config, error) {
	path := ConfigPath(dir)
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", ConfigFilename, err)
	}
	if c.SchemaVersion == 0 {
		c.SchemaVersion = 1
	}
	if c.SchemaVersion != 1 {
		return Config{}, fmt.Errorf("unsupported %s schemaVersion %d", ConfigFilename, c.SchemaVersion)
	}
	return c, nil
}

func Write(dir string, cfg Config) error {
	if cfg.SchemaVersion == 0 {
		cfg.SchemaVersion = 1
	}
	if cfg.ProvisionedAtUTC == "" {
		cfg.ProvisionedAtUTC = time.Now().UTC().Format(time.RFC3339)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	path := ConfigPath(dir)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write config temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
