// Package cliconfig persists the command line client's server address and
// session credentials. State lives in ~/.config/liftledger/config.toml.
package cliconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/liftledger/liftledger/remote"
)

const (
	defaultConfigPath = "~/.config/liftledger/config.toml"
	defaultServerURL  = "http://localhost:8080"
)

// Config is the on-disk CLI state. Tokens are present only while signed in.
type Config struct {
	ServerURL    string          `toml:"server_url"`
	AccessToken  string          `toml:"access_token,omitempty"`
	RefreshToken string          `toml:"refresh_token,omitempty"`
	Identity     remote.Identity `toml:"identity,omitempty"`
}

// SignedIn reports whether stored credentials exist. It says nothing about
// whether the server still accepts them.
func (c Config) SignedIn() bool {
	return c.RefreshToken != "" && c.Identity.UserID != uuid.Nil
}

// ClearCredentials drops tokens and identity, keeping the server address.
func (c *Config) ClearCredentials() {
	c.AccessToken = ""
	c.RefreshToken = ""
	c.Identity = remote.Identity{}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config at path. A missing file yields a usable default; a
// malformed file is an error, so stored credentials are never silently
// discarded.
func Load(path string) (Config, error) {
	cfg := Config{ServerURL: defaultServerURL}

	resolved, err := resolvePath(path)
	if err != nil {
		return cfg, fmt.Errorf("resolve config path: %w", err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	if strings.TrimSpace(cfg.ServerURL) == "" {
		cfg.ServerURL = defaultServerURL
	}
	return cfg, nil
}

// Save writes the config to path, creating directories as needed. The file
// carries tokens, so it is not group or world readable.
func Save(path string, cfg Config) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// CachePath returns the local cache database path next to the config file.
func CachePath(configPath string) (string, error) {
	resolved, err := resolvePath(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return filepath.Join(filepath.Dir(resolved), "cache.db"), nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
