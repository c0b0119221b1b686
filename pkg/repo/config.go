package repo

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds repository-local settings as TOML sections of key/value
// pairs, e.g. [user] name = "..." email = "...". Keys are addressed as
// "section.key"; values are opaque strings (no validation beyond
// presence).
type Config struct {
	Sections map[string]map[string]string
}

func (r *Repo) configPath() string {
	return filepath.Join(r.MetaDir, "config.toml")
}

// ReadConfig reads .gitlet/config.toml. A missing file returns an empty
// config.
func (r *Repo) ReadConfig() (*Config, error) {
	cfg := &Config{Sections: make(map[string]map[string]string)}

	data, err := os.ReadFile(r.configPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg.Sections); err != nil {
		return nil, fmt.Errorf("read config: unmarshal: %w", err)
	}
	return cfg, nil
}

// WriteConfig atomically writes .gitlet/config.toml.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil || cfg.Sections == nil {
		cfg = &Config{Sections: make(map[string]map[string]string)}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg.Sections); err != nil {
		return fmt.Errorf("write config: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(r.MetaDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, r.configPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}

// Get returns the value for a "section.key" address, or "" when unset.
func (c *Config) Get(key string) string {
	section, name, ok := strings.Cut(key, ".")
	if !ok {
		return ""
	}
	return c.Sections[section][name]
}

// Set stores a value under a "section.key" address.
func (c *Config) Set(key, value string) error {
	section, name, ok := strings.Cut(key, ".")
	if !ok || strings.TrimSpace(section) == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("config key %q: want section.key", key)
	}
	if c.Sections == nil {
		c.Sections = make(map[string]map[string]string)
	}
	if c.Sections[section] == nil {
		c.Sections[section] = make(map[string]string)
	}
	c.Sections[section][name] = value
	return nil
}

// SetConfig reads, updates, and writes back a single repo-local value.
func (r *Repo) SetConfig(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, err := r.ReadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	return r.WriteConfig(cfg)
}

// GetConfig returns a single repo-local value, "" when unset.
func (r *Repo) GetConfig(key string) (string, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Get(key), nil
}
