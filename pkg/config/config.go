// Package config loads user-level settings shared across repositories,
// such as the default author identity. Repo-local settings live in the
// repository itself and take precedence over these.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configDirName  = "gitlet"
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "GITLET"
)

// Defaults applied when no config file or environment override exists.
const (
	DefaultUserName  = "User"
	DefaultUserEmail = "user@example.com"
)

// Global is the user-level configuration, backed by a YAML file under the
// user config directory and GITLET_* environment variables.
type Global struct {
	v    *viper.Viper
	path string
}

// Load reads the user-level config. A missing file is not an error; the
// defaults apply until Save writes one.
func Load() (*Global, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("user.name", DefaultUserName)
	v.SetDefault("user.email", DefaultUserEmail)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read global config: %w", err)
		}
	}

	return &Global{
		v:    v,
		path: filepath.Join(dir, configFileName+"."+configFileType),
	}, nil
}

// Get returns a config value by dotted key, "" when unset.
func (g *Global) Get(key string) string {
	return g.v.GetString(key)
}

// Set stores a value in memory. Call Save to persist it.
func (g *Global) Set(key, value string) {
	g.v.Set(key, value)
}

// Save writes the current settings to the user config file, creating the
// directory if needed.
func (g *Global) Save() error {
	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return fmt.Errorf("save global config: mkdir: %w", err)
	}
	if err := g.v.WriteConfigAs(g.path); err != nil {
		return fmt.Errorf("save global config: %w", err)
	}
	return nil
}

// Path returns the location of the backing config file.
func (g *Global) Path() string {
	return g.path
}

// AllSettings returns every configured key/value pair, flattened to
// dotted keys.
func (g *Global) AllSettings() map[string]string {
	out := make(map[string]string)
	for _, key := range g.v.AllKeys() {
		out[key] = g.v.GetString(key)
	}
	return out
}

// Author formats the configured identity as "Name <email>".
func (g *Global) Author() string {
	return fmt.Sprintf("%s <%s>", g.Get("user.name"), g.Get("user.email"))
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(base, configDirName), nil
}
