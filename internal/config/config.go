// Package config handles the global configuration file and environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/hifive/config.yml.
type GlobalConfig struct {
	// Mailto joins OpenAlex's polite pool; the OPENALEX_EMAIL environment
	// variable takes precedence when set.
	Mailto string `yaml:"mailto,omitempty"`

	// CacheDir overrides the default response cache location.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// CacheTTLMinutes overrides how long cached API responses stay fresh.
	CacheTTLMinutes int `yaml:"cache_ttl_minutes,omitempty"`

	// Offline skips the live API entirely and renders the built-in sample
	// datasets.
	Offline bool `yaml:"offline,omitempty"`

	Viewport ViewportConfig `yaml:"viewport,omitempty"`
}

// ViewportConfig sizes the rendered scene in pixels.
type ViewportConfig struct {
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "hifive"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// DefaultViewportWidth and DefaultViewportHeight size the scene when
	// neither config nor flags say otherwise.
	DefaultViewportWidth  = 900.0
	DefaultViewportHeight = 640.0
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/hifive/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.CacheDir != "" {
		cfg.CacheDir = ExpandPath(cfg.CacheDir)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetMailto returns the polite-pool email, preferring the OPENALEX_EMAIL
// environment variable over the config file.
func GetMailto() string {
	if v := os.Getenv("OPENALEX_EMAIL"); v != "" {
		return v
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.Mailto
}

// GetCacheDir returns the configured cache directory, or "" for the default.
func GetCacheDir() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.CacheDir
}

// GetOffline reports whether the built-in sample datasets should be used
// instead of live API calls. HIFIVE_OFFLINE=1 forces it on.
func GetOffline() bool {
	if os.Getenv("HIFIVE_OFFLINE") == "1" {
		return true
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.Offline
}

// GetViewport returns the configured viewport, falling back to the defaults
// for any unset dimension.
func GetViewport() (width, height float64) {
	cfg, _ := LoadGlobalConfig()
	width, height = cfg.Viewport.Width, cfg.Viewport.Height
	if width <= 0 {
		width = DefaultViewportWidth
	}
	if height <= 0 {
		height = DefaultViewportHeight
	}
	return width, height
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
