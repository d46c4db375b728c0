package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// DirName is the per-project configuration directory.
const DirName = ".pybridge"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
	file    string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader reading an explicit config file. A missing
// file is an error, unlike the directory search of NewLoader.
func NewFileLoader(path string) Loader {
	return &loader{
		rootDir: filepath.Dir(path),
		file:    path,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (PYBRIDGE_*)
// 2. Config file (.pybridge/config.yml or .pybridge/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.file != "" {
		v.SetConfigFile(l.file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, DirName))
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("PYBRIDGE")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., PYBRIDGE_BRIDGE_FACADE_CLASS)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("bridge.facade_class")
	v.BindEnv("bridge.class_name")
	v.BindEnv("bridge.remote_method")
	v.BindEnv("interfaces.record_markers")
	v.BindEnv("watch.debounce_ms")
	v.BindEnv("watch.include")
	v.BindEnv("check.typescript")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		var notFound viper.ConfigFileNotFoundError
		if l.file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("bridge.facade_class", defaults.Bridge.FacadeClass)
	v.SetDefault("bridge.class_name", defaults.Bridge.ClassName)
	v.SetDefault("bridge.remote_method", defaults.Bridge.RemoteMethod)

	v.SetDefault("interfaces.record_markers", defaults.Interfaces.RecordMarkers)

	v.SetDefault("targets", defaults.Targets)

	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMS)
	v.SetDefault("watch.include", defaults.Watch.Include)

	v.SetDefault("check.typescript", defaults.Check.TypeScript)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
