// Package config loads pybridge project configuration.
//
// Configuration lives in .pybridge/config.yml (or config.yaml) under the
// project root. Priority, highest first:
//  1. Environment variables (PYBRIDGE_*, nested keys joined with _)
//  2. Config file
//  3. Built-in defaults
package config

// Config represents the complete pybridge configuration.
type Config struct {
	Bridge     BridgeConfig     `yaml:"bridge" mapstructure:"bridge"`
	Interfaces InterfacesConfig `yaml:"interfaces" mapstructure:"interfaces"`
	Targets    []TargetConfig   `yaml:"targets" mapstructure:"targets"`
	Watch      WatchConfig      `yaml:"watch" mapstructure:"watch"`
	Check      CheckConfig      `yaml:"check" mapstructure:"check"`
}

// BridgeConfig controls bridge stub generation.
type BridgeConfig struct {
	FacadeClass  string `yaml:"facade_class" mapstructure:"facade_class"`   // Python class whose methods become top level methods
	ClassName    string `yaml:"class_name" mapstructure:"class_name"`       // exported TypeScript class name
	RemoteMethod string `yaml:"remote_method" mapstructure:"remote_method"` // Boundary method performing the call
}

// InterfacesConfig controls record interface extraction.
type InterfacesConfig struct {
	RecordMarkers []string `yaml:"record_markers" mapstructure:"record_markers"` // base classes marking a record, e.g. TypedDict
}

// TargetConfig is one generation job run by `pybridge generate`.
// Relative paths are resolved against the project root.
type TargetConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	APISource   string `yaml:"api_source" mapstructure:"api_source"`
	APIDest     string `yaml:"api_dest" mapstructure:"api_dest"`
	TypesSource string `yaml:"types_source" mapstructure:"types_source"`
	TypesDest   string `yaml:"types_dest" mapstructure:"types_dest"`
	Header      string `yaml:"header" mapstructure:"header"` // path to a header file, or literal header text
}

// WatchConfig controls `generate --watch`.
type WatchConfig struct {
	DebounceMS int      `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period before regenerating
	Include    []string `yaml:"include" mapstructure:"include"`         // glob patterns of files that trigger regeneration
}

// CheckConfig controls post-render checks.
type CheckConfig struct {
	TypeScript bool `yaml:"typescript" mapstructure:"typescript"` // parse output with tree-sitter-typescript before writing
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{
			FacadeClass:  "API",
			ClassName:    "APIBridge",
			RemoteMethod: "remote",
		},
		Interfaces: InterfacesConfig{
			RecordMarkers: []string{"TypedDict"},
		},
		Targets: []TargetConfig{},
		Watch: WatchConfig{
			DebounceMS: 500,
			Include:    []string{"**/*.py"},
		},
		Check: CheckConfig{
			TypeScript: false,
		},
	}
}

// Target looks up a target by name.
func (c *Config) Target(name string) (TargetConfig, bool) {
	for _, t := range c.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return TargetConfig{}, false
}
