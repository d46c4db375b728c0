package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mvp-joe/pybridge/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - Load uses defaults when no config file exists
// - Load reads .pybridge/config.yml and .pybridge/config.yaml
// - Load merges a partial config file with defaults
// - NewFileLoader reads an explicit file and fails when it is missing
// - Environment variables override config file values and defaults
// - Load returns errors for malformed YAML and invalid values
// - Validate() rejects empty facade/class/remote names
// - Validate() rejects empty record markers
// - Validate() rejects nameless, duplicate, sourceless and half-configured targets
// - Validate() rejects non-positive debounce and bad include globs
// - Validate() returns multiple errors for multiple invalid fields
// - ToPipelineOptions() and PipelineTargets() carry values and resolve paths

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	configDir := filepath.Join(dir, DirName)
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, name), []byte(content), 0644))
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "API", cfg.Bridge.FacadeClass)
	assert.Equal(t, "APIBridge", cfg.Bridge.ClassName)
	assert.Equal(t, "remote", cfg.Bridge.RemoteMethod)
	assert.Equal(t, []string{"TypedDict"}, cfg.Interfaces.RecordMarkers)
	assert.Empty(t, cfg.Targets)
	assert.Equal(t, 500, cfg.Watch.DebounceMS)
	assert.Equal(t, []string{"**/*.py"}, cfg.Watch.Include)
	assert.False(t, cfg.Check.TypeScript)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	expected := Default()
	assert.Equal(t, expected.Bridge, cfg.Bridge)
	assert.Equal(t, expected.Interfaces.RecordMarkers, cfg.Interfaces.RecordMarkers)
	assert.Equal(t, expected.Watch.DebounceMS, cfg.Watch.DebounceMS)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
bridge:
  facade_class: Facade
  class_name: Backend
  remote_method: call

interfaces:
  record_markers: [TypedDict, Record]

targets:
  - name: app
    api_source: api.py
    api_dest: web/src/api.ts
    types_source: types.py
    types_dest: web/src/types.ts
    header: header.ts

watch:
  debounce_ms: 250
  include: ["src/**/*.py"]

check:
  typescript: true
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "Facade", cfg.Bridge.FacadeClass)
	assert.Equal(t, "Backend", cfg.Bridge.ClassName)
	assert.Equal(t, "call", cfg.Bridge.RemoteMethod)
	assert.Equal(t, []string{"TypedDict", "Record"}, cfg.Interfaces.RecordMarkers)
	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, TargetConfig{
		Name:        "app",
		APISource:   "api.py",
		APIDest:     "web/src/api.ts",
		TypesSource: "types.py",
		TypesDest:   "web/src/types.ts",
		Header:      "header.ts",
	}, cfg.Targets[0])
	assert.Equal(t, 250, cfg.Watch.DebounceMS)
	assert.Equal(t, []string{"src/**/*.py"}, cfg.Watch.Include)
	assert.True(t, cfg.Check.TypeScript)

	target, ok := cfg.Target("app")
	assert.True(t, ok)
	assert.Equal(t, "api.py", target.APISource)
	_, ok = cfg.Target("missing")
	assert.False(t, ok)
}

func TestLoadConfig_LoadsFromConfigYaml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yaml", `
bridge:
  class_name: Backend
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)
	assert.Equal(t, "Backend", cfg.Bridge.ClassName)
}

func TestLoadConfig_MergesConfigWithDefaults(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
watch:
  debounce_ms: 1000
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Watch.DebounceMS)
	assert.Equal(t, []string{"**/*.py"}, cfg.Watch.Include)
	assert.Equal(t, "API", cfg.Bridge.FacadeClass)
	assert.Equal(t, []string{"TypedDict"}, cfg.Interfaces.RecordMarkers)
}

func TestNewFileLoader(t *testing.T) {
	t.Parallel()

	t.Run("reads explicit file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "pybridge.yml")
		require.NoError(t, os.WriteFile(path, []byte("bridge:\n  facade_class: Root\n"), 0644))

		cfg, err := NewFileLoader(path).Load()
		require.NoError(t, err)
		assert.Equal(t, "Root", cfg.Bridge.FacadeClass)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewFileLoader(filepath.Join(t.TempDir(), "nope.yml")).Load()
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})
}

func TestLoadConfig_EnvironmentVariablesOverrideConfigFile(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
bridge:
  facade_class: Facade
  class_name: Backend
`)

	t.Setenv("PYBRIDGE_BRIDGE_FACADE_CLASS", "EnvFacade")
	t.Setenv("PYBRIDGE_CHECK_TYPESCRIPT", "true")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "EnvFacade", cfg.Bridge.FacadeClass)
	assert.Equal(t, "Backend", cfg.Bridge.ClassName)
	assert.True(t, cfg.Check.TypeScript)
}

func TestLoadConfig_EnvironmentVariablesOverrideDefaults(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()
	t.Setenv("PYBRIDGE_WATCH_DEBOUNCE_MS", "75")
	t.Setenv("PYBRIDGE_BRIDGE_REMOTE_METHOD", "invoke")

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, 75, cfg.Watch.DebounceMS)
	assert.Equal(t, "invoke", cfg.Bridge.RemoteMethod)
}

func TestLoadConfig_ReturnsErrorForMalformedYaml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
bridge:
  facade_class: "unclosed quote
  class_name: [
`)

	cfg, err := NewLoader(tempDir).Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_ReturnsErrorForInvalidValues(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
watch:
  debounce_ms: -5
`)

	cfg, err := NewLoader(tempDir).Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidDebounce)
	assert.Contains(t, err.Error(), "invalid")
}

func TestValidate_RejectsEmptyBridgeNames(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Bridge.FacadeClass = ""
	assert.ErrorIs(t, Validate(cfg), ErrEmptyFacade)

	cfg = Default()
	cfg.Bridge.ClassName = "  "
	assert.ErrorIs(t, Validate(cfg), ErrEmptyFacade)

	cfg = Default()
	cfg.Bridge.RemoteMethod = ""
	assert.ErrorIs(t, Validate(cfg), ErrEmptyFacade)
}

func TestValidate_RejectsEmptyMarkers(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Interfaces.RecordMarkers = nil
	assert.ErrorIs(t, Validate(cfg), ErrEmptyMarkers)
}

func TestValidate_RejectsInvalidTargets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		targets []TargetConfig
	}{
		{"no name", []TargetConfig{{APISource: "api.py"}}},
		{"duplicate name", []TargetConfig{{Name: "a", APISource: "api.py"}, {Name: "a", TypesSource: "t.py"}}},
		{"no source", []TargetConfig{{Name: "a"}}},
		{"api dest without source", []TargetConfig{{Name: "a", TypesSource: "t.py", APIDest: "api.ts"}}},
		{"types dest without source", []TargetConfig{{Name: "a", APISource: "api.py", TypesDest: "t.ts"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			cfg.Targets = tt.targets
			assert.ErrorIs(t, Validate(cfg), ErrInvalidTarget)
		})
	}
}

func TestValidate_RejectsInvalidWatch(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Watch.DebounceMS = 0
	assert.ErrorIs(t, Validate(cfg), ErrInvalidDebounce)

	cfg = Default()
	cfg.Watch.Include = []string{"[abc"}
	assert.ErrorIs(t, Validate(cfg), ErrInvalidGlob)
}

func TestValidate_ReturnsMultipleErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Bridge.FacadeClass = ""
	cfg.Interfaces.RecordMarkers = []string{}
	cfg.Watch.DebounceMS = -1

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.ErrorIs(t, err, ErrEmptyFacade)
	assert.ErrorIs(t, err, ErrEmptyMarkers)
	assert.ErrorIs(t, err, ErrInvalidDebounce)
}

func TestToPipelineOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Bridge.FacadeClass = "Facade"
	cfg.Bridge.ClassName = "Backend"
	cfg.Check.TypeScript = true
	log := zap.NewNop()

	opts := cfg.ToPipelineOptions(log)
	assert.Equal(t, "Facade", opts.Transpile.FacadeClass)
	assert.Equal(t, []string{"TypedDict"}, opts.Transpile.RecordMarkers)
	assert.Equal(t, "Backend", opts.Bridge.ClassName)
	assert.Equal(t, "remote", opts.Bridge.RemoteMethod)
	assert.True(t, opts.CheckTypeScript)
	assert.Same(t, log, opts.Logger)

	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce())
}

func TestPipelineTargets_ResolvesPaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "header.ts"), []byte("// header\n"), 0644))

	cfg := Default()
	cfg.Targets = []TargetConfig{
		{
			Name:        "app",
			APISource:   "api.py",
			APIDest:     "-",
			TypesSource: "/abs/types.py",
			TypesDest:   "out/types.ts",
			Header:      "header.ts",
		},
		{
			Name:      "inline",
			APISource: "api.py",
			APIDest:   "None",
			Header:    "import x from 'y'\n",
		},
	}

	targets := cfg.PipelineTargets(root)
	require.Len(t, targets, 2)

	assert.Equal(t, pipeline.Target{
		Name:        "app",
		APISource:   filepath.Join(root, "api.py"),
		APIDest:     pipeline.StdoutDest,
		TypesSource: "/abs/types.py",
		TypesDest:   filepath.Join(root, "out/types.ts"),
		Header:      filepath.Join(root, "header.ts"),
	}, targets[0])

	assert.Equal(t, pipeline.NoneDest, targets[1].APIDest)
	assert.Equal(t, "import x from 'y'\n", targets[1].Header)
}
