package config

import (
	"path/filepath"
	"time"

	"github.com/mvp-joe/pybridge/internal/pipeline"
	"github.com/mvp-joe/pybridge/internal/render"
	"github.com/mvp-joe/pybridge/internal/transpile"
	"go.uber.org/zap"
)

// ToPipelineOptions converts config into pipeline options.
func (c *Config) ToPipelineOptions(log *zap.Logger) pipeline.Options {
	return pipeline.Options{
		Transpile: transpile.Options{
			FacadeClass:   c.Bridge.FacadeClass,
			RecordMarkers: c.Interfaces.RecordMarkers,
		},
		Bridge: render.BridgeOptions{
			ClassName:    c.Bridge.ClassName,
			RemoteMethod: c.Bridge.RemoteMethod,
		},
		CheckTypeScript: c.Check.TypeScript,
		Logger:          log,
	}
}

// PipelineTargets converts the configured targets, resolving relative paths
// against rootDir. A header that names an existing file relative to rootDir
// is resolved too; anything else is kept as literal text.
func (c *Config) PipelineTargets(rootDir string) []pipeline.Target {
	targets := make([]pipeline.Target, 0, len(c.Targets))
	for _, t := range c.Targets {
		targets = append(targets, pipeline.Target{
			Name:        t.Name,
			APISource:   resolvePath(rootDir, t.APISource),
			APIDest:     resolveDest(rootDir, t.APIDest),
			TypesSource: resolvePath(rootDir, t.TypesSource),
			TypesDest:   resolveDest(rootDir, t.TypesDest),
			Header:      resolveHeader(rootDir, t.Header),
		})
	}
	return targets
}

// Debounce returns the watch debounce as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

func resolvePath(rootDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rootDir, path)
}

func resolveDest(rootDir, dest string) string {
	if dest == pipeline.StdoutDest || dest == pipeline.NoneDest {
		return dest
	}
	return resolvePath(rootDir, dest)
}

func resolveHeader(rootDir, header string) string {
	if header == "" || filepath.IsAbs(header) {
		return header
	}
	candidate := filepath.Join(rootDir, header)
	if isRegularFile(candidate) {
		return candidate
	}
	return header
}
