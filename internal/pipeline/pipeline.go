// Package pipeline drives a single transpile run: load the Python source,
// digest it, render it, optionally check the TypeScript, and write it.
package pipeline

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/maypok86/otter"
	"github.com/mvp-joe/pybridge/internal/pyast"
	"github.com/mvp-joe/pybridge/internal/render"
	"github.com/mvp-joe/pybridge/internal/transpile"
	"github.com/mvp-joe/pybridge/internal/tscheck"
	"go.uber.org/zap"
)

// Destinations that mean "do not write a file".
const (
	StdoutDest = "-"
	NoneDest   = "None"
)

var (
	// ErrSourceNotFound indicates the Python source file does not exist.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrDestDirMissing indicates the destination's directory does not exist.
	ErrDestDirMissing = errors.New("destination directory does not exist")

	// ErrDestNotDir indicates the destination's parent is not a directory.
	ErrDestNotDir = errors.New("destination parent is not a directory")
)

// Options configures a Pipeline.
type Options struct {
	Transpile transpile.Options
	Bridge    render.BridgeOptions
	// CheckTypeScript parses the rendered text before anything is written.
	CheckTypeScript bool
	Logger          *zap.Logger
}

// Result describes one pipeline run.
type Result struct {
	// Text is the full generated text, header included.
	Text string
	// Dest is the file written to, empty when nothing was to be written.
	Dest string
	// Written is true when Dest was (re)written.
	Written bool
	// Unchanged is true when Dest already held Text and was left alone.
	Unchanged   bool
	Diagnostics []transpile.Diagnostic
}

// Pipeline runs the bridge and interface generators.
type Pipeline struct {
	parser     *pyast.Parser
	transpiler *transpile.Transpiler
	bridgeOpts render.BridgeOptions
	checker    *tscheck.Checker
	written    otter.Cache[string, writtenState]
	log        *zap.Logger
}

// New creates a Pipeline. Call Close when done.
func New(opts Options) (*Pipeline, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	opts.Transpile.Logger = log

	cache, err := otter.MustBuilder[string, writtenState](1024).Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create write cache")
	}

	p := &Pipeline{
		parser:     pyast.NewParser(),
		transpiler: transpile.New(opts.Transpile),
		bridgeOpts: opts.Bridge,
		written:    cache,
		log:        log,
	}
	if opts.CheckTypeScript {
		p.checker = tscheck.New()
	}
	return p, nil
}

// Close releases the write cache.
func (p *Pipeline) Close() {
	p.written.Close()
}

// BridgeText digests and renders the bridge for in-memory source.
func (p *Pipeline) BridgeText(ctx context.Context, filename string, source []byte) (string, []transpile.Diagnostic, error) {
	mod, err := p.parser.Parse(ctx, filename, source)
	if err != nil {
		return "", nil, err
	}
	digest, err := p.transpiler.PartitionClasses(mod)
	if err != nil {
		return "", nil, err
	}
	text, err := render.Bridge(digest, p.bridgeOpts)
	if err != nil {
		return "", nil, err
	}
	return text, digest.Diagnostics, nil
}

// InterfacesText extracts and renders the interfaces for in-memory source.
func (p *Pipeline) InterfacesText(ctx context.Context, filename string, source []byte) (string, []transpile.Diagnostic, error) {
	mod, err := p.parser.Parse(ctx, filename, source)
	if err != nil {
		return "", nil, err
	}
	digest, err := p.transpiler.ExtractRecords(mod)
	if err != nil {
		return "", nil, err
	}
	text, err := render.Interfaces(digest)
	if err != nil {
		return "", nil, err
	}
	return text, digest.Diagnostics, nil
}

// TranspileBridge generates the bridge for source. header is either a path
// to a file whose contents are prepended, or literal text to prepend. A dest
// of "-" (or empty) writes nothing; the text is returned either way.
func (p *Pipeline) TranspileBridge(ctx context.Context, source, dest, header string) (*Result, error) {
	headerText, err := ResolveHeader(header)
	if err != nil {
		return nil, err
	}
	return p.bridge(ctx, source, dest, headerText)
}

// TranspileInterfaces generates the interfaces for source. A dest of "None",
// "-" or empty writes nothing; the text is returned either way.
func (p *Pipeline) TranspileInterfaces(ctx context.Context, source, dest string) (*Result, error) {
	dest = normalizeDest(dest)
	if err := checkDest(dest); err != nil {
		return nil, err
	}

	src, err := readSource(source)
	if err != nil {
		return nil, err
	}

	text, diags, err := p.InterfacesText(ctx, source, src)
	if err != nil {
		return nil, err
	}

	return p.finish(ctx, source, dest, text, diags)
}

func (p *Pipeline) bridge(ctx context.Context, source, dest, headerText string) (*Result, error) {
	dest = normalizeDest(dest)
	if err := checkDest(dest); err != nil {
		return nil, err
	}

	src, err := readSource(source)
	if err != nil {
		return nil, err
	}

	text, diags, err := p.BridgeText(ctx, source, src)
	if err != nil {
		return nil, err
	}

	return p.finish(ctx, source, dest, render.NormalizeNewlines(headerText+text), diags)
}

// finish checks the rendered text and writes it when a destination was given.
func (p *Pipeline) finish(ctx context.Context, source, dest, text string, diags []transpile.Diagnostic) (*Result, error) {
	if p.checker != nil {
		name := dest
		if name == "" {
			name = source
		}
		if err := p.checker.Check(ctx, name, text); err != nil {
			return nil, err
		}
	}

	result := &Result{Text: text, Dest: dest, Diagnostics: diags}
	if dest == "" {
		return result, nil
	}

	changed, err := p.write(dest, text)
	if err != nil {
		return nil, err
	}
	result.Written = changed
	result.Unchanged = !changed

	if changed {
		p.log.Info("generated", zap.String("source", source), zap.String("dest", dest))
	} else {
		p.log.Debug("unchanged", zap.String("source", source), zap.String("dest", dest))
	}
	return result, nil
}

// ResolveHeader returns the contents of header when it names an existing
// file, and header itself otherwise.
func ResolveHeader(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	info, err := os.Stat(header)
	if err != nil || !info.Mode().IsRegular() {
		return header, nil
	}
	data, err := os.ReadFile(header)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read header %s", header)
	}
	return string(data), nil
}

func normalizeDest(dest string) string {
	if dest == StdoutDest || dest == NoneDest {
		return ""
	}
	return dest
}

func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(
				errors.Wrapf(ErrSourceNotFound, "%s", path),
				"check the source path; it is resolved relative to the working directory",
			)
		}
		return nil, errors.Wrapf(err, "failed to read source %s", path)
	}
	return data, nil
}
