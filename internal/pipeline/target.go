package pipeline

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Target is one configured generation job: an interface module whose
// output is both written and prepended to the bridge generated from an API
// module.
type Target struct {
	Name        string
	APISource   string
	APIDest     string
	TypesSource string
	TypesDest   string
	Header      string
}

// TargetResult holds the results of the two halves of a target. Either may
// be nil when the target does not configure that half.
type TargetResult struct {
	Interfaces *Result
	Bridge     *Result
}

// Sources lists the Python files the target reads.
func (t Target) Sources() []string {
	var sources []string
	if t.TypesSource != "" {
		sources = append(sources, t.TypesSource)
	}
	if t.APISource != "" {
		sources = append(sources, t.APISource)
	}
	return sources
}

// RunTarget generates the interfaces first, then the bridge with the
// configured header and the interface text prepended.
func (p *Pipeline) RunTarget(ctx context.Context, t Target) (*TargetResult, error) {
	result := &TargetResult{}

	header, err := ResolveHeader(t.Header)
	if err != nil {
		return nil, errors.Wrapf(err, "target %s", t.Name)
	}

	if t.TypesSource != "" {
		result.Interfaces, err = p.TranspileInterfaces(ctx, t.TypesSource, t.TypesDest)
		if err != nil {
			return nil, errors.Wrapf(err, "target %s: interfaces", t.Name)
		}
		header += result.Interfaces.Text
	}

	if t.APISource != "" {
		result.Bridge, err = p.bridge(ctx, t.APISource, t.APIDest, header)
		if err != nil {
			return nil, errors.Wrapf(err, "target %s: bridge", t.Name)
		}
	}

	return result, nil
}
