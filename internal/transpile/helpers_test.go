package transpile

import (
	"context"
	"testing"

	"github.com/mvp-joe/pybridge/internal/pyast"
	"github.com/stretchr/testify/require"
)

func parseModule(t *testing.T, src string) *pyast.Module {
	t.Helper()
	mod, err := pyast.NewParser().Parse(context.Background(), "test.py", []byte(src))
	require.NoError(t, err)
	return mod
}

// compileSingle compiles the only module level function in src.
func compileSingle(t *testing.T, src string) (CompiledFunction, *Diagnostics, error) {
	t.Helper()
	mod := parseModule(t, src)
	for _, s := range mod.Body {
		if fn, ok := s.(*pyast.FunctionDef); ok {
			diags := NewDiagnostics(nil)
			compiled, err := CompileFunction(fn, false, diags)
			return compiled, diags, err
		}
	}
	t.Fatal("no function in source")
	return CompiledFunction{}, nil, nil
}

func mustCompile(t *testing.T, src string) CompiledFunction {
	t.Helper()
	compiled, _, err := compileSingle(t, src)
	require.NoError(t, err)
	return compiled
}
