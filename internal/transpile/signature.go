package transpile

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/mvp-joe/pybridge/internal/pyast"
)

// CompileFunction digests one function declaration. When receiver is true
// the first parameter (self/cls) is dropped whatever its name.
func CompileFunction(fn *pyast.FunctionDef, receiver bool, diags *Diagnostics) (CompiledFunction, error) {
	compiled := CompiledFunction{
		Name:     fn.Name,
		Compiled: []string{},
		ArgNames: []string{},
	}

	names := make([]string, len(fn.Args.Args))
	for i, arg := range fn.Args.Args {
		names[i] = arg.Name
	}
	defaults := alignDefaults(names, fn.Args.Defaults)

	args := fn.Args.Args
	if receiver && len(args) > 0 {
		args = args[1:]
		defaults = defaults[1:]
	}

	for i, arg := range args {
		scope := Scope{Owner: fn.Name, Param: arg.Name, Pos: arg.Pos()}

		typ, err := ResolveAnnotation(arg.Annotation, scope, diags)
		if err != nil {
			return CompiledFunction{}, err
		}

		decl := arg.Name + ":" + typ
		if defaults[i] != nil {
			value, err := RenderDefault(defaults[i], scope, diags)
			if err != nil {
				return CompiledFunction{}, err
			}
			if v, ok := value.Get(); ok {
				decl += " = " + v
			}
		}

		compiled.Compiled = append(compiled.Compiled, decl)
		compiled.ArgNames = append(compiled.ArgNames, arg.Name)
	}

	if doc, ok := fn.Docstring(); ok {
		compiled.Doc = Some(doc)
	}

	ret, err := resolveReturn(fn.Returns, Scope{Owner: fn.Name, Pos: fn.Pos()}, diags)
	if err != nil {
		return CompiledFunction{}, errors.Wrap(err, "return annotation")
	}
	compiled.ReturnType = ret

	return compiled, nil
}

// alignDefaults pairs default expressions with parameter names. Defaults can
// only trail, so the pairing runs from the end: both lists are reversed,
// zipped, and the result reversed back. Entries without a default are nil.
func alignDefaults(names []string, defaults []pyast.Expr) []pyast.Expr {
	reversedNames := slices.Clone(names)
	slices.Reverse(reversedNames)
	reversedDefaults := slices.Clone(defaults)
	slices.Reverse(reversedDefaults)

	paired := make([]pyast.Expr, len(reversedNames))
	for i := range reversedNames {
		if i < len(reversedDefaults) {
			paired[i] = reversedDefaults[i]
		}
	}

	slices.Reverse(paired)
	return paired
}
