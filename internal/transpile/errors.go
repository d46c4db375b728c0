package transpile

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mvp-joe/pybridge/internal/pyast"
)

var (
	// ErrSourceSyntax indicates the source text could not be parsed.
	ErrSourceSyntax = pyast.ErrSyntax

	// ErrUnsupportedAnnotation indicates a type annotation with no known rendering.
	ErrUnsupportedAnnotation = errors.New("unsupported annotation shape")

	// ErrUnsupportedDefault indicates a default value with no known rendering.
	ErrUnsupportedDefault = errors.New("unsupported default value shape")

	// ErrMalformedMapping indicates a dict[...] annotation without exactly two arguments.
	ErrMalformedMapping = errors.New("malformed mapping annotation")
)

// ShapeError reports an expression the transpiler refuses to translate.
// It unwraps to its Kind, so errors.Is(err, ErrUnsupportedAnnotation) works.
type ShapeError struct {
	Kind  error
	Owner string // enclosing function or record
	Param string // parameter or field, empty for return annotations
	Node  pyast.Expr
}

func (e *ShapeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Owner != "" {
		fmt.Fprintf(&b, " in %s", e.Owner)
	}
	if e.Param != "" {
		fmt.Fprintf(&b, " (%s)", e.Param)
	}
	if e.Node != nil {
		fmt.Fprintf(&b, " at %s: %s", e.Node.Pos(), describe(e.Node))
	}
	return b.String()
}

func (e *ShapeError) Unwrap() error {
	return e.Kind
}

// describe names the node kind and quotes its source for diagnostics.
func describe(e pyast.Expr) string {
	kind := fmt.Sprintf("%T", e)
	if u, ok := e.(*pyast.Unknown); ok {
		kind = u.Kind
	}
	kind = strings.TrimPrefix(kind, "*pyast.")
	if src := e.Source(); src != "" {
		return fmt.Sprintf("%s `%s`", kind, src)
	}
	return kind
}

func (s Scope) shapeError(kind error, node pyast.Expr) error {
	return errors.WithStack(&ShapeError{Kind: kind, Owner: s.Owner, Param: s.Param, Node: node})
}
