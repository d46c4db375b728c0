package transpile

import (
	"fmt"

	"github.com/mvp-joe/pybridge/internal/pyast"
)

// ResolveAnnotation maps one annotation expression to a TypeScript type token.
//
// Handled shapes, in order: bare names (and dotted names, by their last
// part), two-member unions `A | B`, Optional[T], list[T], and dict[K, V].
// A nil annotation resolves to "any" and is reported to diags. Every other
// shape is a fatal *ShapeError.
func ResolveAnnotation(e pyast.Expr, scope Scope, diags *Diagnostics) (string, error) {
	switch n := e.(type) {
	case nil:
		diags.Warn(scope, fmt.Sprintf("missing type annotation on %s, using %s", scope.Param, TokenAny))
		return TokenAny, nil

	case *pyast.Name:
		return MapTypeToken(n.ID), nil

	case *pyast.Attribute:
		return MapTypeToken(n.Attr), nil

	case *pyast.Constant:
		if n.Kind == pyast.ConstNone {
			return TokenUndefined, nil
		}

	case *pyast.BinOp:
		if n.Op == "|" {
			return resolveUnion(n, scope, diags)
		}

	case *pyast.Subscript:
		switch wrapperName(n.Value) {
		case "Optional":
			inner, err := resolveNested(n.Slice, scope, diags)
			if err != nil {
				return "", err
			}
			return inner + " | " + TokenUndefined, nil

		case "list", "List":
			inner, err := resolveNested(n.Slice, scope, diags)
			if err != nil {
				return "", err
			}
			return inner + "[]", nil

		case "dict", "Dict":
			return resolveMapping(n, scope, diags)
		}
	}

	return "", scope.shapeError(ErrUnsupportedAnnotation, e)
}

// resolveNested resolves an expression inside another annotation. A nested
// nil can only come from a broken tree, so it is an error rather than "any".
func resolveNested(e pyast.Expr, scope Scope, diags *Diagnostics) (string, error) {
	if e == nil {
		return "", scope.shapeError(ErrUnsupportedAnnotation, nil)
	}
	return ResolveAnnotation(e, scope, diags)
}

// resolveUnion renders `left | right`. A None on the right renders as
// undefined without recursing.
func resolveUnion(n *pyast.BinOp, scope Scope, diags *Diagnostics) (string, error) {
	left, err := resolveNested(n.Left, scope, diags)
	if err != nil {
		return "", err
	}

	right := TokenUndefined
	if !pyast.IsNone(n.Right) {
		right, err = resolveNested(n.Right, scope, diags)
		if err != nil {
			return "", err
		}
	}

	return left + " | " + right, nil
}

// resolveMapping renders dict[K, V] as an index signature object type.
func resolveMapping(n *pyast.Subscript, scope Scope, diags *Diagnostics) (string, error) {
	tuple, ok := n.Slice.(*pyast.Tuple)
	if !ok || len(tuple.Elts) != 2 {
		return "", scope.shapeError(ErrMalformedMapping, n)
	}

	key, err := resolveNested(tuple.Elts[0], scope, diags)
	if err != nil {
		return "", err
	}
	value, err := resolveNested(tuple.Elts[1], scope, diags)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("{[key:%s]: %s}", key, value), nil
}

// resolveReturn resolves a return annotation. No annotation, or `-> None`,
// means there is no return type.
func resolveReturn(e pyast.Expr, scope Scope, diags *Diagnostics) (Optional[string], error) {
	if e == nil || pyast.IsNone(e) {
		return None[string](), nil
	}
	token, err := ResolveAnnotation(e, scope, diags)
	if err != nil {
		return None[string](), err
	}
	return Some(token), nil
}

// wrapperName returns the name of a subscripted type: `list` for list[T] and
// `Optional` for typing.Optional[T].
func wrapperName(e pyast.Expr) string {
	switch n := e.(type) {
	case *pyast.Name:
		return n.ID
	case *pyast.Attribute:
		return n.Attr
	}
	return ""
}
