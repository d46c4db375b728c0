package transpile

import (
	"github.com/mvp-joe/pybridge/internal/pyast"
)

// RenderDefault converts a default value expression to the text emitted
// after `=` in a parameter declaration.
//
// Strings are emitted without their quotes and booleans keep the Python
// spelling (True/False); generated bridges have always looked like this and
// the front end depends on it. A default of None, or of the string "None",
// means no default was really supplied and yields an absent result.
func RenderDefault(e pyast.Expr, scope Scope, diags *Diagnostics) (Optional[string], error) {
	var value string

	switch n := e.(type) {
	case *pyast.Constant:
		switch n.Kind {
		case pyast.ConstNone:
			return None[string](), nil
		case pyast.ConstBool, pyast.ConstInt, pyast.ConstFloat, pyast.ConstString:
			value = n.Value
		default:
			return None[string](), scope.shapeError(ErrUnsupportedDefault, e)
		}

	case *pyast.UnaryOp:
		operand, ok := n.Operand.(*pyast.Constant)
		if !ok || (operand.Kind != pyast.ConstInt && operand.Kind != pyast.ConstFloat) {
			return None[string](), scope.shapeError(ErrUnsupportedDefault, e)
		}
		if n.Op != "-" && n.Op != "+" {
			return None[string](), scope.shapeError(ErrUnsupportedDefault, e)
		}
		value = n.Op + operand.Value

	case *pyast.BinOp:
		if n.Op != "|" {
			return None[string](), scope.shapeError(ErrUnsupportedDefault, e)
		}
		union, err := resolveUnion(n, scope, diags)
		if err != nil {
			return None[string](), err
		}
		value = union

	default:
		return None[string](), scope.shapeError(ErrUnsupportedDefault, e)
	}

	if value == "None" {
		return None[string](), nil
	}
	return Some(value), nil
}
