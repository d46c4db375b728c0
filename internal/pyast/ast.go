// Package pyast converts Python source into a small declaration tree.
//
// Only the shapes the bridge and interface generators look at are modelled:
// top-level classes, functions and assignments, and the annotation/default
// expressions hanging off them. Every expression is one of a closed set of
// node kinds; anything outside that set is kept as an *Unknown so consumers
// can fail loudly on it instead of guessing.
package pyast

import "fmt"

// Pos is a 1-based position in the source text.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Expr is an expression node.
type Expr interface {
	// Pos returns where the expression starts.
	Pos() Pos
	// Source returns the exact source text of the expression.
	Source() string
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Pos() Pos
	stmtNode()
}

type base struct {
	pos  Pos
	text string
}

func (b base) Pos() Pos        { return b.pos }
func (b base) Source() string { return b.text }

// Name is a bare identifier such as `str` or `Song`.
type Name struct {
	base
	ID string
}

// Attribute is dotted member access such as `typing.Optional`.
type Attribute struct {
	base
	Value Expr
	Attr  string
}

// Subscript is a parametrized expression such as `list[str]`.
// Slice is a *Tuple when more than one argument was given.
type Subscript struct {
	base
	Value Expr
	Slice Expr
}

// Tuple is a comma separated sequence of expressions.
type Tuple struct {
	base
	Elts []Expr
}

// BinOp is a binary operation. Op holds the operator token, e.g. "|".
type BinOp struct {
	base
	Left  Expr
	Op    string
	Right Expr
}

// UnaryOp is a prefix operation. Op holds the operator token, e.g. "-".
type UnaryOp struct {
	base
	Op      string
	Operand Expr
}

// ConstKind identifies the literal type of a Constant.
type ConstKind int

const (
	ConstNone ConstKind = iota
	ConstBool
	ConstInt
	ConstFloat
	ConstString
)

func (k ConstKind) String() string {
	switch k {
	case ConstNone:
		return "none"
	case ConstBool:
		return "bool"
	case ConstInt:
		return "int"
	case ConstFloat:
		return "float"
	case ConstString:
		return "string"
	}
	return "unknown"
}

// Constant is a literal. Value holds the Python str() of the literal:
// "None", "True"/"False", decimal digits for integers, the literal text for
// floats and the decoded contents (no quotes) for strings.
type Constant struct {
	base
	Kind  ConstKind
	Value string
}

// Unknown is any expression shape not modelled above. Kind is the
// tree-sitter node kind it came from.
type Unknown struct {
	base
	Kind string
}

func (*Name) exprNode()      {}
func (*Attribute) exprNode() {}
func (*Subscript) exprNode() {}
func (*Tuple) exprNode()     {}
func (*BinOp) exprNode()     {}
func (*UnaryOp) exprNode()   {}
func (*Constant) exprNode()  {}
func (*Unknown) exprNode()   {}

// IsNone reports whether e is the literal None.
func IsNone(e Expr) bool {
	c, ok := e.(*Constant)
	return ok && c.Kind == ConstNone
}

// Module is a parsed source file.
type Module struct {
	Filename string
	Body     []Stmt
}

// ClassDef is a class statement.
type ClassDef struct {
	pos       Pos
	Name      string
	Bases     []Expr
	Body      []Stmt
	Decorated bool
}

// Arg is one positional parameter.
type Arg struct {
	pos        Pos
	Name       string
	Annotation Expr // nil when unannotated
}

// Pos returns where the parameter starts.
func (a Arg) Pos() Pos { return a.pos }

// Arguments holds the positional parameters of a function. Defaults has one
// entry per parameter that declared a default, in order; because Python only
// allows defaults on a trailing run of parameters they belong to the last
// len(Defaults) entries of Args.
type Arguments struct {
	Args     []Arg
	Defaults []Expr
}

// FunctionDef is a def statement.
type FunctionDef struct {
	pos       Pos
	Name      string
	Async     bool
	Decorated bool
	Args      Arguments
	Returns   Expr // nil when there is no return annotation
	Body      []Stmt
}

// Assign is `target = value`, possibly chained (`a = b = value`).
type Assign struct {
	pos     Pos
	Targets []Expr
	Value   Expr
}

// AnnAssign is `target: annotation` with an optional value.
type AnnAssign struct {
	pos        Pos
	Target     Expr
	Annotation Expr
	Value      Expr // nil when no value was assigned
}

// ExprStmt is a bare expression used as a statement, e.g. a docstring.
type ExprStmt struct {
	pos   Pos
	Value Expr
}

// OtherStmt is any statement not modelled above (imports, if, pass...).
type OtherStmt struct {
	pos  Pos
	Kind string
}

func (s *ClassDef) Pos() Pos    { return s.pos }
func (s *FunctionDef) Pos() Pos { return s.pos }
func (s *Assign) Pos() Pos      { return s.pos }
func (s *AnnAssign) Pos() Pos   { return s.pos }
func (s *ExprStmt) Pos() Pos    { return s.pos }
func (s *OtherStmt) Pos() Pos   { return s.pos }

func (*ClassDef) stmtNode()    {}
func (*FunctionDef) stmtNode() {}
func (*Assign) stmtNode()      {}
func (*AnnAssign) stmtNode()   {}
func (*ExprStmt) stmtNode()    {}
func (*OtherStmt) stmtNode()   {}

// Docstring returns the cleaned docstring of the function, if it has one.
func (f *FunctionDef) Docstring() (string, bool) {
	return docstring(f.Body)
}

// Docstring returns the cleaned docstring of the class, if it has one.
func (c *ClassDef) Docstring() (string, bool) {
	return docstring(c.Body)
}
