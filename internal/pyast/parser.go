package pyast

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// ErrSyntax is returned when the source text is not valid Python.
var ErrSyntax = errors.New("python syntax error")

// Parser turns Python source into a Module using tree-sitter.
// A Parser is safe for concurrent use; each call gets its own tree-sitter parser.
type Parser struct {
	language *sitter.Language
}

// NewParser creates a new Python parser.
func NewParser() *Parser {
	return &Parser{
		language: sitter.NewLanguage(python.Language()),
	}
}

// ParseFile reads and parses a Python source file.
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*Module, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, filePath, source)
}

// Parse parses source. filename is only used in diagnostics.
func (p *Parser) Parse(ctx context.Context, filename string, source []byte) (*Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, errors.Wrap(err, "failed to load python grammar")
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, errors.Wrapf(ErrSyntax, "failed to parse %s", filename)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(filename, root, source)
	}

	c := &converter{source: source}
	return &Module{
		Filename: filename,
		Body:     c.block(root),
	}, nil
}

// syntaxError locates the first ERROR or MISSING node below root.
func syntaxError(filename string, root *sitter.Node, source []byte) error {
	var bad *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if bad != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			bad = n
			return false
		}
		return n.HasError()
	})

	if bad == nil {
		return errors.Wrapf(ErrSyntax, "%s", filename)
	}

	pos := position(bad)
	if bad.IsMissing() {
		return errors.Wrapf(ErrSyntax, "%s:%s: missing %q", filename, pos, bad.Kind())
	}
	return errors.WithDetailf(
		errors.Wrapf(ErrSyntax, "%s:%s: unexpected input", filename, pos),
		"near: %s", firstLine(nodeText(bad, source)),
	)
}

// converter maps tree-sitter nodes onto the pyast node set.
type converter struct {
	source []byte
}

func (c *converter) base(n *sitter.Node) base {
	return base{pos: position(n), text: nodeText(n, c.source)}
}

// block converts the statement children of a module or block node.
func (c *converter) block(n *sitter.Node) []Stmt {
	var stmts []Stmt
	for _, child := range namedChildren(n) {
		if stmt := c.stmt(child); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (c *converter) stmt(n *sitter.Node) Stmt {
	switch n.Kind() {
	case "comment":
		return nil
	case "class_definition":
		return c.classDef(n)
	case "function_definition":
		return c.functionDef(n)
	case "decorated_definition":
		def := n.ChildByFieldName("definition")
		if def == nil {
			return &OtherStmt{pos: position(n), Kind: n.Kind()}
		}
		switch s := c.stmt(def).(type) {
		case *ClassDef:
			s.Decorated = true
			return s
		case *FunctionDef:
			s.Decorated = true
			return s
		default:
			return s
		}
	case "expression_statement":
		return c.expressionStatement(n)
	}
	return &OtherStmt{pos: position(n), Kind: n.Kind()}
}

func (c *converter) classDef(n *sitter.Node) *ClassDef {
	cls := &ClassDef{
		pos:  position(n),
		Name: nodeText(n.ChildByFieldName("name"), c.source),
	}

	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		for _, arg := range namedChildren(supers) {
			// keyword arguments such as total=False or metaclass=... are not bases
			if arg.Kind() == "keyword_argument" || arg.Kind() == "comment" {
				continue
			}
			cls.Bases = append(cls.Bases, c.expr(arg))
		}
	}

	if body := n.ChildByFieldName("body"); body != nil {
		cls.Body = c.block(body)
	}
	return cls
}

func (c *converter) functionDef(n *sitter.Node) *FunctionDef {
	fn := &FunctionDef{
		pos:  position(n),
		Name: nodeText(n.ChildByFieldName("name"), c.source),
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(uint(i)).Kind() == "async" {
			fn.Async = true
			break
		}
	}

	if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Args = c.arguments(params)
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = c.expr(ret)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		fn.Body = c.block(body)
	}
	return fn
}

// arguments collects the positional parameters. Everything from `*` or
// `*args` onwards is keyword-only or variadic and is left out, along with
// `**kwargs`.
func (c *converter) arguments(n *sitter.Node) Arguments {
	var args Arguments
	for _, p := range namedChildren(n) {
		switch p.Kind() {
		case "identifier":
			args.Args = append(args.Args, Arg{pos: position(p), Name: nodeText(p, c.source)})

		case "typed_parameter":
			first := firstNamedChild(p)
			if first == nil || first.Kind() != "identifier" {
				// *args: T or **kwargs: T
				if first != nil && first.Kind() == "list_splat_pattern" {
					return args
				}
				continue
			}
			args.Args = append(args.Args, Arg{
				pos:        position(p),
				Name:       nodeText(first, c.source),
				Annotation: c.optionalExpr(p.ChildByFieldName("type")),
			})

		case "default_parameter", "typed_default_parameter":
			name := p.ChildByFieldName("name")
			if name == nil || name.Kind() != "identifier" {
				continue
			}
			args.Args = append(args.Args, Arg{
				pos:        position(p),
				Name:       nodeText(name, c.source),
				Annotation: c.optionalExpr(p.ChildByFieldName("type")),
			})
			args.Defaults = append(args.Defaults, c.optionalExpr(p.ChildByFieldName("value")))

		case "list_splat_pattern", "keyword_separator":
			return args
		}
	}
	return args
}

func (c *converter) expressionStatement(n *sitter.Node) Stmt {
	inner := firstNamedChild(n)
	if inner == nil {
		return &OtherStmt{pos: position(n), Kind: n.Kind()}
	}
	if inner.Kind() != "assignment" {
		return &ExprStmt{pos: position(n), Value: c.expr(inner)}
	}

	if typ := inner.ChildByFieldName("type"); typ != nil {
		return &AnnAssign{
			pos:        position(inner),
			Target:     c.expr(inner.ChildByFieldName("left")),
			Annotation: c.expr(typ),
			Value:      c.optionalExpr(inner.ChildByFieldName("right")),
		}
	}

	assign := &Assign{pos: position(inner)}
	cur := inner
	for cur != nil && cur.Kind() == "assignment" {
		assign.Targets = append(assign.Targets, c.expr(cur.ChildByFieldName("left")))
		right := cur.ChildByFieldName("right")
		if right == nil {
			break
		}
		if right.Kind() != "assignment" {
			assign.Value = c.expr(right)
			break
		}
		cur = right
	}
	return assign
}

func (c *converter) optionalExpr(n *sitter.Node) Expr {
	if n == nil {
		return nil
	}
	return c.expr(n)
}

// expr converts an expression or type node.
func (c *converter) expr(n *sitter.Node) Expr {
	if n == nil {
		return &Unknown{Kind: "missing"}
	}

	switch n.Kind() {
	case "identifier":
		return &Name{base: c.base(n), ID: nodeText(n, c.source)}

	case "type", "parenthesized_expression":
		if inner := firstNamedChild(n); inner != nil {
			return c.expr(inner)
		}

	case "attribute":
		return &Attribute{
			base:  c.base(n),
			Value: c.expr(n.ChildByFieldName("object")),
			Attr:  nodeText(n.ChildByFieldName("attribute"), c.source),
		}

	case "member_type":
		kids := namedChildren(n)
		if len(kids) == 2 {
			return &Attribute{
				base:  c.base(n),
				Value: c.expr(kids[0]),
				Attr:  nodeText(kids[1], c.source),
			}
		}

	case "subscript":
		value := n.ChildByFieldName("value")
		var params []*sitter.Node
		for _, kid := range namedChildren(n) {
			if value != nil && kid.StartByte() == value.StartByte() && kid.EndByte() == value.EndByte() {
				continue
			}
			params = append(params, kid)
		}
		return &Subscript{base: c.base(n), Value: c.expr(value), Slice: c.slice(n, params)}

	case "generic_type":
		kids := namedChildren(n)
		if len(kids) == 2 && kids[1].Kind() == "type_parameter" {
			return &Subscript{
				base:  c.base(n),
				Value: c.expr(kids[0]),
				Slice: c.slice(kids[1], namedChildren(kids[1])),
			}
		}

	case "union_type":
		kids := namedChildren(n)
		if len(kids) == 2 {
			return &BinOp{base: c.base(n), Left: c.expr(kids[0]), Op: "|", Right: c.expr(kids[1])}
		}

	case "binary_operator":
		return &BinOp{
			base:  c.base(n),
			Left:  c.expr(n.ChildByFieldName("left")),
			Op:    nodeText(n.ChildByFieldName("operator"), c.source),
			Right: c.expr(n.ChildByFieldName("right")),
		}

	case "unary_operator":
		return &UnaryOp{
			base:    c.base(n),
			Op:      nodeText(n.ChildByFieldName("operator"), c.source),
			Operand: c.expr(n.ChildByFieldName("argument")),
		}

	case "tuple", "expression_list":
		t := &Tuple{base: c.base(n)}
		for _, kid := range namedChildren(n) {
			t.Elts = append(t.Elts, c.expr(kid))
		}
		return t

	case "none":
		return &Constant{base: c.base(n), Kind: ConstNone, Value: "None"}

	case "true":
		return &Constant{base: c.base(n), Kind: ConstBool, Value: "True"}

	case "false":
		return &Constant{base: c.base(n), Kind: ConstBool, Value: "False"}

	case "integer":
		return &Constant{base: c.base(n), Kind: ConstInt, Value: normalizeInt(nodeText(n, c.source))}

	case "float":
		return &Constant{base: c.base(n), Kind: ConstFloat, Value: strings.ReplaceAll(nodeText(n, c.source), "_", "")}

	case "string":
		if value, ok := decodeString(nodeText(n, c.source)); ok {
			return &Constant{base: c.base(n), Kind: ConstString, Value: value}
		}
	}

	return &Unknown{base: c.base(n), Kind: n.Kind()}
}

// slice builds the subscript argument: a single expression, or a Tuple when
// several were given.
func (c *converter) slice(owner *sitter.Node, params []*sitter.Node) Expr {
	if len(params) == 1 {
		return c.expr(params[0])
	}
	t := &Tuple{base: c.base(owner)}
	for _, p := range params {
		t.Elts = append(t.Elts, c.expr(p))
	}
	return t
}

// normalizeInt renders an integer literal in decimal, as Python's str() would.
func normalizeInt(text string) string {
	clean := strings.ReplaceAll(text, "_", "")
	if v, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return strconv.FormatInt(v, 10)
	}
	return clean
}

// decodeString strips the prefix and quotes from a string literal and decodes
// escape sequences. f-strings and bytes are not plain constants and are
// rejected.
func decodeString(lit string) (string, bool) {
	i := 0
	for i < len(lit) && lit[i] != '\'' && lit[i] != '"' {
		i++
	}
	prefix := strings.ToLower(lit[:i])
	if strings.ContainsAny(prefix, "fb") {
		return "", false
	}
	body := lit[i:]

	var quote string
	switch {
	case strings.HasPrefix(body, `"""`), strings.HasPrefix(body, `'''`):
		quote = body[:3]
	case len(body) >= 2:
		quote = body[:1]
	default:
		return "", false
	}
	if len(body) < 2*len(quote) || !strings.HasSuffix(body, quote) {
		return "", false
	}
	body = body[len(quote) : len(body)-len(quote)]

	if strings.Contains(prefix, "r") {
		return body, true
	}
	return unescape(body), true
}

// unescape decodes the common backslash escapes. Unknown escapes are kept as
// written, which is what Python does too.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '\'', '"':
			b.WriteByte(s[i])
		case '\n':
			// line continuation
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
