// Package tscheck verifies that generated TypeScript at least parses.
package tscheck

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ErrInvalidOutput is returned when generated text is not valid TypeScript.
var ErrInvalidOutput = errors.New("generated TypeScript does not parse")

// Checker parses TypeScript with tree-sitter.
type Checker struct {
	language *sitter.Language
}

// New creates a TypeScript syntax checker.
func New() *Checker {
	return &Checker{
		language: sitter.NewLanguage(typescript.LanguageTypescript()),
	}
}

// Check returns nil when source parses without error nodes. Otherwise the
// error names the first offending line and column.
func (c *Checker) Check(ctx context.Context, name, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(c.language); err != nil {
		return errors.Wrap(err, "failed to load typescript grammar")
	}

	src := []byte(source)
	tree := parser.Parse(src, nil)
	if tree == nil {
		return errors.Wrapf(ErrInvalidOutput, "%s: parser returned no tree", name)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}

	bad := firstError(root)
	if bad == nil {
		return errors.Wrapf(ErrInvalidOutput, "%s", name)
	}

	pos := bad.StartPosition()
	line := int(pos.Row) + 1
	err := errors.Wrapf(ErrInvalidOutput, "%s:%d:%d", name, line, int(pos.Column)+1)
	lines := strings.Split(source, "\n")
	if line-1 < len(lines) {
		err = errors.WithDetailf(err, "line %d: %s", line, lines[line-1])
	}
	return errors.WithHint(err, "check the annotations of the Python source for names that are not valid TypeScript")
}

// firstError walks the tree depth first for an ERROR or MISSING node.
func firstError(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if bad := firstError(node.Child(uint(i))); bad != nil {
			return bad
		}
	}
	return nil
}
