package pyast

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// position converts a node's start point to a 1-based Pos.
func position(node *sitter.Node) Pos {
	if node == nil {
		return Pos{}
	}
	p := node.StartPosition()
	return Pos{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// namedChildren returns the named children of node, skipping comments.
func namedChildren(node *sitter.Node) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child == nil || !child.IsNamed() || child.Kind() == "comment" {
			continue
		}
		results = append(results, child)
	}
	return results
}

// firstNamedChild returns the first named, non-comment child of node.
func firstNamedChild(node *sitter.Node) *sitter.Node {
	kids := namedChildren(node)
	if len(kids) == 0 {
		return nil
	}
	return kids[0]
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
// Returning false from the visitor skips the node's children.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
