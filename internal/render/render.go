// Package render turns transpiler digests into TypeScript source text.
package render

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mvp-joe/pybridge/internal/transpile"
)

// Default names used in the generated bridge.
const (
	DefaultBridgeClass  = "APIBridge"
	DefaultRemoteMethod = "remote"
)

// BridgeOptions controls names in the generated bridge.
type BridgeOptions struct {
	// ClassName is the exported facade class. Defaults to DefaultBridgeClass.
	ClassName string
	// RemoteMethod is the Boundary method that performs the remote call.
	// Defaults to DefaultRemoteMethod.
	RemoteMethod string
}

type bridgeView struct {
	Remote    string
	ClassName string
	Children  []childView
	Methods   []methodView
}

type childView struct {
	Name    string
	Member  string
	Methods []methodView
}

type methodView struct {
	Name     string
	Params   string
	Promise  string
	Remote   string
	CallArgs string
	HasDoc   bool
	Doc      string
}

type interfaceView struct {
	Records []recordView
	Aliases []string
}

type recordView struct {
	Name   string
	Parent string
	Fields []transpile.Field
}

// Bridge renders the remote call stubs for mod.
func Bridge(mod *transpile.BridgeModule, opts BridgeOptions) (string, error) {
	if opts.ClassName == "" {
		opts.ClassName = DefaultBridgeClass
	}
	if opts.RemoteMethod == "" {
		opts.RemoteMethod = DefaultRemoteMethod
	}

	view := bridgeView{
		Remote:    opts.RemoteMethod,
		ClassName: opts.ClassName,
	}
	for _, child := range mod.Children {
		member := strings.ToLower(child.Name)
		cv := childView{Name: child.Name, Member: member}
		for _, fn := range child.Methods {
			cv.Methods = append(cv.Methods, newMethodView(fn, member+"."+fn.Name, opts.RemoteMethod))
		}
		view.Children = append(view.Children, cv)
	}
	for _, fn := range mod.Facade.Methods {
		view.Methods = append(view.Methods, newMethodView(fn, fn.Name, opts.RemoteMethod))
	}

	var b strings.Builder
	if err := bridgeTemplate.Execute(&b, view); err != nil {
		return "", errors.Wrap(err, "failed to render bridge template")
	}
	return NormalizeNewlines(b.String()), nil
}

// Interfaces renders the record interfaces followed by the type aliases.
func Interfaces(mod *transpile.InterfaceModule) (string, error) {
	var view interfaceView
	for _, r := range mod.Records {
		view.Records = append(view.Records, recordView{
			Name:   r.Name,
			Parent: r.Parent.OrElse(""),
			Fields: r.Fields,
		})
	}
	for _, a := range mod.Aliases {
		view.Aliases = append(view.Aliases, a.String())
	}

	var b strings.Builder
	if err := interfaceTemplate.Execute(&b, view); err != nil {
		return "", errors.Wrap(err, "failed to render interface template")
	}
	return NormalizeNewlines(b.String()), nil
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func newMethodView(fn transpile.CompiledFunction, key, remote string) methodView {
	promise := "Promise<void>"
	if ret, ok := fn.ReturnType.Get(); ok {
		promise = "Promise<" + ret + ">"
	}

	call := append([]string{"'" + key + "'"}, fn.ArgNames...)

	mv := methodView{
		Name:     fn.Name,
		Params:   strings.Join(fn.Compiled, ", "),
		Promise:  promise,
		Remote:   remote,
		CallArgs: strings.Join(call, ", "),
	}
	if doc, ok := fn.Doc.Get(); ok {
		mv.HasDoc = true
		mv.Doc = commentBody(doc)
	}
	return mv
}

// commentBody indents a docstring for a block comment and keeps it from
// closing the comment early.
func commentBody(doc string) string {
	doc = strings.ReplaceAll(doc, "*/", `*\/`)
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "    " + line
		}
	}
	return strings.Join(lines, "\n")
}
