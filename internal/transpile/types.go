package transpile

import "fmt"

// Optional holds a value that may be absent. It replaces the use of a
// sentinel value to mean "not supplied".
type Optional[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether a value is present.
func (o Optional[T]) IsSome() bool {
	return o.ok
}

// OrElse returns the value if present, otherwise def.
func (o Optional[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// CompiledFunction is one method digested for the bridge.
// Compiled and ArgNames are parallel: Compiled[i] declares ArgNames[i].
type CompiledFunction struct {
	Name       string
	Compiled   []string // "name:type" or "name:type = value"
	ArgNames   []string // bare names, used when forwarding the call
	Doc        Optional[string]
	ReturnType Optional[string]
}

// ClassDigest is a class and its compiled methods in declaration order.
type ClassDigest struct {
	Name    string
	Methods []CompiledFunction
}

// Method looks up a compiled method by name.
func (d ClassDigest) Method(name string) (CompiledFunction, bool) {
	for _, m := range d.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return CompiledFunction{}, false
}

// put adds fn, replacing an earlier method of the same name in place.
// A redefinition keeps the first definition's position and the last one's body.
func (d *ClassDigest) put(fn CompiledFunction) {
	for i := range d.Methods {
		if d.Methods[i].Name == fn.Name {
			d.Methods[i] = fn
			return
		}
	}
	d.Methods = append(d.Methods, fn)
}

// BridgeModule is the result of partitioning a module's classes.
type BridgeModule struct {
	Facade      ClassDigest
	Children    []ClassDigest
	Diagnostics []Diagnostic
}

// Child looks up a child digest by class name.
func (m *BridgeModule) Child(name string) (ClassDigest, bool) {
	for _, c := range m.Children {
		if c.Name == name {
			return c, true
		}
	}
	return ClassDigest{}, false
}

func (m *BridgeModule) putChild(d ClassDigest) {
	for i := range m.Children {
		if m.Children[i].Name == d.Name {
			m.Children[i] = d
			return
		}
	}
	m.Children = append(m.Children, d)
}

// Field is one record field and its resolved type token.
type Field struct {
	Name string
	Type string
}

// RecordInterface is a declarative record class mirrored as an interface.
type RecordInterface struct {
	Name   string
	Fields []Field
	Parent Optional[string]
}

// TypeAliasLine is a module level `Name = A | B` union alias.
type TypeAliasLine struct {
	Name string
	Type string
}

// String renders the alias declaration.
func (a TypeAliasLine) String() string {
	return fmt.Sprintf("export type %s = %s", a.Name, a.Type)
}

// InterfaceModule is the result of extracting records and aliases.
type InterfaceModule struct {
	Records     []RecordInterface
	Aliases     []TypeAliasLine
	Diagnostics []Diagnostic
}
