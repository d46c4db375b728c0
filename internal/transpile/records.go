package transpile

import (
	"github.com/cockroachdb/errors"
	"github.com/mvp-joe/pybridge/internal/pyast"
	"go.uber.org/zap"
)

// ExtractRecords walks the module's top level statements once, collecting
// record classes and `Name = A | B` aliases.
//
// A class is a record when one of its bases is a record marker or a record
// seen earlier in the same walk. Records declared later are not known yet,
// so a record whose parent is declared below it is not picked up.
func (t *Transpiler) ExtractRecords(mod *pyast.Module) (*InterfaceModule, error) {
	diags := NewDiagnostics(t.log.With(zap.String("file", mod.Filename)))
	result := &InterfaceModule{
		Records: []RecordInterface{},
		Aliases: []TypeAliasLine{},
	}
	known := make(map[string]bool)

	for _, stmt := range mod.Body {
		switch s := stmt.(type) {
		case *pyast.ClassDef:
			if !t.isRecord(s, known) {
				continue
			}
			record, err := t.extractRecord(s, diags)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: record %s", mod.Filename, s.Name)
			}
			result.Records = append(result.Records, record)
			known[s.Name] = true

		case *pyast.Assign:
			if alias, ok := unionAlias(s); ok {
				result.Aliases = append(result.Aliases, alias)
			}
		}
	}

	result.Diagnostics = diags.Items()
	return result, nil
}

func (t *Transpiler) isRecord(cls *pyast.ClassDef, known map[string]bool) bool {
	for _, b := range cls.Bases {
		switch n := b.(type) {
		case *pyast.Name:
			if t.markers[n.ID] || known[n.ID] {
				return true
			}
		case *pyast.Attribute:
			if t.markers[n.Attr] {
				return true
			}
		}
	}
	return false
}

func (t *Transpiler) extractRecord(cls *pyast.ClassDef, diags *Diagnostics) (RecordInterface, error) {
	record := RecordInterface{Name: cls.Name, Fields: []Field{}}

	if len(cls.Bases) > 0 {
		if n, ok := cls.Bases[0].(*pyast.Name); ok && !t.markers[n.ID] {
			record.Parent = Some(n.ID)
		}
	}

	for _, stmt := range cls.Body {
		ann, ok := stmt.(*pyast.AnnAssign)
		if !ok {
			continue
		}
		target, ok := ann.Target.(*pyast.Name)
		if !ok {
			continue
		}

		scope := Scope{Owner: cls.Name, Param: target.ID, Pos: ann.Pos()}
		typ, err := fieldType(ann.Annotation, scope, diags)
		if err != nil {
			return RecordInterface{}, errors.Wrapf(err, "field %s", target.ID)
		}
		record.Fields = append(record.Fields, Field{Name: target.ID, Type: typ})
	}

	return record, nil
}

// fieldType resolves a record field annotation. list[T] over a bare name is
// rendered directly as T[]; everything else goes through ResolveAnnotation.
func fieldType(e pyast.Expr, scope Scope, diags *Diagnostics) (string, error) {
	if sub, ok := e.(*pyast.Subscript); ok {
		switch wrapperName(sub.Value) {
		case "list", "List":
			if elem, ok := sub.Slice.(*pyast.Name); ok {
				return MapTypeToken(elem.ID) + "[]", nil
			}
		}
	}
	return ResolveAnnotation(e, scope, diags)
}

// unionAlias recognises `Name = A | B` where both sides are bare names.
func unionAlias(s *pyast.Assign) (TypeAliasLine, bool) {
	if len(s.Targets) != 1 {
		return TypeAliasLine{}, false
	}
	target, ok := s.Targets[0].(*pyast.Name)
	if !ok {
		return TypeAliasLine{}, false
	}
	op, ok := s.Value.(*pyast.BinOp)
	if !ok || op.Op != "|" {
		return TypeAliasLine{}, false
	}
	left, lok := op.Left.(*pyast.Name)
	right, rok := op.Right.(*pyast.Name)
	if !lok || !rok {
		return TypeAliasLine{}, false
	}
	return TypeAliasLine{
		Name: target.ID,
		Type: MapTypeToken(left.ID) + " | " + MapTypeToken(right.ID),
	}, true
}
