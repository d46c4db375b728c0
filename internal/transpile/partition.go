package transpile

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mvp-joe/pybridge/internal/pyast"
	"go.uber.org/zap"
)

// PartitionClasses walks the module's top level classes once. The facade
// class becomes BridgeModule.Facade; every other class becomes a child
// digest, in declaration order.
func (t *Transpiler) PartitionClasses(mod *pyast.Module) (*BridgeModule, error) {
	diags := NewDiagnostics(t.log.With(zap.String("file", mod.Filename)))
	result := &BridgeModule{Facade: ClassDigest{Name: t.facade, Methods: []CompiledFunction{}}}

	foundFacade := false
	for _, stmt := range mod.Body {
		cls, ok := stmt.(*pyast.ClassDef)
		if !ok {
			continue
		}

		digest, err := DigestClass(cls, diags)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: class %s", mod.Filename, cls.Name)
		}

		if cls.Name == t.facade {
			result.Facade = digest
			foundFacade = true
			continue
		}
		result.putChild(digest)
	}

	if !foundFacade {
		diags.Warn(Scope{Owner: mod.Filename}, "no "+t.facade+" class found, bridge will only expose child classes")
	}

	result.Diagnostics = diags.Items()
	return result, nil
}

// DigestClass compiles the direct methods of a class. Dunder methods, async
// methods, nested classes and non-function statements are skipped.
func DigestClass(cls *pyast.ClassDef, diags *Diagnostics) (ClassDigest, error) {
	digest := ClassDigest{Name: cls.Name, Methods: []CompiledFunction{}}

	for _, stmt := range cls.Body {
		fn, ok := stmt.(*pyast.FunctionDef)
		if !ok || fn.Async {
			continue
		}
		if strings.HasPrefix(fn.Name, "__") {
			continue
		}

		compiled, err := CompileFunction(fn, true, diags)
		if err != nil {
			return ClassDigest{}, errors.Wrapf(err, "method %s", fn.Name)
		}
		digest.put(compiled)
	}

	return digest, nil
}
