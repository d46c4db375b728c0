package transpile

import (
	"go.uber.org/zap"
)

// DefaultFacadeClass is the class whose methods become top level bridge methods.
const DefaultFacadeClass = "API"

// DefaultRecordMarkers are the base class names that mark a record class.
var DefaultRecordMarkers = []string{"TypedDict"}

// Options configures a Transpiler.
type Options struct {
	// FacadeClass is the facade class name. Defaults to DefaultFacadeClass.
	FacadeClass string
	// RecordMarkers are base class names that make a class a record.
	// Dotted bases match on their last part, so t.TypedDict matches TypedDict.
	RecordMarkers []string
	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Transpiler walks parsed modules and produces bridge and interface digests.
// It holds configuration only; every call starts from a clean state, so one
// Transpiler can serve concurrent calls.
type Transpiler struct {
	facade  string
	markers map[string]bool
	log     *zap.Logger
}

// New creates a Transpiler.
func New(opts Options) *Transpiler {
	t := &Transpiler{
		facade:  opts.FacadeClass,
		markers: make(map[string]bool),
		log:     opts.Logger,
	}
	if t.facade == "" {
		t.facade = DefaultFacadeClass
	}
	markers := opts.RecordMarkers
	if len(markers) == 0 {
		markers = DefaultRecordMarkers
	}
	for _, m := range markers {
		t.markers[m] = true
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	return t
}
