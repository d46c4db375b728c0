package transpile

import (
	"fmt"

	"github.com/mvp-joe/pybridge/internal/pyast"
	"go.uber.org/zap"
)

// Scope names the declaration an expression belongs to.
type Scope struct {
	Owner string
	Param string
	Pos   pyast.Pos
}

// Diagnostic is a non-fatal finding, such as a parameter without annotation.
type Diagnostic struct {
	Pos     pyast.Pos
	Owner   string
	Param   string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s.%s: %s", d.Pos, d.Owner, d.Param, d.Message)
}

// Diagnostics collects warnings for one transpile run and logs them as they
// arrive. A nil *Diagnostics discards everything.
type Diagnostics struct {
	log   *zap.Logger
	items []Diagnostic
}

// NewDiagnostics creates a collector that also logs to log (may be nil).
func NewDiagnostics(log *zap.Logger) *Diagnostics {
	if log == nil {
		log = zap.NewNop()
	}
	return &Diagnostics{log: log}
}

// Warn records a diagnostic for scope.
func (d *Diagnostics) Warn(scope Scope, msg string) {
	if d == nil {
		return
	}
	d.items = append(d.items, Diagnostic{
		Pos:     scope.Pos,
		Owner:   scope.Owner,
		Param:   scope.Param,
		Message: msg,
	})
	d.log.Warn(msg,
		zap.String("function", scope.Owner),
		zap.String("parameter", scope.Param),
		zap.Int("line", scope.Pos.Line),
	)
}

// Items returns the recorded diagnostics in order.
func (d *Diagnostics) Items() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.items
}
