// Package drill implements the training-session core: the draw-timer state
// machine, the coaching feedback generator, and the session controller that
// throttles feedback and persists session logs.
package drill

import "fmt"

// Module identifies which training focus a session coaches.
type Module string

const (
	// ModuleStance coaches foot placement only.
	ModuleStance Module = "stance"
	// ModuleGrip coaches the two-hand grip only.
	ModuleGrip Module = "grip"
	// ModuleDraw times draw-from-holster repetitions only.
	ModuleDraw Module = "draw"
	// ModuleFull runs all three checks together.
	ModuleFull Module = "full"
)

// ParseModule validates a module name coming from the UI layer.
func ParseModule(s string) (Module, error) {
	switch Module(s) {
	case ModuleStance, ModuleGrip, ModuleDraw, ModuleFull:
		return Module(s), nil
	}
	return "", fmt.Errorf("unknown training module %q", s)
}

// includesStance reports whether the module coaches stance.
func (m Module) includesStance() bool { return m == ModuleStance || m == ModuleFull }

// includesGrip reports whether the module coaches grip.
func (m Module) includesGrip() bool { return m == ModuleGrip || m == ModuleFull }

// includesDraw reports whether the module times draws.
func (m Module) includesDraw() bool { return m == ModuleDraw || m == ModuleFull }
